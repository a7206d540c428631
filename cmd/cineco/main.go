package main

import "github.com/pfrederiksen/cineco-calendar/internal/cli"

func main() {
	cli.Execute()
}
