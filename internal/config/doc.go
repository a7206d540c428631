// Package config loads cineco-calendar settings from the environment.
//
// Values can also come from a .env file in the working directory; variables
// already set in the process environment take precedence.
package config
