// Package main is the entry point for the ghnotice CLI.
package main

import "github.com/ghnotice/ghnotice/cmd/ghnotice/commands"

func main() {
	commands.Execute()
}
