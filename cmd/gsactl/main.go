package main

import (
	"os"

	"gsa/cmd/gsactl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
