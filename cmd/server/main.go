package main

import (
	"os"

	"github.com/amakodev/ADM-travels/cmd/server/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
