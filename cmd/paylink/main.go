package main

import (
	"os"

	"paylink/cmd/paylink/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
