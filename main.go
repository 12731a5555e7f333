package main

import (
	"os"

	"github.com/pterodactyl/fh/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
