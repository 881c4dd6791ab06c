package main

import (
	"os"

	"github.com/cottand/gradual/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		// cobra already printed the error
		os.Exit(1)
	}
}
