package main

import (
	"os"

	"github.com/namsos-athenaeum/athenaeum/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
