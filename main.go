package main

import (
	"os"

	"github.com/theapemachine/contract-search/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
