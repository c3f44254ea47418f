package main

import (
	"os"

	"github.com/rogerwwx/mem-cleaner/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
