package main

import (
	"os"

	"github.com/layera/stylegen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
