package main

import (
	"os"

	"github.com/Fastpacer/jobcraft/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
