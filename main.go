package main

import (
	"os"

	"github.com/projectavishkar/krishimitra/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
