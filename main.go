package main

import (
	"os"

	"github.com/examdesk/examdesk/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
