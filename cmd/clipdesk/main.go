package main

import (
	"os"

	"github.com/clipdesk/clipdesk/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
