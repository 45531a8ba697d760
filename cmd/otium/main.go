package main

import (
	"os"

	"github.com/upvalue/otium/pkg/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
