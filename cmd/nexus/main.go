package main

import (
	"os"

	"github.com/nexuslang/nexus/pkg/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
