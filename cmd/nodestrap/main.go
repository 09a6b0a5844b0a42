package main

import (
	"os"

	"github.com/example/nodestrap/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
