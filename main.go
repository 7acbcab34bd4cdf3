package main

import (
	"os"

	"github.com/margaycli/margay/internal/cli"
)

func main() {
	os.Exit(cli.Main())
}
