package main

import (
	"fmt"
	"os"

	"github.com/nasl-runtime/naslrun/internal/naslcli"
)

func main() {
	if err := naslcli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
