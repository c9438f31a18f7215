package main

import (
	"fmt"
	"os"

	"github.com/sandeepkv93/obsion/cmd/obsion/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "obsion failed: %v\n", err)
		os.Exit(1)
	}
}
