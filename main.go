package main

import (
	"fmt"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/yiblet/sipp/internal/cli"
)

func main() {
	// Parse command-line arguments
	var args cli.Args
	parser := arg.MustParse(&args)

	cliHandler, err := cli.NewWithArgs(&args)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	err = cliHandler.Execute()
	cliHandler.Close()
	if err != nil {
		fmt.Printf("Error: %v\n", err)

		// Argument problems get the usage text as well
		if args.Serve != nil || args.Upload != nil {
			fmt.Println()
			parser.WriteUsage(os.Stderr)
		}
		os.Exit(1)
	}
}
