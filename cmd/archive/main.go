package main

import (
	"os"

	"github.com/grovetools/archive/cli"
	"github.com/grovetools/archive/cmd"
	"github.com/grovetools/archive/logging"
)

func main() {
	rootCmd := cmd.NewRootCmd()

	err := rootCmd.Execute()
	_ = logging.Close()
	if err != nil {
		cli.NewErrorHandler(cli.GetOptions(rootCmd).Verbose).Handle(err)
		os.Exit(1)
	}
}
