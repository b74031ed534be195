// Package main provides the entry point for the codecortex CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codecortex/cmd/codecortex/commands"
	"github.com/Sumatoshi-tech/codecortex/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "codecortex",
		Short: "CodeCortex - static code metrics for PHP, Laravel and frontend projects",
		Long: `CodeCortex walks a project, hands every file to the most specific
language or framework driver and reports size, complexity and framework
metrics. Laravel projects also get dead code, duplicate and security checks.

Commands:
  analyze    Analyze a project directory
  drivers    List the language and framework drivers
  analyzers  List the available analyzers`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewDriversCommand())
	rootCmd.AddCommand(commands.NewAnalyzersCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
