package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codecortex/pkg/analysis"
	"github.com/Sumatoshi-tech/codecortex/pkg/driver"
	"github.com/Sumatoshi-tech/codecortex/pkg/drivers"
)

// NewDriversCommand creates the drivers command.
func NewDriversCommand() *cobra.Command {
	var hierarchy bool

	cmd := &cobra.Command{
		Use:   "drivers",
		Short: "List the language and framework drivers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := drivers.NewRegistry(nil, drivers.LaravelSet())
			if err != nil {
				return fmt.Errorf("register drivers: %w", err)
			}

			if hierarchy {
				printHierarchy(cmd.OutOrStdout(), reg.Hierarchy(), 0)

				return nil
			}

			printDrivers(cmd.OutOrStdout(), reg.Drivers())

			return nil
		},
	}

	cmd.Flags().BoolVar(&hierarchy, "hierarchy", false, "Show drivers as a specialization tree")

	return cmd
}

func printDrivers(w io.Writer, list []driver.Driver) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Driver", "Priority", "Extensions", "Parent"})

	for _, d := range list {
		desc := d.Descriptor()
		tbl.AppendRow(table.Row{desc.Name, desc.Priority, strings.Join(desc.Extensions, ", "), desc.Parent})
	}

	tbl.Render()
}

func printHierarchy(w io.Writer, nodes []*driver.Node, depth int) {
	for _, n := range nodes {
		desc := n.Driver.Descriptor()
		fmt.Fprintf(w, "%s%s (priority %d)\n", strings.Repeat("  ", depth), desc.Name, desc.Priority)
		printHierarchy(w, n.Children, depth+1)
	}
}

// NewAnalyzersCommand creates the analyzers command.
func NewAnalyzersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "analyzers",
		Short: "List the available analyzers",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, a := range analysis.Analyzers() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", a.Name, a.Description)
			}
		},
	}
}
