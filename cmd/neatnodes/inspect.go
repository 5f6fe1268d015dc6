package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/baldhumanity/neatnodes/neat/genomejson"
	"github.com/baldhumanity/neatnodes/neat/nn"
)

func newInspectCmd() *cobra.Command {
	var genomePath string
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the structure of a saved genome",
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, comment, err := genomejson.ReadFile(genomePath)
			if err != nil {
				return err
			}
			t := nn.Analyze(g)

			out := cmd.OutOrStdout()
			if comment != "" {
				fmt.Fprintf(out, "comment:     %s\n", comment)
			}
			fmt.Fprintf(out, "inputs:      %v\n", g.InputLabels())
			fmt.Fprintf(out, "outputs:     %v\n", g.OutputLabels())
			fmt.Fprintf(out, "nodes:       %d\n", t.Nodes)
			fmt.Fprintf(out, "connections: %d enabled, %d disabled\n", t.Edges, t.Disabled)
			fmt.Fprintf(out, "recurrent:   %t\n", t.Recurrent)
			if len(t.SelfLoops) > 0 {
				fmt.Fprintf(out, "self loops:  %v\n", t.SelfLoops)
			}
			for _, cycle := range t.Cycles {
				fmt.Fprintf(out, "cycle:       %v\n", cycle)
			}
			if t.Order != nil {
				fmt.Fprintf(out, "order:       %v\n", t.Order)
			}
			fmt.Fprintf(out, "min depth:   %d\n", t.MinDepth)
			fmt.Fprintln(out)
			for _, c := range g.Connections() {
				fmt.Fprintln(out, c)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&genomePath, "genome", "", "genome JSON file")
	_ = cmd.MarkFlagRequired("genome")
	return cmd
}
