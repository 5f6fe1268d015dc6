package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/baldhumanity/neatnodes/neat"
	"github.com/baldhumanity/neatnodes/neat/dataset"
	"github.com/baldhumanity/neatnodes/neat/genomejson"
	"github.com/baldhumanity/neatnodes/neat/nn"
)

func newScoreCmd() *cobra.Command {
	var (
		genomePath string
		dataPath   string
		depth      int
	)
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a saved genome against a dataset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, _, err := genomejson.ReadFile(genomePath)
			if err != nil {
				return err
			}
			ds, err := dataset.Load(dataPath)
			if err != nil {
				return err
			}
			net, err := nn.New(g, depth)
			if err != nil {
				return err
			}
			fitness, err := neat.TestFitness(g, ds, net.Depth())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "fitness %.6f at depth %d\n\n", fitness, net.Depth())
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "row\tinputs\texpected\toutputs")
			for row := 0; row < ds.RowCount(); row++ {
				outputs, err := net.Activate(ds.Inputs(row))
				if err != nil {
					return fmt.Errorf("row %d: %w", row, err)
				}
				fmt.Fprintf(tw, "%d\t%v\t%v\t%s\n", row, ds.Inputs(row), ds.Outputs(row), formatValues(outputs))
			}
			return tw.Flush()
		},
	}

	f := cmd.Flags()
	f.StringVar(&genomePath, "genome", "", "genome JSON file")
	f.StringVar(&dataPath, "data", "", "CSV dataset")
	f.IntVar(&depth, "depth", neat.DefaultConfig().Depth, "runs per input row, 0 to derive it from the topology")
	_ = cmd.MarkFlagRequired("genome")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func formatValues(values []float64) string {
	s := "["
	for i, v := range values {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%.4f", v)
	}
	return s + "]"
}
