package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/hupe1980/molframe"
	"github.com/hupe1980/molframe/frame"
	"github.com/spf13/cobra"
)

func newDescribeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <smiles>...",
		Short: "Print molecular descriptors for SMILES strings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := molframe.New(molframe.WithLogger(a.logger), molframe.WithDropNulls(false))
			if err != nil {
				return err
			}
			df, err := t.SMILES2Mol(frame.FromStrings("smiles", args), "smiles", "mol")
			if err != nil {
				return err
			}

			valid := make([]int, 0, df.Len())
			col, err := df.Column("mol")
			if err != nil {
				return err
			}
			for r := 0; r < df.Len(); r++ {
				if !col.IsNull(r) {
					valid = append(valid, r)
				}
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer tw.Flush()

			for r := 0; r < df.Len(); r++ {
				if col.IsNull(r) {
					a.logger.Warn("cannot parse SMILES", "smiles", args[r])
				}
			}
			if len(valid) == 0 {
				return nil
			}

			desc, err := t.MolecularDescriptors(df.Take(valid), "mol")
			if err != nil {
				return err
			}
			m, err := desc.Float64Matrix()
			if err != nil {
				return err
			}

			fmt.Fprint(tw, "descriptor")
			for _, r := range valid {
				fmt.Fprintf(tw, "\t%s", args[r])
			}
			fmt.Fprintln(tw)
			for j, name := range desc.Names() {
				fmt.Fprint(tw, name)
				for i := range valid {
					fmt.Fprintf(tw, "\t%.4g", m[i][j])
				}
				fmt.Fprintln(tw)
			}
			return nil
		},
	}
}
