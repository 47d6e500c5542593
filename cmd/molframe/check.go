package main

import (
	"fmt"

	"github.com/hupe1980/molframe"
	"github.com/hupe1980/molframe/chem"
	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the toolkit and configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := molframe.ParseProgressMode(a.cfg.Progress)
			if err != nil {
				return err
			}
			if err := molframe.CheckCapabilities(chem.Default, mode); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "toolkit %s: ok (%d descriptors, %d MACCS keys)\n",
				chem.Default.Name(), len(chem.Default.DescriptorNames()), chem.MACCSBits)
			return nil
		},
	}
}
