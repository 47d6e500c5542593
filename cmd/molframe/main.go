// Command molframe featurizes SMILES tables from the command line.
//
//	molframe featurize compounds.csv --morgan --descriptors -o features.parquet
//	molframe describe "CC(=O)Oc1ccccc1C(=O)O"
//	molframe check
package main

import "os"

func main() {
	if err := execute(newRootCmd()); err != nil {
		os.Exit(1)
	}
}
