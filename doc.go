// Package molframe turns tables of SMILES strings into molecular structures
// and structures into numeric feature tables for modeling.
//
// # Quick Start
//
//	df := frame.FromStrings("smiles", []string{"CCO", "not-a-smiles", "c1ccccc1"})
//	df, _ = molframe.SMILES2Mol(df, "smiles", "mol")          // 2 rows, index 0..1
//	fp, _ := molframe.MorganFingerprint(df, "mol",
//	    molframe.WithRadius(2), molframe.WithNBits(16), molframe.WithKind(molframe.KindBits))
//	desc, _ := molframe.MolecularDescriptors(df, "mol")       // 39 columns
//	keys, _ := molframe.MACCSKeysFingerprint(df, "mol")       // 167 columns
//
// # Row alignment
//
// SMILES2Mol mutates its input: it adds the structure column, drops rows
// that failed to parse (unless WithDropNulls(false)), and always renumbers
// the index 0..n-1. Callers must not rely on the original row labels after
// it returns.
//
// The featurization functions never mutate their input. They return new
// frames that carry the input's row index and none of its columns, so the
// result can be joined back with frame.Frame.Join.
//
// # Failure model
//
// Option values are validated before any row is touched and fail with
// ErrInvalidArgument. A SMILES string that does not parse is data, not an
// error: it becomes a null structure. A null structure reaching a
// featurization call aborts the call with a *RowError wrapping
// ErrNullStructure; no partial frame is returned.
//
// # Toolkits
//
// The transforms delegate all chemistry to a chem.Toolkit. chem.Default is a
// pure-Go implementation. New checks a toolkit's capabilities once and
// reports gaps as ErrCapability with a hint.
//
// Tables with many repeated structures can skip re-parsing with a parse
// cache shared by all calls of a Transformer:
//
//	t, err := molframe.New(molframe.WithParseCache(4096))
package molframe
