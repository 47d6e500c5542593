// Package chem is a small pure-Go cheminformatics toolkit.
//
// It parses SMILES into a molecular graph (Mol) with implicit hydrogens,
// a smallest set of smallest rings and Hückel aromaticity, and computes the
// features the table transforms need:
//
//   - Morgan circular fingerprints, as bits (MorganFingerprint) or counts
//     (HashedMorganFingerprint)
//   - 167-bit MACCS structural keys (MACCSKeys)
//   - a fixed catalog of 39 molecular descriptors (Descriptors)
//
// Substructure queries are written in a SMARTS subset (CompileSMARTS).
//
// The Toolkit interface abstracts these operations so callers can plug in a
// different implementation; Builtin is the default.
package chem
