// Package frame provides the minimal table abstraction the chemistry
// transforms operate on: named, position-aligned, nullable columns with an
// integer row index.
//
// Mutating methods (Set, Drop, DropNulls, ResetIndex, SetIndex) change the
// frame in place. Take, Copy and Join return new frames that share column
// storage with their source.
package frame
