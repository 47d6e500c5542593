// Package cache provides a bounded, concurrency-safe LRU map used to reuse
// parsed structures for repeated SMILES strings.
package cache
