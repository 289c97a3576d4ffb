// Package cli is the interactive front end of phonenet. Shell reads one
// command per line and drives a network.Network; Parse handles the
// process-level flags of the phonenet binary.
package cli
