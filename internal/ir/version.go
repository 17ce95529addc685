package ir

// Version constants recorded with every stored lookup.
const (
	// IRVersion is the canonical record schema version.
	IRVersion = "1"

	// AlgorithmVersion changes whenever the harmonic search can return a
	// different result for the same request. Replay compares only lookups
	// recorded under the current version.
	AlgorithmVersion = "1"
)
