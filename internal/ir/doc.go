// Package ir provides the canonical, float-free record types used to store
// and content-address harmonic lookups.
//
// ir imports nothing internal. Other packages convert their values into
// Request and HarmonicRecord before hashing or persisting them.
//
// Key design constraints:
//   - NO float types: frequencies, lengths and cents are scaled integers
//   - canonical JSON follows RFC 8785 and is the only input to hashes
//   - all JSON keys use snake_case
//   - logical sequence numbers only, never wall-clock timestamps
package ir
