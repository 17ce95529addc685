package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity. The version suffix
// allows the algorithm to change without colliding with old hashes.
const (
	DomainRequest = "harmonics/request/v1"
	DomainResult  = "harmonics/result/v1"
	DomainLookup  = "harmonics/lookup/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data) as hex. The null
// separator keeps the domain and data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// RequestHash identifies a request by content. Two lookups with the same
// note, instrument, reference, constraints and intervals share a hash.
func RequestHash(r Request) (string, error) {
	canonical, err := r.Canonical()
	if err != nil {
		return "", fmt.Errorf("RequestHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRequest, canonical), nil
}

// ResultHash identifies an ordered result by content. The search is
// deterministic, so repeating a request must reproduce its result hash.
func ResultHash(records []HarmonicRecord) (string, error) {
	canonical, err := MarshalCanonical(ResultToIR(records))
	if err != nil {
		return "", fmt.Errorf("ResultHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainResult, canonical), nil
}

// LookupID identifies one recorded lookup: a request made at a logical
// sequence number within a run.
func LookupID(runToken, requestHash string, seq int64) (string, error) {
	obj := IRObject{
		"run_token":    IRString(runToken),
		"request_hash": IRString(requestHash),
		"seq":          IRInt(seq),
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("LookupID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainLookup, canonical), nil
}

// MustRequestHash is like RequestHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustRequestHash(r Request) string {
	h, err := RequestHash(r)
	if err != nil {
		panic(err)
	}
	return h
}
