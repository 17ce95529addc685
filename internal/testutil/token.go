package testutil

import "sync"

// DefaultRunToken is used when a FixedTokenGenerator is given no tokens.
const DefaultRunToken = "test-run-00000000-0000-0000-0000-000000000001"

// FixedTokenGenerator returns predetermined run tokens, satisfying
// store.TokenGenerator. Tokens are handed out in order; once exhausted the
// last one repeats, so a single token serves any number of runs.
type FixedTokenGenerator struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

// NewFixedTokenGenerator returns a generator over tokens.
func NewFixedTokenGenerator(tokens ...string) *FixedTokenGenerator {
	if len(tokens) == 0 {
		tokens = []string{DefaultRunToken}
	}
	return &FixedTokenGenerator{tokens: tokens}
}

// Generate returns the next token.
func (g *FixedTokenGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	token := g.tokens[g.idx]
	if g.idx < len(g.tokens)-1 {
		g.idx++
	}
	return token
}
