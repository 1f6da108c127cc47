package domain

import (
	"fmt"
	"strings"
)

// DeckKey formats the composite "commander (owner)" identity of a deck.
func DeckKey(commander, owner string) string {
	return commander + " (" + owner + ")"
}

// ParseDeckKey splits a composite key at its last parenthesised group, so a
// commander name may itself contain parentheses.
func ParseDeckKey(key string) (commander, owner string, err error) {
	if !strings.HasSuffix(key, ")") {
		return "", "", fmt.Errorf("%w: %q has no owner suffix", ErrMalformedKey, key)
	}
	open := strings.LastIndex(key, " (")
	if open <= 0 {
		return "", "", fmt.Errorf("%w: %q has no commander", ErrMalformedKey, key)
	}
	commander = key[:open]
	owner = key[open+2 : len(key)-1]
	if owner == "" || strings.ContainsAny(owner, "()") || strings.TrimSpace(commander) == "" {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedKey, key)
	}
	return commander, owner, nil
}
