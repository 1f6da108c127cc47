package deckstats

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"commander-league/internal/domain"
)

// "1 Sol Ring (C21) 263", "Sol Ring", "2x Island (UND) 89 *F*"
var entryPattern = regexp.MustCompile(`^(?:(\d+)x?\s+)?(.+?)(?:\s+\([0-9A-Za-z]+\)(?:\s+\S+)?)?(?:\s+\*[A-Z]+\*)?$`)

// ParseDecklist reads an exported deck list. Blank lines, comments and
// section headers such as "SIDEBOARD:" are skipped.
func ParseDecklist(text string) ([]domain.DeckEntry, error) {
	var entries []domain.DeckEntry
	sc := bufio.NewScanner(strings.NewReader(text))
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "//") || strings.HasSuffix(line, ":") {
			continue
		}
		m := entryPattern.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("%w: line %d: %q", domain.ErrInvalidInput, n, line)
		}
		qty := 1
		if m[1] != "" {
			v, err := strconv.Atoi(m[1])
			if err != nil || v <= 0 {
				return nil, fmt.Errorf("%w: line %d: bad quantity %q", domain.ErrInvalidInput, n, m[1])
			}
			qty = v
		}
		entries = append(entries, domain.DeckEntry{Quantity: qty, Name: strings.TrimSpace(m[2])})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read deck list: %w", err)
	}
	return entries, nil
}

// CardIndex looks cards up by name, case-insensitively. Multi-faced cards are
// also reachable by their front face name.
type CardIndex map[string]domain.Card

func NewCardIndex(cards []domain.Card) CardIndex {
	idx := make(CardIndex, len(cards))
	for _, c := range cards {
		key := strings.ToLower(c.Name)
		if _, ok := idx[key]; !ok {
			idx[key] = c
		}
		if front, _, ok := strings.Cut(key, " // "); ok {
			if _, taken := idx[front]; !taken {
				idx[front] = c
			}
		}
	}
	return idx
}

func (idx CardIndex) Lookup(name string) (domain.Card, bool) {
	c, ok := idx[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// Resolve expands entries into one card per copy. Names the index does not
// know are returned in order of first appearance.
func Resolve(idx CardIndex, entries []domain.DeckEntry) (cards []domain.Card, missing []string) {
	seen := make(map[string]bool)
	for _, e := range entries {
		c, ok := idx.Lookup(e.Name)
		if !ok {
			if !seen[e.Name] {
				seen[e.Name] = true
				missing = append(missing, e.Name)
			}
			continue
		}
		for range e.Quantity {
			cards = append(cards, c)
		}
	}
	return cards, missing
}
