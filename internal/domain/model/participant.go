// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// NameKey returns the case-insensitive identity key for a participant name.
// A Caser keeps state between calls, so each call gets its own.
func NameKey(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// Participant is a secret santa taking part in the draw.
// Identity is the case-folded name; Email is carried as-is.
type Participant struct {
	Name  string // display name, unique ignoring case
	Email string // delivery address
}

// Key returns the identity key of p.
func (p Participant) Key() string {
	return NameKey(p.Name)
}

// Equal reports whether p and o are the same participant (names compared ignoring case).
func (p Participant) Equal(o Participant) bool {
	return p.Key() == o.Key()
}

// Compare orders participants alphabetically ignoring case.
// Ties on the folded key are broken by the raw name so the order is total.
func (p Participant) Compare(o Participant) int {
	if c := strings.Compare(p.Key(), o.Key()); c != 0 {
		return c
	}
	return strings.Compare(p.Name, o.Name)
}

func (p Participant) String() string {
	return fmt.Sprintf("%s <%s>", p.Name, p.Email)
}

// SortParticipants returns a name-sorted copy of ps.
func SortParticipants(ps []Participant) []Participant {
	out := slices.Clone(ps)
	slices.SortFunc(out, Participant.Compare)
	return out
}

// Exclusions maps a santa name to the recipient names that santa must never draw.
// Names are matched ignoring case. The relation is not required to be symmetric.
type Exclusions map[string][]string

// Normalize folds every name and drops duplicate entries, merging santas whose
// names differ only by case.
func (e Exclusions) Normalize() map[string]map[string]struct{} {
	out := make(map[string]map[string]struct{}, len(e))
	for santa, recipients := range e {
		key := NameKey(santa)
		set, ok := out[key]
		if !ok {
			set = make(map[string]struct{}, len(recipients))
			out[key] = set
		}
		for _, r := range recipients {
			set[NameKey(r)] = struct{}{}
		}
	}
	return out
}
