// Package vocab defines the ordered lexical vocabularies behind attribute
// inference. Order is part of the contract: first-match lookups resolve ties
// by declaration order, so reordering a vocabulary changes results. That is
// why these are slices, never maps.
package vocab

import "strings"

// Terms is an ordered flat vocabulary. Matching is plain substring search
// over already-lowercased text, so a term embedded inside a longer word still
// matches — an accepted limitation of the lexical approach.
type Terms []string

// FirstMatch returns the first term contained in text, in declaration order.
func (t Terms) FirstMatch(text string) (string, bool) {
	for _, term := range t {
		if strings.Contains(text, term) {
			return term, true
		}
	}
	return "", false
}

// Entry binds a label to the trigger phrases that elect it. Triggers must be
// lower case.
type Entry struct {
	Label    string   `yaml:"label"`
	Triggers []string `yaml:"triggers"`
}

// List is an ordered labeled vocabulary.
type List []Entry

// FirstLabel returns the first label any of whose triggers is contained in
// text. Entries are tried in declaration order.
func (l List) FirstLabel(text string) (string, bool) {
	for _, e := range l {
		for _, trig := range e.Triggers {
			if strings.Contains(text, trig) {
				return e.Label, true
			}
		}
	}
	return "", false
}

// AllLabels returns every label with at least one trigger contained in text,
// in declaration order. Nil when nothing matches.
func (l List) AllLabels(text string) []string {
	var found []string
	for _, e := range l {
		for _, trig := range e.Triggers {
			if strings.Contains(text, trig) {
				found = append(found, e.Label)
				break
			}
		}
	}
	return found
}

// Singularize strips one trailing "s" from a token. Naive on purpose:
// "boots" becomes "boot", irregular plurals stay wrong.
func Singularize(token string) string {
	return strings.TrimSuffix(token, "s")
}
