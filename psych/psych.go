// Package psych labels journal notes with trading psychology tags by keyword
// matching.
package psych

import "strings"

const (
	FOMO        = "FOMO"
	Revenge     = "Revenge"
	Gambler     = "Gambler"
	Disciplined = "Disciplined"
)

type rule struct {
	label    string
	keywords []string
}

// rules are evaluated in order; the output keeps that order.
var rules = []rule{
	{FOMO, []string{"late", "chase", "missed", "fast"}},
	{Revenge, []string{"recover", "back", "angry", "revenge"}},
	{Gambler, []string{"hope", "guess", "maybe", "feel"}},
	{Disciplined, []string{"plan", "setup", "wait", "rules"}},
}

// Analyze returns every label whose keywords occur in notes, compared
// case-insensitively as plain substrings. It returns nil when nothing matches.
func Analyze(notes string) []string {
	lower := strings.ToLower(notes)
	if strings.TrimSpace(lower) == "" {
		return nil
	}

	var tags []string
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				tags = append(tags, r.label)
				break
			}
		}
	}
	return tags
}

// Labels returns the tag vocabulary in evaluation order.
func Labels() []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.label
	}
	return out
}
