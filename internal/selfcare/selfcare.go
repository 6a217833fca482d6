// Package selfcare provides the fixed whitelist of self-care tags offered by
// the mental health check-in, with validation and toggle semantics.
package selfcare

import "sort"

// AllTags is the hard-coded set of self-care tags.
var AllTags = map[string]bool{
	"meal":  true, // ate a nourishing meal
	"water": true, // drank enough water
	"move":  true, // moved the body (walk, stretch)
	"break": true, // took a mindful break
	"hobby": true, // spent time on a hobby
	"none":  true, // no self-care yet today
}

// canonicalOrder fixes the display and payload ordering of tags.
var canonicalOrder = []string{"meal", "water", "move", "break", "hobby", "none"}

// Valid reports whether tag is part of the whitelist.
func Valid(tag string) bool {
	return AllTags[tag]
}

// Toggle adds tag to the selection if absent and removes it if present.
// Unknown tags leave the selection unchanged. The result has set semantics:
// duplicates are impossible by construction.
func Toggle(selection []string, tag string) []string {
	if !Valid(tag) {
		return selection
	}
	out := make([]string, 0, len(selection)+1)
	removed := false
	for _, t := range selection {
		if t == tag {
			removed = true
			continue
		}
		out = append(out, t)
	}
	if !removed {
		out = append(out, tag)
	}
	return out
}

// Canonical returns the selection deduplicated, restricted to the whitelist
// and sorted in canonical order.
func Canonical(selection []string) []string {
	seen := make(map[string]bool, len(selection))
	for _, t := range selection {
		if Valid(t) {
			seen[t] = true
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	rank := make(map[string]int, len(canonicalOrder))
	for i, t := range canonicalOrder {
		rank[t] = i
	}
	sort.Slice(out, func(i, j int) bool { return rank[out[i]] < rank[out[j]] })
	return out
}
