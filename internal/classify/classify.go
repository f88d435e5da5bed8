// Package classify resolves normalized candidates against the good and bad
// reference tables.
package classify

import "github.com/CubeCoding7/ECDApp/internal/reference"

// NoDescription is the description given to a candidate found in neither table
const NoDescription = "no description available"

// Lookuper is the read side of a reference table
type Lookuper interface {
	Lookup(name string) (string, bool)
}

// Result is a candidate annotated with its description and the list it was
// found in. List is empty when the candidate is unknown.
type Result struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	List        reference.List `json:"list,omitempty"`
}

// Known reports whether the candidate matched either table
func (r Result) Known() bool {
	return r.List != ""
}

// Classify looks candidate up in good first, then bad. A name present in both
// tables is classified as good.
func Classify(candidate string, good, bad Lookuper) Result {
	if description, ok := good.Lookup(candidate); ok {
		return Result{Name: candidate, Description: description, List: reference.Good}
	}
	if description, ok := bad.Lookup(candidate); ok {
		return Result{Name: candidate, Description: description, List: reference.Bad}
	}
	return Result{Name: candidate, Description: NoDescription}
}

// ClassifyAll classifies each candidate, preserving order and duplicates
func ClassifyAll(candidates []string, good, bad Lookuper) []Result {
	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, Classify(c, good, bad))
	}
	return results
}
