package formation

import "time"

// VoieOther is the catch-all track-category code grouping every program type
// that has no dedicated voie.
const VoieOther = "autre"

// Formation is the domain representation of a program listing. It mirrors the
// formations table and is read-only from this layer's perspective.
type Formation struct {
	ID          int64
	Institution string
	Program     string
	City        string
	Department  string
	Voie        string
	CreatedAt   time.Time
}

// ListFilters is the caller-supplied filter set for one listing query.
type ListFilters struct {
	// Search matches case-insensitively against institution, program and city.
	Search string
	// Voies selects track-category codes. IncludeOther adds the catch-all
	// category to the same OR-group.
	Voies        []string
	IncludeOther bool
	// Department and City are exact-equality filters.
	Department string
	City       string

	Page     int
	PageSize int

	// SortKey orders results when non-empty; SortOrder sorts ascending only
	// when exactly "asc", descending otherwise.
	SortKey   string
	SortOrder string
}

// ListResult is one page of matching formations plus the total match count
// ignoring pagination.
type ListResult struct {
	Items []Formation
	Total int
}

// Detail is a formation record annotated with the outcome of the notes
// enrichment step.
type Detail struct {
	Formation
	// Notes is nil whenever Locked is true.
	Notes *string
	// Locked reports that notes are withheld: anonymous caller, or the
	// enrichment call was denied or failed.
	Locked bool
	// Error carries the enrichment failure message, if any.
	Error string
}
