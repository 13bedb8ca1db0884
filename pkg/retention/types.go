package retention

// IndexRecord describes one index at collection time: its name, its total
// store size, and its creation timestamp in epoch milliseconds. Records are
// collected fresh per run and never persisted.
type IndexRecord struct {
	Name         string
	SizeBytes    int64
	CreationDate int64
}

// Plan is the outcome of one planning pass: the ordered index names
// selected for deletion plus the figures that led there. It is consumed
// immediately by the executor (or printed in a dry run) and discarded.
type Plan struct {
	// Delete lists the index names to delete, in selection order.
	Delete []string `json:"delete"`

	// BudgetBytes is the byte ceiling matching indices may occupy.
	BudgetBytes int64 `json:"budget_bytes"`

	// CandidateBytes is the summed store size of all matching indices.
	CandidateBytes int64 `json:"candidate_bytes"`

	// Candidates is the number of matching indices considered.
	Candidates int `json:"candidates"`

	// sizes carries per-index sizes through to the executor for
	// bytes-freed accounting.
	sizes map[string]int64
}

// SizeOf returns the collected store size for a planned index name.
func (p *Plan) SizeOf(name string) int64 {
	return p.sizes[name]
}

// Outcome is the per-index result of the delete phase.
type Outcome struct {
	// Name is the index the outcome refers to.
	Name string `json:"name"`

	// Deleted is true when the index was removed by this run.
	Deleted bool `json:"deleted"`

	// NotFound is true when the index was already absent; tolerated, not
	// an error.
	NotFound bool `json:"not_found,omitempty"`

	// Err holds the per-index failure, if any.
	Err error `json:"-"`
}

// Failed reports whether this outcome is an actual failure.
func (o Outcome) Failed() bool {
	return o.Err != nil
}
