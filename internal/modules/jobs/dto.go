package jobs

// RowError records a single row that failed inside a sweep. The sweep keeps
// going; the row is retried on the next run because its state predicate
// still matches.
type RowError struct {
	ID    int64  `json:"id"`
	Error string `json:"error"`
}

// Result summarizes one sweep run.
type Result struct {
	Processed int        `json:"processed"`
	Succeeded int        `json:"succeeded"`
	Errors    []RowError `json:"errors,omitempty"`
}

func (r *Result) fail(id int64, err error) {
	r.Errors = append(r.Errors, RowError{ID: id, Error: err.Error()})
}
