package domain

import "math"

type CompletionState string

const (
	CompletionUnknown  CompletionState = "unknown"
	CompletionPartial  CompletionState = "partial"
	CompletionComplete CompletionState = "complete"
)

// Completion compares an album's linked tracks against its expected total.
type Completion struct {
	Expected *int            `json:"expected"`
	State    CompletionState `json:"state"`
	Actual   int             `json:"actual"`
	Percent  int             `json:"percent"`
}

// ComputeCompletion derives the completion state. A nil or non-positive expected
// count is unknown with percent 0.
func ComputeCompletion(expected *int, actual int) Completion {
	c := Completion{Expected: expected, Actual: actual, State: CompletionUnknown}
	if expected == nil || *expected <= 0 {
		return c
	}
	if actual >= *expected {
		c.State = CompletionComplete
		c.Percent = 100
		return c
	}
	c.State = CompletionPartial
	c.Percent = int(math.Round(float64(actual) * 100 / float64(*expected)))
	return c
}

// IsComplete reports whether the album needs no further ingestion.
func (c Completion) IsComplete() bool {
	return c.State == CompletionComplete
}
