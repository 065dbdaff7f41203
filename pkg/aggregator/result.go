package aggregator

import (
	"fmt"
	"strings"
	"time"
)

// BranchResult is the outcome of one branch.
type BranchResult struct {
	Index    int
	Target   string
	Body     []byte
	Err      error
	Duration time.Duration
}

// Result holds every branch in issue order.
type Result struct {
	Branches []BranchResult
	Started  time.Time
	Elapsed  time.Duration
}

// Err returns the first failed branch in issue order as a *BranchError, or
// nil when all branches succeeded.
func (r *Result) Err() error {
	for _, b := range r.Branches {
		if b.Err != nil {
			return &BranchError{Index: b.Index, Target: b.Target, Err: b.Err}
		}
	}
	return nil
}

// Summary renders
//
//	Total duration: <elapsed>, Response 1: <body>, Response 2: <body>
//
// Bodies are decoded as UTF-8 with invalid sequences replaced by U+FFFD.
func (r *Result) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Total duration: %v", r.Elapsed)
	for i, b := range r.Branches {
		fmt.Fprintf(&sb, ", Response %d: %s", i+1, strings.ToValidUTF8(string(b.Body), "\uFFFD"))
	}
	return sb.String()
}
