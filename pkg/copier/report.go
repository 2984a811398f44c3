package copier

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
)

// Outcome classifies what happened to a single entry.
type Outcome int

// Entry outcomes.
const (
	// Changed means a new mode was written.
	Changed Outcome = iota
	// Unchanged means the computed mode equalled the current one.
	Unchanged
	// Skipped means the entry failed the eligibility policy.
	Skipped
	// Failed means an error prevented the copy.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Changed:
		return "changed"
	case Unchanged:
		return "unchanged"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcome) UnmarshalText(text []byte) error {
	for _, candidate := range []Outcome{Changed, Unchanged, Skipped, Failed} {
		if candidate.String() == string(text) {
			*o = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", string(text))
}

// Skip reasons.
const (
	ReasonNotOwner     = "not owned by the invoking user"
	ReasonSymlink      = "symbolic link not followed"
	ReasonUnsupported  = "not a regular file or directory"
	ReasonVisited      = "directory already visited"
	ReasonOwnerChanged = "ownership changed before the mode could be written"
	ReasonDangling     = "symbolic link target does not exist"
	ReasonMissing      = "no longer exists"
)

// Result records the outcome for one visited entry.
type Result struct {
	Path    string
	Outcome Outcome
	OldMode os.FileMode
	NewMode os.FileMode
	// Reason explains a skip.
	Reason string
	// Err is set when Outcome is Failed.
	Err error
}

// Report collects the per-entry results of a copy, in visiting order.
type Report struct {
	Results []Result
}

func (r *Report) add(res Result) {
	r.Results = append(r.Results, res)
}

// Count returns the number of entries with the given outcome.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// Failures returns the errors of every failed entry.
func (r *Report) Failures() []error {
	var errs []error
	for _, res := range r.Results {
		if res.Outcome == Failed && res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return errs
}

// Err combines all per-entry failures, or returns nil if there were none.
func (r *Report) Err() error {
	var result *multierror.Error
	for _, err := range r.Failures() {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}
