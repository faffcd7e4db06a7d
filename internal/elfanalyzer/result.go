package elfanalyzer

import "fmt"

// Result represents the outcome of analysing one file.
type Result int

const (
	// NotApplicable indicates the file is not analysable: empty,
	// non-regular, not ELF, a rejected object type, or not dynamically
	// linked. Not an error, just no result.
	NotApplicable Result = iota

	// AcceptedWithFacts indicates the object passed ABI validation and
	// produced at least one requires/provides fact.
	AcceptedWithFacts

	// AcceptedNoFacts indicates the object passed ABI validation but its
	// dynamic section produced no facts.
	AcceptedNoFacts

	// Rejected indicates a valid object that is not relevant to this
	// platform (ABI mismatch, unrecognised OS note) or whose required
	// libraries could not be located.
	Rejected

	// HardError indicates the object is malformed beyond recovery, or an
	// I/O failure. Fatal for this file only, never for the run.
	HardError
)

// String returns a string representation of Result.
func (r Result) String() string {
	switch r {
	case NotApplicable:
		return "not_applicable"
	case AcceptedWithFacts:
		return "accepted_with_facts"
	case AcceptedNoFacts:
		return "accepted_no_facts"
	case Rejected:
		return "rejected"
	case HardError:
		return "hard_error"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}

// Output contains the complete result of analysing one file.
type Output struct {
	// Result is the overall outcome.
	Result Result

	// Missing lists required library names that could not be resolved,
	// when Result == Rejected for that reason.
	Missing []string

	// Err carries detail for Rejected and HardError outcomes.
	Err error
}
