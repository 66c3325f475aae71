package linearblock

import "errors"

var (
	//ErrInvalidInput is returned for malformed lengths or ranges passed in by the caller
	ErrInvalidInput = errors.New("invalid input")
	//ErrIndexOutOfRange is returned when an index is outside of an IndexSet's universe
	ErrIndexOutOfRange = errors.New("index out of range")
	//ErrDimensionMismatch is returned when two IndexSets of different universe sizes are combined
	ErrDimensionMismatch = errors.New("dimension mismatch")
	//ErrDegreeSequenceMismatch is returned when the row and column degree totals disagree
	ErrDegreeSequenceMismatch = errors.New("degree sequence mismatch")
	//ErrConstructionFailed is returned when a randomized construction ran out of attempts.
	// Retrying with a fresh random source may succeed.
	ErrConstructionFailed = errors.New("construction failed")
	//ErrSingularMatrix is returned when a parity check matrix is not full rank over its check columns
	ErrSingularMatrix = errors.New("singular matrix")
	//ErrParameterOutOfRange is returned for distribution parameters outside the numerically stable region
	ErrParameterOutOfRange = errors.New("parameter out of range")
	//ErrInconsistent signals a broken internal invariant; it is a defect, not a runtime condition
	ErrInconsistent = errors.New("internal consistency failure")
)
