package uvatlas

import (
	"errors"
	"fmt"
)

// Sentinel errors for the uvatlas package. Stage errors wrap these, so
// callers can classify failures with errors.Is:
//
//	if errors.Is(err, uvatlas.ErrPackingFailed) { ... relax options and retry }
var (
	// ErrInvalidArgument is returned for nil, empty or mismatched inputs.
	ErrInvalidArgument = errors.New("uvatlas: invalid argument")

	// ErrOverflow is returned when 3*faceCount would not fit in a uint32.
	ErrOverflow = errors.New("uvatlas: index count overflow")

	// ErrOutOfMemory is returned when a buffer cannot be grown.
	ErrOutOfMemory = errors.New("uvatlas: out of memory")

	// ErrNotReady is returned when a stage runs before its preconditions
	// (earlier pipeline stages) have been satisfied.
	ErrNotReady = errors.New("uvatlas: mesh not ready")

	// ErrAdjacencyFailed is returned when the adjacency buffer cannot be
	// derived from the index and position data.
	ErrAdjacencyFailed = errors.New("uvatlas: adjacency generation failed")

	// ErrPackingFailed is returned when no feasible packing satisfies the
	// chart-count and stretch constraints.
	ErrPackingFailed = errors.New("uvatlas: packing failed")
)

// Kind classifies a pipeline failure.
type Kind int

const (
	// KindUnknown is a failure outside the taxonomy below.
	KindUnknown Kind = iota
	// KindInvalidArgument marks nil/empty/mismatched caller input.
	KindInvalidArgument
	// KindOverflow marks an index count exceeding the uint32 range.
	KindOverflow
	// KindOutOfMemory marks a failed buffer allocation.
	KindOutOfMemory
	// KindNotReady marks a stage invoked before its preconditions held.
	KindNotReady
	// KindAdjacencyFailed marks a failed adjacency derivation.
	KindAdjacencyFailed
	// KindPackingFailed marks infeasible packing constraints.
	KindPackingFailed
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid argument"
	case KindOverflow:
		return "overflow"
	case KindOutOfMemory:
		return "out of memory"
	case KindNotReady:
		return "not ready"
	case KindAdjacencyFailed:
		return "adjacency failed"
	case KindPackingFailed:
		return "packing failed"
	default:
		return "unknown"
	}
}

// Boundary failure codes, one per Kind, for callers that need a
// machine-readable number instead of a Go error value (see CodeOf).
const (
	CodeOK          = 0
	CodeUnknown     = 1
	CodeBadInput    = 2
	CodeOverflow    = 3
	CodeOutOfMemory = 4
	CodeAdjacency   = 5
	CodePacking     = 6
)

// Code returns the numeric boundary code for the kind.
func (k Kind) Code() int {
	switch k {
	case KindInvalidArgument, KindNotReady:
		return CodeBadInput
	case KindOverflow:
		return CodeOverflow
	case KindOutOfMemory:
		return CodeOutOfMemory
	case KindAdjacencyFailed:
		return CodeAdjacency
	case KindPackingFailed:
		return CodePacking
	default:
		return CodeUnknown
	}
}

// Error is the failure type returned by every pipeline stage. It records
// the operation that failed, the failure kind and a human-readable detail.
// Packing failures additionally carry the attempted chart count and the
// achieved stretch so a caller can relax its constraints and retry.
type Error struct {
	// Op is the operation that failed, e.g. "Clean" or "Create".
	Op string

	// Kind classifies the failure.
	Kind Kind

	// Detail is a human-readable description. For Validate failures it
	// holds every finding, one per line.
	Detail string

	// AttemptedCharts is the chart count the partitioner ended up with.
	// Set only when Kind is KindPackingFailed.
	AttemptedCharts int

	// AchievedStretch is the worst per-chart stretch reached before the
	// failure. Set only when Kind is KindPackingFailed.
	AchievedStretch float32
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("uvatlas: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("uvatlas: %s: %s: %s", e.Op, e.Kind, e.Detail)
}

// Is reports whether the error matches one of the package sentinels,
// based on its Kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidArgument:
		return e.Kind == KindInvalidArgument
	case ErrOverflow:
		return e.Kind == KindOverflow
	case ErrOutOfMemory:
		return e.Kind == KindOutOfMemory
	case ErrNotReady:
		return e.Kind == KindNotReady
	case ErrAdjacencyFailed:
		return e.Kind == KindAdjacencyFailed
	case ErrPackingFailed:
		return e.Kind == KindPackingFailed
	}
	return false
}

// CodeOf maps an error to its numeric boundary code: CodeOK for nil,
// the Kind's code for package errors and CodeUnknown for anything else.
func CodeOf(err error) int {
	if err == nil {
		return CodeOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind.Code()
	}
	return CodeUnknown
}

// stageErr builds a stage error with a formatted detail message.
func stageErr(op string, kind Kind, format string, args ...any) *Error {
	return &Error{Op: op, Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
