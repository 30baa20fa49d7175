package refile

import "errors"

// Error kinds detected by the engine. Each aborts the in-progress operation
// immediately; none is retried, since every cause is either a precondition
// violation or an environment problem.
var (
	// ErrNoRefilableNode means no enclosing heading or list item exists at
	// the initiating position. User-facing and non-fatal.
	ErrNoRefilableNode = errors.New("no refilable node at position")

	// ErrTargetNotFound means the target document contains no heading
	// matching the requested title and depth. The source is left untouched.
	ErrTargetNotFound = errors.New("target heading not found")

	// ErrAmbiguousTarget is returned in strict mode when the requested
	// title and depth match more than one heading.
	ErrAmbiguousTarget = errors.New("target heading is ambiguous")

	// ErrTargetWithinSource means the target heading lies inside the very
	// subtree being moved.
	ErrTargetWithinSource = errors.New("target heading lies inside the moved subtree")

	// ErrDepthExceeded means re-anchoring the moved block would push a
	// heading past document.MaxHeadingDepth.
	ErrDepthExceeded = errors.New("refile would exceed the maximum heading depth")
)
