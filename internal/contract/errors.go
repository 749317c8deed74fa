package contract

import "fmt"

// Stages reported by analysis errors.
const (
	StageOpen      = "open"
	StageTraversal = "traversal"
	StageDiff      = "diff"
	StageResolve   = "resolve"
	StageDateParse = "date-parse"
)

// RepositoryOpenError is returned when no repository can be opened at Path.
type RepositoryOpenError struct {
	Path string
	Err  error
}

func (e *RepositoryOpenError) Error() string {
	return fmt.Sprintf("%s: cannot open repository at %q: %v", StageOpen, e.Path, e.Err)
}

func (e *RepositoryOpenError) Unwrap() error { return e.Err }

// TraversalError is returned when HEAD or a commit reached by the walk cannot be resolved.
// Hash is empty when the failure happened before any commit was visited.
type TraversalError struct {
	Hash string
	Err  error
}

func (e *TraversalError) Error() string {
	if e.Hash == "" {
		return fmt.Sprintf("%s: %v", StageTraversal, e.Err)
	}
	return fmt.Sprintf("%s: commit %s: %v", StageTraversal, e.Hash, e.Err)
}

func (e *TraversalError) Unwrap() error { return e.Err }

// CommitResolutionError is returned when a commit object cannot be located.
type CommitResolutionError struct {
	Hash string
	Err  error
}

func (e *CommitResolutionError) Error() string {
	return fmt.Sprintf("%s: commit %s: %v", StageResolve, e.Hash, e.Err)
}

func (e *CommitResolutionError) Unwrap() error { return e.Err }

// DiffComputationError is returned when a tree or blob needed for a commit diff cannot be read.
type DiffComputationError struct {
	Hash string
	Err  error
}

func (e *DiffComputationError) Error() string {
	return fmt.Sprintf("%s: commit %s: %v", StageDiff, e.Hash, e.Err)
}

func (e *DiffComputationError) Unwrap() error { return e.Err }

// DateParseError is returned for a date filter that is not YYYY-MM-DD.
type DateParseError struct {
	Field string
	Value string
	Err   error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("%s: invalid %s date %q, expected YYYY-MM-DD: %v", StageDateParse, e.Field, e.Value, e.Err)
}

func (e *DateParseError) Unwrap() error { return e.Err }
