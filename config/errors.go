package config

import "fmt"

// ValidationError reports a configuration row that violates the parameter
// constraints. Rows carrying one are skipped and counted; the sweep goes on.
type ValidationError struct {
	Config Config
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration (%s): %s", e.Config, e.Reason)
}

// ParseError reports a string that does not match the canonical identifier
// grammar. The offending file is skipped and counted, never fatal for the
// batch.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse identifier %q: %s", e.Input, e.Reason)
}

// MissingPrerequisiteError reports that a stage cannot run because an
// upstream artifact is absent. It always names the command that would produce
// the missing piece so the remediation is actionable.
type MissingPrerequisiteError struct {
	Missing string // the absent path or artifact
	Remedy  string // the command that produces it
}

func (e *MissingPrerequisiteError) Error() string {
	return fmt.Sprintf("missing prerequisite %s: run %q first", e.Missing, e.Remedy)
}

// IntegrityError reports a corrupted comparison-run history, such as a latest
// pointer update against a run directory that was never fully written. It is
// fatal: the history is append-only and must stay trustworthy.
type IntegrityError struct {
	Reason string
}

func (e *IntegrityError) Error() string {
	return "comparison history integrity violation: " + e.Reason
}
