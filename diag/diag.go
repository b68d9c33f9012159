// Package diag collects decompiler diagnostics: fatal errors and the one
// recoverable per-block lift warning, modeled on the teacher's
// parser.ErrorList/Error/Warning shape.
package diag

import (
	"fmt"
	"strings"
)

// Stage identifies which pipeline component raised a diagnostic.
type Stage int

const (
	StageParse Stage = iota
	StageBlock
	StageFlow
	StageFrame
	StageLift
)

func (s Stage) String() string {
	switch s {
	case StageParse:
		return "parse"
	case StageBlock:
		return "block"
	case StageFlow:
		return "flow"
	case StageFrame:
		return "frame"
	case StageLift:
		return "lift"
	default:
		return "unknown"
	}
}

// Position locates a diagnostic within the source file.
type Position struct {
	Filename string
	Line     int
}

func (p Position) String() string {
	if p.Line <= 0 {
		return p.Filename
	}
	return fmt.Sprintf("%s:%d", p.Filename, p.Line)
}

// Error is a fatal decompiler diagnostic: parse failure, unresolved
// branch target, more than one branch per block, or a prologue ra save
// that is not sp-relative. An unknown mnemonic is a per-block lift
// failure and is reported as a Warning instead.
type Error struct {
	Pos     Position
	Stage   Stage
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s error: %s", e.Pos, e.Stage, e.Message)
}

// NewError constructs a fatal Error.
func NewError(pos Position, stage Stage, message string) *Error {
	return &Error{Pos: pos, Stage: stage, Message: message}
}

// Warning is a recoverable diagnostic: currently only emitted when a
// per-block lift fails and lifting continues with the next block.
type Warning struct {
	Pos     Position
	Stage   Stage
	Message string
}

func (w *Warning) String() string {
	return fmt.Sprintf("%s: %s warning: %s", w.Pos, w.Stage, w.Message)
}

// Bag collects errors and warnings across one decompiler run.
type Bag struct {
	Errors   []*Error
	Warnings []*Warning
}

// AddError appends a fatal diagnostic.
func (b *Bag) AddError(err *Error) { b.Errors = append(b.Errors, err) }

// AddWarning appends a recoverable diagnostic.
func (b *Bag) AddWarning(warn *Warning) { b.Warnings = append(b.Warnings, warn) }

// HasErrors reports whether any fatal diagnostic was collected.
func (b *Bag) HasErrors() bool { return len(b.Errors) > 0 }

// Error implements the error interface so a *Bag can itself be returned
// as an error when HasErrors is true.
func (b *Bag) Error() string {
	var sb strings.Builder
	for _, e := range b.Errors {
		sb.WriteString(e.Error())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// PrintWarnings renders all collected warnings, one per line.
func (b *Bag) PrintWarnings() string {
	if len(b.Warnings) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, w := range b.Warnings {
		sb.WriteString(w.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
