package compaction

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for compaction operations.
var (
	// ErrInvalidConfig indicates the compaction configuration failed
	// validation.
	ErrInvalidConfig = errors.New("invalid compaction configuration")

	// ErrSummarizationFailed indicates the summarizer could not produce a
	// summary. Compact never returns it directly; it appears in
	// Result diagnostics when a run degrades.
	ErrSummarizationFailed = errors.New("summarization failed")

	// ErrTokenCountingFailed indicates the token estimator failed.
	ErrTokenCountingFailed = errors.New("token counting failed")
)

// CompactionError provides structured context about a failed compaction
// operation.
type CompactionError struct {
	// Op is the operation that failed (e.g. "compact", "summarize").
	Op string

	// ConversationID identifies the conversation, when known.
	ConversationID string

	// Err is the underlying error.
	Err error

	// Context carries additional key/value details.
	Context map[string]any
}

func (e *CompactionError) Error() string {
	var b strings.Builder
	b.WriteString("compaction")
	if e.Op != "" {
		b.WriteString(" ")
		b.WriteString(e.Op)
	}
	if e.ConversationID != "" {
		fmt.Fprintf(&b, " (conversation %s)", e.ConversationID)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *CompactionError) Unwrap() error { return e.Err }

// NewCompactionError creates a CompactionError for the given operation.
func NewCompactionError(op string, err error) *CompactionError {
	return &CompactionError{Op: op, Err: err}
}

// WithConversation attaches a conversation id and returns the error.
func (e *CompactionError) WithConversation(id string) *CompactionError {
	e.ConversationID = id
	return e
}

// WithContext attaches a key/value detail and returns the error.
func (e *CompactionError) WithContext(key string, value any) *CompactionError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
