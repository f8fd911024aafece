package sarif

import (
	"errors"
	"fmt"
)

// ErrEmptyText is returned by SentenceCase for an empty input.
var ErrEmptyText = errors.New("text is empty")

// FormattingError is returned when a results file cannot be turned into a SARIF report.
// No partial report accompanies it.
type FormattingError struct {
	Path string
	Err  error
}

func (e *FormattingError) Error() string {
	return fmt.Sprintf("failed to format SARIF from %q: %v", e.Path, e.Err)
}

func (e *FormattingError) Unwrap() error {
	return e.Err
}

func newFormattingError(path string, err error) *FormattingError {
	return &FormattingError{Path: path, Err: err}
}
