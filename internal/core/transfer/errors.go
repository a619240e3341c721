package transfer

import "fmt"

// ImportFormatError reports a payload that could not be imported because
// it is the wrong shape or carries no recognised data. Nothing is loaded
// when it is returned.
type ImportFormatError struct {
	Format string // "json", "csv", or the rejected extension
	Reason string
	Err    error
}

func (e *ImportFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("import %s: %s: %v", e.Format, e.Reason, e.Err)
	}
	return fmt.Sprintf("import %s: %s", e.Format, e.Reason)
}

func (e *ImportFormatError) Unwrap() error {
	return e.Err
}
