// Package error wraps generation-time failures with the name of the
// grammar source that produced them, the way a compiler front-end
// attributes an error to the file that triggered it.
package error

import (
	"fmt"
)

// GenError attributes a generation error (a *grammar.SemanticError or any
// other failure surfaced by grammar.Compile) to the source it came from.
type GenError struct {
	Cause      error
	SourceName string
}

func (e *GenError) Error() string {
	if e.SourceName == "" {
		return fmt.Sprintf("error: %v", e.Cause)
	}
	return fmt.Sprintf("%v: error: %v", e.SourceName, e.Cause)
}

func (e *GenError) Unwrap() error { return e.Cause }

func Wrap(sourceName string, err error) error {
	if err == nil {
		return nil
	}
	return &GenError{Cause: err, SourceName: sourceName}
}
