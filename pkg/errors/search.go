package errors

import (
	stderrors "errors"
	"fmt"
)

/*
SearchError is the error type surfaced by the retrieval core. The Code
identifies the failure class and is what errors.Is compares, so a wrapped
copy still matches its sentinel.
*/
type SearchError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

/*
Error implements the error interface for SearchError.
*/
func (e *SearchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

/*
Is matches any SearchError carrying the same Code.
*/
func (e *SearchError) Is(target error) bool {
	t, ok := target.(*SearchError)
	return ok && t.Code == e.Code
}

var (
	ErrConnectivity  = &SearchError{Code: "connectivity", Message: "store or model service unreachable"}
	ErrValidation    = &SearchError{Code: "validation", Message: "invalid argument"}
	ErrTranslation   = &SearchError{Code: "translation", Message: "generated query could not be executed"}
	ErrMisalignedRow = &SearchError{Code: "misaligned_row", Message: "parallel party collections differ in length"}
	ErrStore         = &SearchError{Code: "store", Message: "graph store rejected the query"}
)

// WithMessagef creates a *copy* of a SearchError with a formatted message.
// It does not modify the original error variable.
func (e *SearchError) WithMessagef(format string, args ...any) *SearchError {
	newErr := *e
	newErr.Message = fmt.Sprintf(format, args...)
	return &newErr
}

// Wrap returns a copy of e with err attached as its cause.
func (e *SearchError) Wrap(err error) *SearchError {
	newErr := *e
	newErr.Err = err
	return &newErr
}

// Is and As forward to the standard library so callers only need this package.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// New forwards to the standard library errors.New.
func New(text string) error {
	return stderrors.New(text)
}
