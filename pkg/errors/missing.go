package errors

// ErrMissingExecutor is returned when a component is built without a graph store.
type ErrMissingExecutor struct {
	inner *Error
}

func (err *ErrMissingExecutor) Error() string {
	return err.inner.Error()
}

// ErrMissingEmbedder is returned by the semantic path when no embedding service was configured.
type ErrMissingEmbedder struct {
	inner *Error
}

func (err *ErrMissingEmbedder) Error() string {
	return err.inner.Error()
}

// ErrMissingTranslator is returned by the aggregation path when no translator was configured.
type ErrMissingTranslator struct {
	inner *Error
}

func (err *ErrMissingTranslator) Error() string {
	return err.inner.Error()
}

func NewErrMissingExecutor() error {
	return &ErrMissingExecutor{inner: &Error{Msgs: []any{"no graph store executor configured"}}}
}

func NewErrMissingEmbedder() error {
	return &ErrMissingEmbedder{inner: &Error{Msgs: []any{"no embedding service configured"}}}
}

func NewErrMissingTranslator() error {
	return &ErrMissingTranslator{inner: &Error{Msgs: []any{"no query translator configured"}}}
}
