package neo4j

import (
	"context"
	"sync"
)

// Call is one statement seen by a Recorder.
type Call struct {
	Write  bool
	Cypher string
	Params map[string]any
}

/*
Recorder is an in-memory Executor for tests. Every statement is recorded
and answered by Handler; a nil Handler answers with an empty result.
*/
type Recorder struct {
	Handler func(call Call) (*Result, error)

	mu    sync.Mutex
	calls []Call
}

func NewRecorder(handler func(call Call) (*Result, error)) *Recorder {
	return &Recorder{Handler: handler}
}

func (recorder *Recorder) Read(
	ctx context.Context, cypher string, params map[string]any,
) (*Result, error) {
	return recorder.handle(ctx, Call{Cypher: cypher, Params: params})
}

func (recorder *Recorder) Write(
	ctx context.Context, cypher string, params map[string]any,
) (*Result, error) {
	return recorder.handle(ctx, Call{Write: true, Cypher: cypher, Params: params})
}

func (recorder *Recorder) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (recorder *Recorder) Close(context.Context) error {
	return nil
}

// Calls returns a copy of every call so far, in order.
func (recorder *Recorder) Calls() []Call {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()

	return append([]Call(nil), recorder.calls...)
}

func (recorder *Recorder) handle(ctx context.Context, call Call) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	recorder.mu.Lock()
	recorder.calls = append(recorder.calls, call)
	recorder.mu.Unlock()

	if recorder.Handler == nil {
		return &Result{}, nil
	}

	return recorder.Handler(call)
}
