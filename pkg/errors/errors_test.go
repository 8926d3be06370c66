package errors

import (
	"context"
	"fmt"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSearchError(t *testing.T) {
	Convey("Given a wrapped connectivity error", t, func() {
		cause := fmt.Errorf("dial tcp: connection refused")
		err := fmt.Errorf("get contract: %w", ErrConnectivity.Wrap(cause))

		Convey("Then it matches its sentinel and keeps the cause", func() {
			So(Is(err, ErrConnectivity), ShouldBeTrue)
			So(Is(err, ErrValidation), ShouldBeFalse)
			So(Is(err, cause), ShouldBeTrue)
		})

		Convey("Then the sentinel itself is left untouched", func() {
			So(ErrConnectivity.Err, ShouldBeNil)
		})
	})

	Convey("Given a validation error with a custom message", t, func() {
		err := ErrValidation.WithMessagef("unknown clause type %q", "Foo")

		Convey("Then the message is formatted on a copy", func() {
			So(err.Error(), ShouldEqual, `validation: unknown clause type "Foo"`)
			So(ErrValidation.Message, ShouldEqual, "invalid argument")
			So(Is(err, ErrValidation), ShouldBeTrue)
		})
	})
}

func TestMultiError(t *testing.T) {
	Convey("Given a multi error holding a store error", t, func() {
		err := NewError(ErrStore.WithMessagef("bad cypher"), "doc-1.json failed")

		Convey("Then errors.Is sees through it", func() {
			So(Is(err, ErrStore), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "doc-1.json failed")
		})
	})
}

func TestRetryWithBackoff(t *testing.T) {
	Convey("Given a function that succeeds on the third attempt", t, func() {
		attempts := 0
		cfg := &RetryConfig{MaxAttempts: 5, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond, BackoffFactor: 2}

		err := RetryWithBackoff(context.Background(), cfg, func(context.Context) error {
			attempts++
			if attempts < 3 {
				return ErrConnectivity
			}
			return nil
		})

		Convey("Then it stops retrying once it succeeds", func() {
			So(err, ShouldBeNil)
			So(attempts, ShouldEqual, 3)
		})
	})

	Convey("Given a function that always fails", t, func() {
		cfg := &RetryConfig{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, BackoffFactor: 1}

		err := RetryWithBackoff(context.Background(), cfg, func(context.Context) error {
			return ErrConnectivity
		})

		Convey("Then the last error is wrapped", func() {
			So(Is(err, ErrConnectivity), ShouldBeTrue)
		})
	})
}

func TestMissingDependencyErrors(t *testing.T) {
	Convey("Given the missing dependency constructors", t, func() {
		Convey("Then each is an error that As recovers by type", func() {
			var (
				executor   *ErrMissingExecutor
				embedder   *ErrMissingEmbedder
				translator *ErrMissingTranslator
			)

			So(As(fmt.Errorf("load: %w", NewErrMissingExecutor()), &executor), ShouldBeTrue)
			So(As(fmt.Errorf("similar: %w", NewErrMissingEmbedder()), &embedder), ShouldBeTrue)
			So(As(NewErrMissingTranslator(), &translator), ShouldBeTrue)
			So(As(NewErrMissingEmbedder(), &translator), ShouldBeFalse)
		})

		Convey("Then the message names the missing dependency", func() {
			So(NewErrMissingExecutor().Error(), ShouldEqual, "no graph store executor configured")
			So(NewErrMissingEmbedder().Error(), ShouldEqual, "no embedding service configured")
			So(NewErrMissingTranslator().Error(), ShouldEqual, "no query translator configured")
		})
	})
}
