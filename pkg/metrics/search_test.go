package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/theapemachine/contract-search/pkg/errors"
)

func TestObserve(t *testing.T) {
	Convey("Given a metrics instance", t, func() {
		m := New()

		m.Observe("get_contract", time.Now(), 1, nil)
		m.Observe("get_contract", time.Now(), 0, fmt.Errorf("wrapped: %w", errors.ErrConnectivity))
		m.Observe("get_contract", time.Now(), 0, fmt.Errorf("boom"))

		Convey("Then requests are counted by status", func() {
			So(testutil.ToFloat64(m.Requests.WithLabelValues("get_contract", "ok")), ShouldEqual, 1)
			So(testutil.ToFloat64(m.Requests.WithLabelValues("get_contract", "connectivity")), ShouldEqual, 1)
			So(testutil.ToFloat64(m.Requests.WithLabelValues("get_contract", "error")), ShouldEqual, 1)
		})

		Convey("Then the registry gathers without error", func() {
			families, err := m.Registry.Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})

	Convey("Given a nil metrics instance", t, func() {
		var m *Metrics

		Convey("Then observing is a no-op", func() {
			So(func() { m.Observe("ask", time.Now(), 0, nil) }, ShouldNotPanic)
		})
	})
}
