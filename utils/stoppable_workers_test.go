package utils

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/atomic"
	"go.viam.com/test"
	"go.viam.com/utils/testutils"
)

func TestStoppableWorkers(t *testing.T) {
	var started atomic.Int32
	sw := NewStoppableWorkers(func(ctx context.Context) {
		started.Inc()
		<-ctx.Done()
	}, func(ctx context.Context) {
		started.Inc()
		<-ctx.Done()
	})
	testutils.WaitForAssertion(t, func(tb testing.TB) {
		tb.Helper()
		test.That(tb, started.Load(), test.ShouldEqual, 2)
	})
	sw.Stop()
	test.That(t, sw.Context().Err(), test.ShouldNotBeNil)

	// no-op after stop
	sw.AddWorkers(func(ctx context.Context) { started.Inc() })
	test.That(t, started.Load(), test.ShouldEqual, 2)
}

func TestStoppableWorkerWithTicker(t *testing.T) {
	mock := clock.NewMock()
	var ticks atomic.Int32
	sw := NewStoppableWorkerWithTicker(mock, time.Second, func(ctx context.Context) {
		ticks.Inc()
	})
	defer sw.Stop()

	// the worker may not have registered its ticker yet, so keep advancing until it catches up
	testutils.WaitForAssertion(t, func(tb testing.TB) {
		tb.Helper()
		mock.Add(time.Second)
		test.That(tb, ticks.Load(), test.ShouldBeGreaterThanOrEqualTo, 3)
	})
}
