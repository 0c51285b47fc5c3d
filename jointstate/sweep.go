package jointstate

import (
	"context"
	"math"
	"time"

	"github.com/benbjohnson/clock"

	"go.viam.com/fk/logging"
	"go.viam.com/fk/referenceframe"
	"go.viam.com/fk/utils"
)

// defaultSweepRange is swept by joints without finite limits.
var defaultSweepRange = referenceframe.Limit{Min: -1, Max: 1}

// Sweeper is a simulated mover: it drives every movable joint of a store through a sine wave spanning the joint's
// limits, each joint a fixed phase behind the previous one.
type Sweeper struct {
	store    *Store
	clk      clock.Clock
	interval time.Duration
	period   time.Duration
	logger   logging.Logger

	start   time.Time
	workers utils.StoppableWorkers
}

// NewSweeper returns a sweeper that updates store every interval and completes one full sweep every period.
func NewSweeper(store *Store, clk clock.Clock, interval, period time.Duration, logger logging.Logger) *Sweeper {
	return &Sweeper{store: store, clk: clk, interval: interval, period: period, logger: logger}
}

// Start begins sweeping in the background.
func (sw *Sweeper) Start() {
	sw.start = sw.clk.Now()
	sw.workers = utils.NewStoppableWorkerWithTicker(sw.clk, sw.interval, func(ctx context.Context) {
		if err := sw.Step(sw.clk.Since(sw.start)); err != nil {
			sw.logger.Warnw("sweep step failed", "error", err)
		}
	})
}

// Step sets every movable joint to its sweep position elapsed into the sweep, as one batch.
func (sw *Sweeper) Step(elapsed time.Duration) error {
	values := map[string]float64{}
	for i, j := range sw.store.Tree().MovableJoints() {
		values[j.Name()] = SweepValue(j, elapsed, sw.period, float64(i)*math.Pi/4)
	}
	return sw.store.SetMany(values)
}

// Stop halts the sweep.
func (sw *Sweeper) Stop() {
	if sw.workers != nil {
		sw.workers.Stop()
	}
}

// SweepValue returns the position of j elapsed into a sweep of the given period, starting at the middle of its
// range and offset by phase radians.
func SweepValue(j *referenceframe.Joint, elapsed, period time.Duration, phase float64) float64 {
	limit, ok := j.Limit()
	if !ok || math.IsInf(limit.Min, 0) || math.IsInf(limit.Max, 0) {
		limit = defaultSweepRange
	}
	mid := (limit.Min + limit.Max) / 2
	amplitude := (limit.Max - limit.Min) / 2
	angle := phase
	if period > 0 {
		angle += 2 * math.Pi * elapsed.Seconds() / period.Seconds()
	}
	return utils.Clamp(mid+amplitude*math.Sin(angle), limit.Min, limit.Max)
}
