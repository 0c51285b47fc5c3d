package ros

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"

	"go.viam.com/fk/jointstate"
	"go.viam.com/fk/logging"
)

// Replay feeds recorded joint states into store, preserving the gaps between their recording times scaled by
// 1/speed. A speed of 0 or less applies every message immediately. Joints the tree does not declare are ignored;
// a message the store rejects is logged and skipped. Replay returns the number of messages applied and stops early
// when ctx is cancelled.
func Replay(
	ctx context.Context,
	msgs []JointStateMessage,
	store *jointstate.Store,
	clk clock.Clock,
	speed float64,
	logger logging.Logger,
) (int, error) {
	if len(msgs) == 0 {
		return 0, nil
	}
	start := clk.Now()
	first := msgs[0].Meta.Time()
	applied := 0
	for i, msg := range msgs {
		if speed > 0 {
			offset := time.Duration(float64(msg.Meta.Time().Sub(first)) / speed)
			if wait := offset - clk.Since(start); wait > 0 {
				select {
				case <-ctx.Done():
					return applied, ctx.Err()
				case <-clk.After(wait):
				}
			}
		}
		if ctx.Err() != nil {
			return applied, ctx.Err()
		}

		values, err := msg.Data.Values()
		if err == nil {
			var ignored []string
			values, ignored = store.FilterDeclared(values)
			if len(ignored) > 0 {
				logger.Debugw("ignoring joints not in the tree", "index", i, "joints", ignored)
			}
			err = store.SetMany(values)
		}
		if err != nil {
			logger.Warnw("skipping joint state", "index", i, "error", err)
			continue
		}
		applied++
	}
	logger.Debugw("replay finished", "messages", len(msgs), "applied", applied)
	return applied, nil
}
