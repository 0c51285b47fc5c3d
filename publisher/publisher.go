// Package publisher periodically computes link poses from the live joint state and broadcasts them as tf-style
// transforms.
package publisher

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"go.viam.com/fk/jointstate"
	"go.viam.com/fk/kinematics"
	"go.viam.com/fk/logging"
	"go.viam.com/fk/ros"
	"go.viam.com/fk/utils"
)

// DefaultParentFrame is the frame every published transform is expressed in unless configured otherwise.
const DefaultParentFrame = "world_link"

// Options configures a Publisher.
type Options struct {
	// Rate is the number of ticks per second.
	Rate float64
	// ParentFrame is the frame_id of every transform; DefaultParentFrame if empty.
	ParentFrame string
	// Clock drives the ticks; the real clock if nil.
	Clock clock.Clock
}

// Stats counts what a Publisher has done so far.
type Stats struct {
	Ticks       uint64
	Failures    uint64
	LastVersion uint64
}

// Publisher ticks at a fixed rate. On each tick it snapshots the store, computes every link pose and hands the
// transforms to its broadcaster. A tick that fails is logged and skipped; the next tick starts over from a fresh
// snapshot.
type Publisher struct {
	engine      *kinematics.Engine
	store       *jointstate.Store
	broadcaster Broadcaster
	clk         clock.Clock
	interval    time.Duration
	parentFrame string
	logger      logging.Logger

	workers     utils.StoppableWorkers
	ticks       atomic.Uint64
	failures    atomic.Uint64
	lastVersion atomic.Uint64
}

// NewPublisher returns a publisher; call Start to begin ticking. A nil logger means the global logger.
func NewPublisher(
	engine *kinematics.Engine,
	store *jointstate.Store,
	broadcaster Broadcaster,
	opts Options,
	logger logging.Logger,
) (*Publisher, error) {
	if opts.Rate <= 0 {
		return nil, errors.Errorf("publish rate must be positive, got %v", opts.Rate)
	}
	if engine.Tree() != store.Tree() {
		return nil, errors.New("engine and joint store describe different trees")
	}
	if opts.ParentFrame == "" {
		opts.ParentFrame = DefaultParentFrame
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if logger == nil {
		logger = logging.Global().Sublogger("publisher")
	}
	return &Publisher{
		engine:      engine,
		store:       store,
		broadcaster: broadcaster,
		clk:         opts.Clock,
		interval:    time.Duration(float64(time.Second) / opts.Rate),
		parentFrame: opts.ParentFrame,
		logger:      logger,
	}, nil
}

// Interval returns the time between ticks.
func (p *Publisher) Interval() time.Duration {
	return p.interval
}

// Start begins ticking in the background.
func (p *Publisher) Start() {
	p.workers = utils.NewStoppableWorkerWithTicker(p.clk, p.interval, func(ctx context.Context) {
		if err := p.Tick(ctx); err != nil {
			p.logger.Warnw("skipping tick", "tick", p.ticks.Load(), "error", err)
		}
	})
}

// Stop halts ticking and waits for an in-flight tick to finish.
func (p *Publisher) Stop() {
	if p.workers != nil {
		p.workers.Stop()
	}
}

// Tick publishes once.
func (p *Publisher) Tick(ctx context.Context) error {
	seq := p.ticks.Inc()
	snap := p.store.Snapshot()
	poses, err := p.engine.Compute(snap)
	if err != nil {
		p.failures.Inc()
		return errors.Wrap(err, "failed to compute poses")
	}
	msg := BuildTFMessage(p.engine, poses, p.parentFrame, p.clk.Now(), uint32(seq))
	if err := p.broadcaster.Broadcast(ctx, msg); err != nil {
		p.failures.Inc()
		return errors.Wrap(err, "failed to broadcast transforms")
	}
	p.lastVersion.Store(snap.Version())
	return nil
}

// Stats returns the publisher's counters.
func (p *Publisher) Stats() Stats {
	return Stats{
		Ticks:       p.ticks.Load(),
		Failures:    p.failures.Load(),
		LastVersion: p.lastVersion.Load(),
	}
}

// BuildTFMessage converts link poses into one transform per link, in the tree's parent-before-child order.
func BuildTFMessage(
	engine *kinematics.Engine,
	poses kinematics.LinkPoses,
	parentFrame string,
	stamp time.Time,
	seq uint32,
) ros.TFMessage {
	links := engine.Tree().Links()
	msg := ros.TFMessage{Transforms: make([]ros.TransformStamped, 0, len(links))}
	for _, l := range links {
		pose, ok := poses[l.Name()]
		if !ok {
			continue
		}
		msg.Transforms = append(msg.Transforms, ros.NewTransformStamped(parentFrame, l.Name(), stamp, seq, pose))
	}
	return msg
}
