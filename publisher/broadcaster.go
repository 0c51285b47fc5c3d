package publisher

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/pkg/errors"

	"go.viam.com/fk/logging"
	"go.viam.com/fk/ros"
)

// A Broadcaster delivers one tick's transforms to wherever poses are consumed.
type Broadcaster interface {
	Broadcast(ctx context.Context, msg ros.TFMessage) error
}

// FuncBroadcaster adapts a function to a Broadcaster.
type FuncBroadcaster func(ctx context.Context, msg ros.TFMessage) error

// Broadcast calls f.
func (f FuncBroadcaster) Broadcast(ctx context.Context, msg ros.TFMessage) error {
	return f(ctx, msg)
}

// JSONLinesBroadcaster writes each tick as one line of JSON.
type JSONLinesBroadcaster struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSONLinesBroadcaster returns a broadcaster writing to w.
func NewJSONLinesBroadcaster(w io.Writer) *JSONLinesBroadcaster {
	return &JSONLinesBroadcaster{enc: json.NewEncoder(w)}
}

// Broadcast writes msg followed by a newline.
func (b *JSONLinesBroadcaster) Broadcast(ctx context.Context, msg ros.TFMessage) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return errors.Wrap(b.enc.Encode(msg), "failed to write transforms")
}

// LogBroadcaster logs every transform at debug level and a summary at info level.
type LogBroadcaster struct {
	logger logging.Logger
}

// NewLogBroadcaster returns a broadcaster logging to logger.
func NewLogBroadcaster(logger logging.Logger) *LogBroadcaster {
	return &LogBroadcaster{logger: logger}
}

// Broadcast logs msg.
func (b *LogBroadcaster) Broadcast(ctx context.Context, msg ros.TFMessage) error {
	for _, tf := range msg.Transforms {
		t := tf.Transform.Translation
		r := tf.Transform.Rotation
		b.logger.Debugw("transform",
			"parent", tf.Header.FrameID,
			"child", tf.ChildFrameID,
			"translation", []float64{t.X, t.Y, t.Z},
			"rotation", []float64{r.X, r.Y, r.Z, r.W},
		)
	}
	if len(msg.Transforms) > 0 {
		b.logger.Infow("published transforms", "count", len(msg.Transforms), "seq", msg.Transforms[0].Header.Seq)
	}
	return nil
}
