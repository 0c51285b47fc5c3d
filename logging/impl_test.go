package logging

import (
	"bytes"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.viam.com/test"
)

func TestLevelFromString(t *testing.T) {
	for input, expected := range map[string]Level{
		"debug": DEBUG, "INFO": INFO, "Warn": WARN, "warning": WARN, "error": ERROR,
	} {
		level, err := LevelFromString(input)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, level, test.ShouldEqual, expected)
	}
	_, err := LevelFromString("loud")
	test.That(t, err, test.ShouldNotBeNil)

	var level Level
	test.That(t, level.UnmarshalJSON([]byte(`"warn"`)), test.ShouldBeNil)
	test.That(t, level, test.ShouldEqual, WARN)
	data, err := level.MarshalJSON()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(data), test.ShouldEqual, `"Warn"`)
}

func TestObservedLogger(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	logger.Debugw("computed poses", "links", 3)
	logger.Infof("tick %d", 7)

	test.That(t, logs.Len(), test.ShouldEqual, 2)
	entry := logs.All()[0]
	test.That(t, entry.Level, test.ShouldEqual, zapcore.DebugLevel)
	test.That(t, entry.ContextMap()["links"], test.ShouldEqual, int64(3))
	test.That(t, logs.FilterMessage("tick 7").Len(), test.ShouldEqual, 1)

	logger.SetLevel(WARN)
	test.That(t, logger.GetLevel(), test.ShouldEqual, WARN)
	logger.Info("dropped")
	logger.Warn("kept")
	test.That(t, logs.FilterMessage("dropped").Len(), test.ShouldEqual, 0)
	test.That(t, logs.FilterMessage("kept").Len(), test.ShouldEqual, 1)
}

func TestSublogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("fk", INFO, &buf)
	sub := logger.Sublogger("publisher")
	sub.SetLevel(DEBUG)

	logger.Debug("hidden")
	sub.Debug("shown")
	test.That(t, logger.Sync(), test.ShouldBeNil)

	out := buf.String()
	test.That(t, out, test.ShouldNotContainSubstring, "hidden")
	test.That(t, out, test.ShouldContainSubstring, "shown")
	test.That(t, out, test.ShouldContainSubstring, "fk.publisher")
	test.That(t, logger.GetLevel(), test.ShouldEqual, INFO)
}

func TestGlobalLogger(t *testing.T) {
	prev := Global()
	defer ReplaceGlobal(prev)

	logger, logs := NewObservedTestLogger(t)
	ReplaceGlobal(logger)
	test.That(t, Global(), test.ShouldEqual, logger)
	Global().Sublogger("publisher").Infow("published transforms", "links", 5)
	test.That(t, logs.FilterMessage("published transforms").Len(), test.ShouldEqual, 1)

	test.That(t, NewLogger("fk").GetLevel(), test.ShouldEqual, INFO)
}
