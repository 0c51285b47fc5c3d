package cli

import (
	"io"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/natefinch/lumberjack.v2"

	"go.viam.com/fk/config"
	"go.viam.com/fk/jointstate"
	"go.viam.com/fk/kinematics"
	"go.viam.com/fk/logging"
	"go.viam.com/fk/publisher"
	"go.viam.com/fk/referenceframe"
)

// daemon holds everything a running publisher owns.
type daemon struct {
	cfg       *config.Config
	clk       clock.Clock
	tree      *referenceframe.Tree
	store     *jointstate.Store
	publisher *publisher.Publisher
	logger    logging.Logger

	source  *jointstate.FileSource
	sweeper *jointstate.Sweeper
	output  *lumberjack.Logger
}

func newDaemon(cfg *config.Config, stdout io.Writer, logger logging.Logger) (*daemon, error) {
	tree, err := cfg.LoadTree()
	if err != nil {
		return nil, err
	}
	d := &daemon{
		cfg:    cfg,
		clk:    clock.New(),
		tree:   tree,
		store:  jointstate.NewStore(tree),
		logger: logger,
	}

	var broadcaster publisher.Broadcaster
	switch cfg.Output {
	case config.OutputStdout:
		broadcaster = publisher.NewJSONLinesBroadcaster(stdout)
	case config.OutputLog:
		broadcaster = publisher.NewLogBroadcaster(logger.Sublogger("tf"))
	default:
		output, err := cfg.OutputPath()
		if err != nil {
			return nil, errors.Wrap(err, "cannot resolve output file")
		}
		d.output = &lumberjack.Logger{
			Filename:   output,
			MaxSize:    cfg.OutputMaxSizeMB,
			MaxBackups: 2,
			Compress:   true,
		}
		broadcaster = publisher.NewJSONLinesBroadcaster(d.output)
	}

	engine := kinematics.NewEngine(tree, cfg.Policy(), logger.Sublogger("kinematics"))
	d.publisher, err = publisher.NewPublisher(engine, d.store, broadcaster, publisher.Options{
		Rate:        cfg.PublishRate,
		ParentFrame: cfg.ParentFrame,
		Clock:       d.clk,
	}, logger.Sublogger("publisher"))
	if err != nil {
		return nil, multierr.Combine(err, d.Close())
	}
	return d, nil
}

// startSource starts whichever joint value source is configured, if any.
func (d *daemon) startSource() error {
	jointFile, err := d.cfg.JointFilePath()
	if err != nil {
		return err
	}
	switch {
	case jointFile != "":
		d.source, err = jointstate.NewFileSource(jointFile, d.store, d.logger.Sublogger("joint_file"))
		return err
	case d.cfg.Simulate:
		d.sweeper = jointstate.NewSweeper(d.store, d.clk, d.publisher.Interval(), d.cfg.SweepPeriod(),
			d.logger.Sublogger("sweep"))
		d.sweeper.Start()
	default:
		d.logger.Info("no joint source configured, every joint stays at 0")
	}
	return nil
}

// Close stops all workers and closes the output file.
func (d *daemon) Close() error {
	if d.publisher != nil {
		d.publisher.Stop()
	}
	if d.sweeper != nil {
		d.sweeper.Stop()
	}
	var err error
	if d.source != nil {
		err = multierr.Combine(err, d.source.Close())
	}
	if d.output != nil {
		err = multierr.Combine(err, d.output.Close())
	}
	return err
}
