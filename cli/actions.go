package cli

import (
	"context"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/fk/config"
	"go.viam.com/fk/jointstate"
	"go.viam.com/fk/kinematics"
	"go.viam.com/fk/logging"
	"go.viam.com/fk/referenceframe"
	"go.viam.com/fk/ros"
)

// ValidateAction builds the kinematic tree of a description and prints it.
func ValidateAction(c *cli.Context) error {
	tree, err := treeFromArgs(c)
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s", tree.String())
	printf(c.App.Writer, "%q is valid: %d links, %d movable joints, %s convention",
		tree.Name(), len(tree.Links()), len(tree.MovableJoints()), tree.Convention())
	return nil
}

// PosesAction computes link poses for the joint values given on the command line.
func PosesAction(c *cli.Context) error {
	tree, err := treeFromArgs(c)
	if err != nil {
		return err
	}
	values, err := parseJointValues(tree, c.StringSlice(jointFlag), c.Bool(degreesFlag))
	if err != nil {
		return err
	}
	policy, err := kinematics.ParseMissingValuePolicy(c.String(policyFlag))
	if err != nil {
		return err
	}
	store := jointstate.NewStore(tree)
	if err := store.SetMany(values); err != nil {
		return err
	}
	for _, j := range tree.MovableJoints() {
		if _, ok := values[j.Name()]; !ok && policy == kinematics.DefaultToNeutral {
			warningf(c.App.ErrWriter, "no value for joint %q, using 0", j.Name())
		}
	}

	engine := kinematics.NewEngine(tree, policy, newLogger(c, logging.WARN))
	poses, err := engine.Compute(store.Snapshot())
	if err != nil {
		return err
	}

	from, to := c.String(fromFlag), c.String(toFlag)
	if from == "" && to == "" {
		printf(c.App.Writer, "%s", poses.String())
		return nil
	}
	if from == "" || to == "" {
		return errors.Errorf("--%s and --%s must be given together", fromFlag, toFlag)
	}
	rel, err := kinematics.RelativePose(poses, from, to)
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s", kinematics.LinkPoses{from + " -> " + to: rel}.String())
	return nil
}

// RunAction publishes link poses fed by the configured joint file or sweep until interrupted.
func RunAction(c *cli.Context) error {
	cfg, err := config.Read(c.Path(configFlag))
	if err != nil {
		return err
	}
	logger := newLogger(c, cfg.Level())

	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if d := c.Duration(durationFlag); d > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, d)
		defer cancelTimeout()
	}

	d, err := newDaemon(cfg, c.App.Writer, logger)
	if err != nil {
		return err
	}
	if err := d.startSource(); err != nil {
		return multierr.Combine(err, d.Close())
	}
	d.publisher.Start()
	logger.Infow("publishing link poses", "model", d.tree.Name(), "rate", cfg.PublishRate, "output", cfg.Output)

	<-ctx.Done()
	return d.Close()
}

// ReplayAction publishes link poses while feeding recorded joint states into the store.
func ReplayAction(c *cli.Context) error {
	cfg, err := config.Read(c.Path(configFlag))
	if err != nil {
		return err
	}
	logger := newLogger(c, cfg.Level())

	msgs, err := ros.ReadJointStatesFile(c.Path(bagFlag), c.String(topicFlag))
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	d, err := newDaemon(cfg, c.App.Writer, logger)
	if err != nil {
		return err
	}
	d.publisher.Start()
	applied, replayErr := ros.Replay(ctx, msgs, d.store, d.clk, c.Float64(speedFlag), logger)
	d.publisher.Stop()
	// Publish the final state even when replay outran the tick rate.
	if err := d.publisher.Tick(ctx); err != nil && replayErr == nil {
		replayErr = err
	}
	logger.Infow("replay finished", "messages", len(msgs), "applied", applied, "ticks", d.publisher.Stats().Ticks)
	return multierr.Combine(replayErr, d.Close())
}

// VersionAction prints the module version.
func VersionAction(c *cli.Context) error {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return errors.New("error reading build info")
	}
	if c.Bool(debugFlag) {
		printf(c.App.Writer, "%s", info.String())
	}
	settings := make(map[string]string, len(info.Settings))
	for _, setting := range info.Settings {
		settings[setting.Key] = setting.Value
	}
	version := "?"
	if rev, ok := settings["vcs.revision"]; ok && len(rev) >= 8 {
		version = rev[:8]
		if settings["vcs.modified"] == "true" {
			version += "+"
		}
	}
	printf(c.App.Writer, "version %s %s", info.Main.Version, version)
	return nil
}

func treeFromArgs(c *cli.Context) (*referenceframe.Tree, error) {
	if c.Args().Len() != 1 {
		return nil, errors.New("expected exactly one description file")
	}
	mc, err := referenceframe.ParseModelFile(c.Args().First(), c.String(nameFlag))
	if err != nil {
		return nil, err
	}
	if conv := c.String(conventionFlag); conv != "" {
		mc.Convention = conv
	}
	return referenceframe.NewTree(mc)
}

// newLogger logs to the error writer so that stdout carries only published transforms. It also becomes the global
// logger.
func newLogger(c *cli.Context, level logging.Level) logging.Logger {
	if c.Bool(debugFlag) {
		level = logging.DEBUG
	}
	logger := logging.NewLoggerWithWriter("fk", level, c.App.ErrWriter)
	logging.ReplaceGlobal(logger)
	return logger
}
