// Package config defines the configuration file of the pose publishing daemon.
package config

import (
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.viam.com/utils"

	"go.viam.com/fk/kinematics"
	"go.viam.com/fk/logging"
	"go.viam.com/fk/referenceframe"
	rutils "go.viam.com/fk/utils"
)

const (
	// DefaultPublishRate is the tick rate, in Hz, used when none is configured.
	DefaultPublishRate = 10.0
	// DefaultParentFrame is the frame published transforms are expressed in.
	DefaultParentFrame = "world_link"
	// DefaultSweepPeriod is the duration of one simulated sweep.
	DefaultSweepPeriod = 10 * time.Second
	// DefaultOutputMaxSizeMB is the size at which an output file is rotated.
	DefaultOutputMaxSizeMB = 100

	// OutputStdout writes each tick as a line of JSON on stdout.
	OutputStdout = "stdout"
	// OutputLog logs each tick.
	OutputLog = "log"
)

// Config describes a robot description and how its link poses are published.
type Config struct {
	// Model is the path of the JSON or URDF description, relative to the config file.
	Model string `json:"model"`
	// ModelName overrides the name in the description.
	ModelName string `json:"model_name,omitempty"`
	// Convention overrides the joint convention of the description.
	Convention string `json:"convention,omitempty"`

	PublishRate float64 `json:"publish_rate_hz,omitempty"`
	ParentFrame string  `json:"parent_frame,omitempty"`
	// MissingValues is "neutral" or "require".
	MissingValues string `json:"missing_values,omitempty"`
	// Output is "stdout", "log" or a file path that ticks are appended to.
	Output string `json:"output,omitempty"`
	// OutputMaxSizeMB is the size at which an output file is rotated.
	OutputMaxSizeMB int `json:"output_max_size_mb,omitempty"`

	// JointFile is a JSON file of joint values watched for changes.
	JointFile string `json:"joint_file,omitempty"`
	// Simulate sweeps every movable joint through its range.
	Simulate       bool    `json:"simulate,omitempty"`
	SweepPeriodSec float64 `json:"sweep_period_sec,omitempty"`

	LogLevel string `json:"log_level,omitempty"`

	ConfigFilePath string `json:"-"`
}

// Ensure fills in defaults and validates the config.
func (c *Config) Ensure() error {
	if c.PublishRate == 0 {
		c.PublishRate = DefaultPublishRate
	}
	if c.ParentFrame == "" {
		c.ParentFrame = DefaultParentFrame
	}
	if c.Output == "" {
		c.Output = OutputStdout
	}
	if c.OutputMaxSizeMB == 0 {
		c.OutputMaxSizeMB = DefaultOutputMaxSizeMB
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return c.Validate("")
}

// Validate returns an error describing the first invalid field, named relative to path.
func (c *Config) Validate(path string) error {
	if c.Model == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "model")
	}
	if c.PublishRate <= 0 {
		return utils.NewConfigValidationError(path, errors.Errorf("publish_rate_hz must be positive, got %v", c.PublishRate))
	}
	if _, err := referenceframe.ParseConvention(c.Convention); err != nil {
		return utils.NewConfigValidationError(path, errors.Wrap(err, "convention"))
	}
	if _, err := kinematics.ParseMissingValuePolicy(c.MissingValues); err != nil {
		return utils.NewConfigValidationError(path, err)
	}
	if _, err := logging.LevelFromString(c.LogLevel); err != nil {
		return utils.NewConfigValidationError(path, err)
	}
	if c.OutputMaxSizeMB < 0 {
		return utils.NewConfigValidationError(path, errors.New("output_max_size_mb must not be negative"))
	}
	if c.SweepPeriodSec < 0 {
		return utils.NewConfigValidationError(path, errors.New("sweep_period_sec must not be negative"))
	}
	if c.Simulate && c.JointFile != "" {
		return utils.NewConfigValidationError(path, errors.New("simulate and joint_file cannot both be set"))
	}
	return nil
}

// resolve returns p relative to the directory of the config file, with "~" expanded.
func (c *Config) resolve(p string) (string, error) {
	p, err := rutils.ExpandHomeDir(p)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(p) || c.ConfigFilePath == "" {
		return p, nil
	}
	return filepath.Join(filepath.Dir(c.ConfigFilePath), p), nil
}

// ModelPath returns the resolved path of the description.
func (c *Config) ModelPath() (string, error) {
	return c.resolve(c.Model)
}

// JointFilePath returns the resolved path of the joint file, or "" if none is configured.
func (c *Config) JointFilePath() (string, error) {
	if c.JointFile == "" {
		return "", nil
	}
	return c.resolve(c.JointFile)
}

// OutputPath returns the resolved path of the output file, or "" when output goes to stdout or the log.
func (c *Config) OutputPath() (string, error) {
	if c.Output == OutputStdout || c.Output == OutputLog || c.Output == "" {
		return "", nil
	}
	p, err := c.resolve(c.Output)
	if err != nil {
		return "", err
	}
	return filepath.Abs(p)
}

// LoadTree parses the description and builds its kinematic tree, applying any name or convention override.
func (c *Config) LoadTree() (*referenceframe.Tree, error) {
	p, err := c.ModelPath()
	if err != nil {
		return nil, err
	}
	mc, err := referenceframe.ParseModelFile(p, c.ModelName)
	if err != nil {
		return nil, err
	}
	if c.Convention != "" {
		mc.Convention = c.Convention
	}
	return referenceframe.NewTree(mc)
}

// Policy returns the configured missing value policy.
func (c *Config) Policy() kinematics.MissingValuePolicy {
	//nolint:errcheck
	p, _ := kinematics.ParseMissingValuePolicy(c.MissingValues)
	return p
}

// Level returns the configured log level.
func (c *Config) Level() logging.Level {
	level, err := logging.LevelFromString(c.LogLevel)
	if err != nil {
		return logging.INFO
	}
	return level
}

// SweepPeriod returns the duration of one simulated sweep.
func (c *Config) SweepPeriod() time.Duration {
	if c.SweepPeriodSec == 0 {
		return DefaultSweepPeriod
	}
	return time.Duration(c.SweepPeriodSec * float64(time.Second))
}
