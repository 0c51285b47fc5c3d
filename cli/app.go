// Package cli contains the fk command line: checking descriptions, printing poses and running the publisher.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"

	"go.viam.com/fk/ros"
)

// Flags.
const (
	debugFlag = "debug"

	configFlag     = "config"
	nameFlag       = "name"
	conventionFlag = "convention"
	jointFlag      = "joint"
	degreesFlag    = "degrees"
	policyFlag     = "policy"
	fromFlag       = "from"
	toFlag         = "to"
	durationFlag   = "duration"
	bagFlag        = "bag"
	topicFlag      = "topic"
	speedFlag      = "speed"
)

var descriptionFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  nameFlag,
		Usage: "override the model name in the description",
	},
	&cli.StringFlag{
		Name:  conventionFlag,
		Usage: "override the joint convention: proximal or urdf",
	},
}

var app = &cli.App{
	Name:            "fk",
	Usage:           "compute and publish the link poses of an articulated robot",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    debugFlag,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
	},
	Commands: []*cli.Command{
		{
			Name:      "validate",
			Usage:     "check a robot description and print its kinematic tree",
			ArgsUsage: "<description>",
			Flags:     descriptionFlags,
			Action:    ValidateAction,
		},
		{
			Name:      "poses",
			Usage:     "print the pose of every link for the given joint values",
			ArgsUsage: "<description>",
			Flags: append([]cli.Flag{
				&cli.StringSliceFlag{
					Name:    jointFlag,
					Aliases: []string{"j"},
					Usage:   "joint value as name=value, may be repeated",
				},
				&cli.BoolFlag{
					Name:  degreesFlag,
					Usage: "rotating joint values are in degrees",
				},
				&cli.StringFlag{
					Name:  policyFlag,
					Value: "neutral",
					Usage: "what to do with joints that have no value: neutral or require",
				},
				&cli.StringFlag{
					Name:  fromFlag,
					Usage: "print only the pose of --to relative to this link",
				},
				&cli.StringFlag{
					Name:  toFlag,
					Usage: "link whose pose relative to --from is printed",
				},
			}, descriptionFlags...),
			Action: PosesAction,
		},
		{
			Name:  "run",
			Usage: "publish link poses continuously",
			Flags: []cli.Flag{
				&cli.PathFlag{
					Name:     configFlag,
					Aliases:  []string{"c"},
					Required: true,
					Usage:    "load configuration from `FILE`",
				},
				&cli.DurationFlag{
					Name:  durationFlag,
					Usage: "stop after this long; run until interrupted if unset",
				},
			},
			Action: RunAction,
		},
		{
			Name:  "replay",
			Usage: "publish link poses while replaying recorded joint states",
			Flags: []cli.Flag{
				&cli.PathFlag{
					Name:     configFlag,
					Aliases:  []string{"c"},
					Required: true,
					Usage:    "load configuration from `FILE`",
				},
				&cli.PathFlag{
					Name:     bagFlag,
					Required: true,
					Usage:    "rosbag or JSON lines file of joint states",
				},
				&cli.StringFlag{
					Name:  topicFlag,
					Value: ros.DefaultJointStatesTopic,
					Usage: "joint states topic in the bag",
				},
				&cli.Float64Flag{
					Name:  speedFlag,
					Value: 1,
					Usage: "playback speed; 0 applies every message at once",
				},
			},
			Action: ReplayAction,
		},
		{
			Name:   "version",
			Usage:  "print version info for this program",
			Action: VersionAction,
		},
	},
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
