package command

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/skycli/skycli/internal/cli/config"
	"github.com/skycli/skycli/internal/cli/output"
	"github.com/skycli/skycli/internal/core/auth"
	"github.com/skycli/skycli/internal/core/domain"
	"github.com/skycli/skycli/internal/core/retry"
	"github.com/skycli/skycli/internal/infra/buildinfo"
	"github.com/skycli/skycli/internal/store"
	"github.com/skycli/skycli/internal/telemetry/logger"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "skycli",
		Usage:   "Bluesky from the terminal",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			LoginCommand(),
			LogoutCommand(),
			WhoamiCommand(),
			SessionCommand(),
			PostCommand(),
			TimelineCommand(),
			ProfileCommand(),
			FollowCommand(),
			SearchCommand(),
			NotificationsCommand(),
			ChatCommand(),
		},
		Before: setup,
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "service",
			Aliases: []string{"s"},
			Usage:   "service origin (e.g. https://bsky.social)",
			EnvVars: []string{"SKYCLI_SERVICE"},
		},
		&cli.StringFlag{
			Name:    "config-dir",
			Usage:   "config directory override",
			EnvVars: []string{"SKYCLI_CONFIG_DIR"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format: table, json",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "show error codes, statuses and cause chains; verbose logging",
		},
	}
}

// runtime carries the per-invocation wiring handed to every action.
type runtime struct {
	cfg   *config.Config
	log   logger.Logger
	store *store.Store
	mgr   *auth.Manager
	out   output.Format
	debug bool
}

// setup builds the runtime from config and flags before any action.
func setup(c *cli.Context) error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	if service := c.String("service"); service != "" {
		cfg.Service = service
	}
	if format := c.String("output"); format != "" {
		cfg.Output = format
	}

	debug := c.Bool("debug")
	if debug {
		cfg.Log.Level = "debug"
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return err
	}
	log = log.With("invocation_id", logger.NewInvocationID())

	dir := c.String("config-dir")
	if dir == "" {
		dir = config.Dir()
	}
	st, err := store.New(dir)
	if err != nil {
		return err
	}

	c.App.Metadata["runtime"] = &runtime{
		cfg:   cfg,
		log:   log,
		store: st,
		mgr:   auth.NewManager(st, cfg.Service, log),
		out:   output.Format(cfg.Output),
		debug: debug,
	}
	return nil
}

// getRuntime retrieves the runtime from the app metadata.
func getRuntime(c *cli.Context) *runtime {
	rt, _ := c.App.Metadata["runtime"].(*runtime)
	return rt
}

// run adapts an action so every failure is rendered through the
// classifier once and converted to its fixed exit code.
func run(fn func(c *cli.Context, rt *runtime) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		rt := getRuntime(c)
		if rt == nil {
			return cli.Exit("error: not initialized", output.ExitGeneral)
		}
		if err := fn(c, rt); err != nil {
			output.RenderError(c.App.ErrWriter, err, rt.debug)
			return cli.Exit("", output.ExitCode(err))
		}
		return nil
	}
}

// formatter returns the configured output formatter.
func (rt *runtime) formatter() output.Formatter {
	return output.NewFormatter(rt.out)
}

// readPolicy is the retry profile for typical reads, with retry
// attempts surfaced in debug logs.
func (rt *runtime) readPolicy() retry.Policy {
	return rt.observed(retry.Standard, "read")
}

// writePolicy is the retry profile for posts and other uploads.
func (rt *runtime) writePolicy() retry.Policy {
	return rt.observed(retry.Long, "write")
}

func (rt *runtime) observed(p retry.Policy, op string) retry.Policy {
	return p.WithObserver(func(attempt int, err *domain.AppError, delay time.Duration) {
		rt.log.Debug("retrying "+op, "attempt", attempt, "delay", delay.String(), "error", err.Code)
	})
}
