//go:build !(android && cgo)

// Package main is the platformloop demo CLI: it drives a counting entry
// function from the native event loop of the host platform.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"
	"weak"

	"github.com/b97tsk/async"
	"github.com/spf13/cobra"

	platformloop "github.com/joeycumines/go-platformloop"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "platformloop",
		Short:   "Drive an async runtime from the native event loop",
		Version: version,
	}
	root.AddCommand(runCmd())
	return root
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Count polls of the native loop, then stop",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := runOptions(cmd)
			if err != nil {
				return err
			}
			polls, _ := cmd.Flags().GetInt("polls")
			if polls < 0 {
				return fmt.Errorf("negative --polls %d", polls)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return platformloop.Run(ctx, countEntry(cmd.OutOrStdout(), polls), opts...)
		},
	}
	cmd.Flags().String("config", "", "TOML config file")
	cmd.Flags().Duration("interval", 0, "poll interval of timer driven loops (0 = platform default)")
	cmd.Flags().Duration("yield", platformloop.DefaultYieldInterval, "message pump sleep when idle")
	cmd.Flags().Int("polls", 3, "polls to count before the entry function returns (0 = forever)")
	cmd.Flags().Bool("stop-on-completion", true, "stop the loop once the entry function returns")
	cmd.Flags().String("log-level", "", "log level, e.g. info or debug (empty = config, or silent)")
	return cmd
}

// runOptions merges the config file, if any, with the flags, which win.
func runOptions(cmd *cobra.Command) ([]platformloop.Option, error) {
	cfg := &platformloop.Config{}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		var err error
		if cfg, err = platformloop.LoadConfig(path); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("interval") {
		d, _ := flags.GetDuration("interval")
		cfg.PollInterval = platformloop.Duration{Duration: d, Set: true}
	}
	if flags.Changed("yield") {
		d, _ := flags.GetDuration("yield")
		cfg.YieldInterval = platformloop.Duration{Duration: d, Set: true}
	}
	if flags.Changed("stop-on-completion") || cfg.StopOnCompletion == nil {
		v, _ := flags.GetBool("stop-on-completion")
		cfg.StopOnCompletion = &v
	}

	return cfg.Options(cmd.ErrOrStderr())
}

// counter is the root component.
type counter struct {
	rt      *platformloop.Runtime
	started time.Time
	count   int
}

// Mount implements platformloop.Mounter.
func (c *counter) Mount(rt *platformloop.Runtime) {
	c.rt = rt
	c.started = time.Now()
}

// countEntry returns an entry function that counts one per poll, and ends
// after polls counts. With polls == 0 it never ends.
func countEntry(out io.Writer, polls int) platformloop.Entry[counter] {
	return func(root weak.Pointer[counter]) async.Task {
		return func(co *async.Coroutine) async.Result {
			c := root.Value()
			if c == nil {
				return co.End()
			}
			c.count++
			fmt.Fprintf(out, "poll %d after %v\n", c.count, time.Since(c.started).Round(time.Millisecond))
			if polls > 0 && c.count >= polls {
				fmt.Fprintf(out, "done, runtime %s\n", c.rt.ID())
				return co.End()
			}
			return co.Yield(c.rt.Tick())
		}
	}
}
