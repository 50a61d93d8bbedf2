package commands

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/shapegen/am"
	"github.com/teranos/shapegen/errors"
	"github.com/teranos/shapegen/generate"
	"github.com/teranos/shapegen/logger"
	"github.com/teranos/shapegen/source"
)

func newWatchCmd(g *globalFlags) *cobra.Command {
	f := &genFlags{}
	cmd := &cobra.Command{
		Use:   "watch [input]",
		Short: "Regenerate whenever the input document changes",
		Long: `Generate once, then regenerate on every change to the input document or
to the config file. Rapid successive saves are debounced (watch.debounce_ms).
A failing regeneration is reported and the previous artifact is kept.

Press Ctrl+C to stop.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, g, f, args)
		},
	}
	f.register(cmd)
	return cmd
}

func runWatch(cmd *cobra.Command, g *globalFlags, f *genFlags, args []string) error {
	r, err := f.resolve(g, args)
	if err != nil {
		return err
	}

	if r.input == source.Stdin {
		return errors.New("cannot watch standard input")
	}
	remote, err := source.IsRemote(r.input)
	if err != nil {
		return err
	}
	if remote {
		return errors.WithHint(errors.Newf("cannot watch remote source %s", r.input),
			"download it first or run `shapegen gen` on a schedule")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := &watchLoop{cmd: cmd, g: g, f: f, args: args, current: r}
	if err := w.regenerate(ctx); err != nil {
		return err
	}

	paths := []string{r.input}
	configPath := g.configPath
	if configPath == "" {
		configPath = am.FindProjectConfig()
	}
	if configPath != "" {
		paths = append(paths, configPath)
	}

	watcher, err := source.NewWatcher(paths, time.Duration(r.cfg.Watch.DebounceMS)*time.Millisecond,
		func(ctx context.Context, changed string) error {
			err := w.onChange(ctx, changed, configPath)
			if err != nil {
				// Keep watching; the next save may fix it
				pterm.Error.WithWriter(cmd.ErrOrStderr()).Println(err)
			}
			return nil
		})
	if err != nil {
		return err
	}

	pterm.Info.WithWriter(cmd.ErrOrStderr()).Printfln("Watching %s (Ctrl+C to stop)", r.input)
	return watcher.Run(ctx)
}

// watchLoop holds the state shared between regenerations.
type watchLoop struct {
	cmd     *cobra.Command
	g       *globalFlags
	f       *genFlags
	args    []string
	current *run
}

func (w *watchLoop) onChange(ctx context.Context, changed, configPath string) error {
	if configPath != "" && sameFile(changed, configPath) {
		if err := w.reload(); err != nil {
			return err
		}
	}
	return w.regenerate(ctx)
}

// reload re-reads configuration after the config file changed. An invalid
// file keeps the previous configuration.
func (w *watchLoop) reload() error {
	// am.Load caches; explicit reloads go through the file
	am.Reset()
	r, err := w.f.resolve(w.g, w.args)
	if err != nil {
		return errors.Wrap(err, "config reload failed, keeping previous configuration")
	}
	w.current = r
	logger.Infow("Configuration reloaded")
	return nil
}

func (w *watchLoop) regenerate(ctx context.Context) error {
	start := time.Now()
	res, err := generate.Run(ctx, w.current.input, w.current.opts)
	if err != nil {
		return err
	}
	dest, err := generate.Write(res, w.current.cfg.Output.Path, w.cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if dest != generate.Stdout {
		pterm.Success.WithWriter(w.cmd.ErrOrStderr()).Printfln("Generated %s (%d records) in %s",
			dest, len(res.Schema.All()), time.Since(start).Round(time.Millisecond))
	}
	return nil
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
