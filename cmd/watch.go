package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/formdom/internal/htmlload"
	"github.com/zjrosen/formdom/internal/log"
	"github.com/zjrosen/formdom/internal/presentation"
	"github.com/zjrosen/formdom/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch PATH...",
	Short: "Re-validate forms whenever their files change",
	Long: `Validate the given files once, then again each time one of them is
written. Rapid successive writes are debounced (watch.debounce in the
config file).

With --metrics-addr, Prometheus metrics for loads and validations are
served at /metrics until the command is interrupted.`,
	Example: `  formdom watch signup.html
  formdom watch 'site/**/*.html' --metrics-addr :9464`,
	Args: requireArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address")
	_ = viper.BindPFlag("metrics.addr", watchCmd.Flags().Lookup("metrics-addr"))
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	paths, err := htmlload.ExpandPaths(args)
	if err != nil {
		return usageError(err)
	}

	if cfg.Metrics.Addr != "" {
		go func() {
			if err := rt.metrics.Serve(ctx, cfg.Metrics.Addr); err != nil {
				log.ErrorErr(log.CatWatcher, "metrics server failed", err, "addr", cfg.Metrics.Addr)
			}
		}()
	}

	wcfg := watcher.DefaultConfig(paths)
	if cfg.Watch.Debounce > 0 {
		wcfg.Debounce = cfg.Watch.Debounce
	}
	w, err := watcher.New(wcfg)
	if err != nil {
		return err
	}
	changes, err := w.Start()
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	if err := rt.revalidate(ctx, paths); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case batch := <-changes:
			log.Debug(log.CatWatcher, "files changed", "count", len(batch))
			if err := rt.revalidate(ctx, batch); err != nil {
				// Half-written files are common while editing; report and keep watching.
				fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			}
		}
	}
}

// revalidate loads paths one by one and prints the forms of each.
func (r *runtime) revalidate(ctx context.Context, paths []string) error {
	var errs []error
	for _, path := range paths {
		doc, err := r.loader.LoadFile(ctx, path)
		r.metrics.ObserveLoad(err)
		if errors.Is(err, htmlload.ErrNoForms) {
			continue
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		captured := r.capture(ctx, []*htmlload.Document{doc})
		if err := r.formatter.FormatForms(presentation.FromSnapshots(captured)); err != nil {
			return err
		}
	}
	return errors.Join(errs...)
}
