package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/formdom/internal/htmlload"
	"github.com/zjrosen/formdom/internal/presentation"
	"github.com/zjrosen/formdom/internal/snapshot"
	"github.com/zjrosen/formdom/internal/tracing"
)

var snapshotLimit int

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Store and compare form registry snapshots",
	Long: `Snapshots record each form's registry (slot order, names, kinds and
validity) in the local store (store.path in the config file) so later
edits to the markup can be compared against them.

Snapshots are keyed by the file path as given on the command line and by
the form's id, name or position.`,
}

var snapshotSaveCmd = &cobra.Command{
	Use:     "save PATH...",
	Short:   "Store the current registry of every form",
	Example: `  formdom snapshot save signup.html`,
	Args:    requireArgs(1),
	RunE:    runSnapshotSave,
}

var snapshotListCmd = &cobra.Command{
	Use:     "list PATH...",
	Short:   "List stored snapshots, newest first",
	Example: `  formdom snapshot list signup.html --limit 5`,
	Args:    requireArgs(1),
	RunE:    runSnapshotList,
}

var snapshotDiffCmd = &cobra.Command{
	Use:   "diff PATH...",
	Short: "Compare each form against its latest stored snapshot",
	Long: `Diff the current registry of every form against the newest stored
snapshot of the same form. Forms that were never saved are reported as new.`,
	Example: `  formdom snapshot diff signup.html`,
	Args:    requireArgs(1),
	RunE:    runSnapshotDiff,
}

func init() {
	snapshotListCmd.Flags().IntVarP(&snapshotLimit, "limit", "n", 0, "show at most this many snapshots per file (0 for all)")

	snapshotCmd.AddCommand(snapshotSaveCmd, snapshotListCmd, snapshotDiffCmd)
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshotSave(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	docs, err := rt.load(cmd.Context(), args)
	if err != nil {
		return err
	}
	db, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	repo := db.SnapshotRepository()

	captured := rt.capture(cmd.Context(), docs)
	for _, s := range captured {
		if err := rt.save(cmd.Context(), repo, s); err != nil {
			return err
		}
	}
	return rt.formatter.FormatSnapshots(presentation.FromSnapshots(captured))
}

func runSnapshotList(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	paths, err := htmlload.ExpandPaths(args)
	if err != nil {
		return usageError(err)
	}
	db, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	repo := db.SnapshotRepository()

	var all []*snapshot.Snapshot
	for _, path := range paths {
		ctx, span := rt.tracer.Start(cmd.Context(), tracing.SpanSnapshotList, trace.WithAttributes(attribute.String(tracing.AttrPath, path)))
		list, err := repo.List(ctx, path, snapshotLimit)
		tracing.End(span, err)
		if err != nil {
			return fmt.Errorf("listing snapshots of %s: %w", path, err)
		}
		all = append(all, list...)
	}
	return rt.formatter.FormatSnapshots(presentation.FromSnapshots(all))
}

func runSnapshotDiff(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	docs, err := rt.load(cmd.Context(), args)
	if err != nil {
		return err
	}
	db, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	repo := db.SnapshotRepository()

	for _, cur := range rt.capture(cmd.Context(), docs) {
		prev, err := rt.latest(cmd.Context(), repo, cur.File(), cur.FormKey())
		if errors.Is(err, snapshot.ErrNotFound) {
			// Never saved: everything is an addition.
			prev, err = nil, nil
		}
		if err != nil {
			return err
		}
		if err := rt.formatter.FormatDiff(cur.File(), cur.FormKey(), snapshot.Diff(prev, cur)); err != nil {
			return err
		}
	}
	return nil
}

func (r *runtime) save(ctx context.Context, repo snapshot.Repository, s *snapshot.Snapshot) (err error) {
	ctx, span := r.tracer.Start(ctx, tracing.SpanSnapshotSave, trace.WithAttributes(
		attribute.String(tracing.AttrPath, s.File()),
		attribute.String(tracing.AttrFormID, s.FormKey()),
	))
	defer func() { tracing.End(span, err) }()

	if err := repo.Save(ctx, s); err != nil {
		return fmt.Errorf("saving snapshot of %s %s: %w", s.File(), s.FormKey(), err)
	}
	span.SetAttributes(attribute.Int64(tracing.AttrSnapshotID, s.ID()))
	return nil
}

func (r *runtime) latest(ctx context.Context, repo snapshot.Repository, file, formKey string) (s *snapshot.Snapshot, err error) {
	ctx, span := r.tracer.Start(ctx, tracing.SpanSnapshotLatest, trace.WithAttributes(
		attribute.String(tracing.AttrPath, file),
		attribute.String(tracing.AttrFormID, formKey),
	))
	defer func() {
		if errors.Is(err, snapshot.ErrNotFound) {
			span.End()
			return
		}
		tracing.End(span, err)
	}()
	return repo.Latest(ctx, file, formKey)
}
