package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"

	"github.com/zjrosen/formdom/internal/cachemanager"
	"github.com/zjrosen/formdom/internal/dom"
	"github.com/zjrosen/formdom/internal/htmlload"
	"github.com/zjrosen/formdom/internal/infrastructure/sqlite"
	"github.com/zjrosen/formdom/internal/log"
	"github.com/zjrosen/formdom/internal/metrics"
	"github.com/zjrosen/formdom/internal/presentation"
	"github.com/zjrosen/formdom/internal/snapshot"
	"github.com/zjrosen/formdom/internal/tracing"
)

// runtime holds the services a command run shares.
type runtime struct {
	loader    *htmlload.Loader
	formatter *presentation.Formatter
	provider  *tracing.Provider
	tracer    trace.Tracer
	metrics   *metrics.Metrics
}

func newRuntime(cmd *cobra.Command) (*runtime, error) {
	provider, err := tracing.NewProvider(cfg.Tracing.ProviderConfig())
	if err != nil {
		return nil, fmt.Errorf("setting up tracing: %w", err)
	}
	tracer := provider.Tracer()

	trees := cachemanager.NewInMemoryCacheManager[*html.Node]("html", cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	opts := []htmlload.Option{
		htmlload.WithCache(trees, cfg.Cache.TTL),
		htmlload.WithTracer(tracer),
	}
	if cfg.Debug {
		opts = append(opts, htmlload.WithFormOptions(dom.WithInvariantChecks()))
	}
	loader := htmlload.NewLoader(opts...)

	return &runtime{
		loader:    loader,
		formatter: presentation.NewFormatter(cmd.OutOrStdout(), cfg.Output.Format, cfg.Output.MarkdownStyle),
		provider:  provider,
		tracer:    tracer,
		metrics:   metrics.New(),
	}, nil
}

func (r *runtime) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.provider.Shutdown(ctx); err != nil {
		log.ErrorErr(log.CatTrace, "tracing shutdown failed", err)
	}
}

// load expands args and loads every matching file. Files without forms are
// skipped; any other load error aborts.
func (r *runtime) load(ctx context.Context, args []string) ([]*htmlload.Document, error) {
	paths, err := htmlload.ExpandPaths(args)
	if err != nil {
		return nil, usageError(err)
	}

	docs := make([]*htmlload.Document, 0, len(paths))
	for _, path := range paths {
		doc, err := r.loader.LoadFile(ctx, path)
		r.metrics.ObserveLoad(err)
		if errors.Is(err, htmlload.ErrNoForms) {
			log.Debug(log.CatLoader, "skipping file without forms", "path", path)
			continue
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// capture evaluates every form in docs.
func (r *runtime) capture(ctx context.Context, docs []*htmlload.Document) []*snapshot.Snapshot {
	var out []*snapshot.Snapshot
	for _, doc := range docs {
		for i, f := range doc.Forms {
			out = append(out, r.validate(ctx, doc.Path, i, f))
		}
	}
	return out
}

func (r *runtime) validate(ctx context.Context, file string, index int, f *dom.Form) *snapshot.Snapshot {
	key := snapshot.FormKey(index, f)
	_, span := r.tracer.Start(ctx, tracing.SpanValidate, trace.WithAttributes(
		attribute.String(tracing.AttrPath, file),
		attribute.String(tracing.AttrFormID, key),
	))
	start := time.Now()
	s := snapshot.FromForm(file, index, f)
	took := time.Since(start)

	span.SetAttributes(
		attribute.Int(tracing.AttrControlCount, f.Length()),
		attribute.Bool(tracing.AttrValid, s.Valid()),
	)
	span.End()

	r.metrics.ObserveValidation(file, key, f.Length(), s.Valid(), took)
	return s
}

// openStore opens the snapshot database named by the config.
func openStore() (*sqlite.DB, error) {
	db, err := sqlite.NewDB(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot store: %w", err)
	}
	return db, nil
}

func anyInvalid(list []*snapshot.Snapshot) bool {
	for _, s := range list {
		if !s.Valid() {
			return true
		}
	}
	return false
}
