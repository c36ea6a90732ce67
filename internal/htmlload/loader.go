package htmlload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/net/html"

	"github.com/zjrosen/formdom/internal/cachemanager"
	"github.com/zjrosen/formdom/internal/dom"
	"github.com/zjrosen/formdom/internal/log"
	"github.com/zjrosen/formdom/internal/tracing"
)

// ErrNoForms is returned by LoadFile when the markup holds no <form>.
var ErrNoForms = errors.New("no forms found")

// Parse reads markup from r and builds its forms without caching.
func Parse(r io.Reader, opts ...dom.Option) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return Build(root, opts...), nil
}

// Loader loads HTML files through a parsed-tree cache.
type Loader struct {
	trees    *cachemanager.ReadThroughCache[*html.Node, string]
	ttl      time.Duration
	tracer   trace.Tracer
	formOpts []dom.Option
}

// Option configures a Loader.
type Option func(*Loader)

// WithCache caches parsed trees in c for ttl.
func WithCache(c cachemanager.CacheManager[*html.Node], ttl time.Duration) Option {
	return func(l *Loader) {
		l.trees = cachemanager.NewReadThroughCache(c, parseFile, false)
		l.ttl = ttl
	}
}

// WithTracer records a span per load.
func WithTracer(t trace.Tracer) Option {
	return func(l *Loader) { l.tracer = t }
}

// WithFormOptions applies opts to every form the loader builds.
func WithFormOptions(opts ...dom.Option) Option {
	return func(l *Loader) { l.formOpts = append(l.formOpts, opts...) }
}

// NewLoader creates a loader. Without WithCache every load parses.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{tracer: noop.NewTracerProvider().Tracer("htmlload")}
	for _, opt := range opts {
		opt(l)
	}
	if l.trees == nil {
		mem := cachemanager.NewInMemoryCacheManager[*html.Node]("html", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
		l.trees = cachemanager.NewReadThroughCache(mem, parseFile, true)
	}
	return l
}

// LoadFile parses path and builds its forms. Returns ErrNoForms when the
// file has none.
func (l *Loader) LoadFile(ctx context.Context, path string) (doc *Document, err error) {
	_, span := l.tracer.Start(ctx, tracing.SpanLoad, trace.WithAttributes(attribute.String(tracing.AttrPath, path)))
	defer func() { tracing.End(span, err) }()

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	before := l.trees.Fetches()
	root, err := l.trees.Get(ctx, cacheKey(abs, info), abs, l.ttl)
	if err != nil {
		return nil, err
	}
	hit := l.trees.Fetches() == before

	doc = Build(root, l.formOpts...)
	doc.Path = path
	span.SetAttributes(
		attribute.Bool(tracing.AttrCacheHit, hit),
		attribute.Int(tracing.AttrFormCount, len(doc.Forms)),
	)
	log.Debug(log.CatLoader, "loaded html", "path", path, "forms", len(doc.Forms), "orphans", len(doc.Orphans), "cached", hit)

	if len(doc.Forms) == 0 {
		return doc, fmt.Errorf("%s: %w", path, ErrNoForms)
	}
	return doc, nil
}

func parseFile(_ context.Context, path string) (*html.Node, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	root, err := html.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return root, nil
}

func cacheKey(abs string, info os.FileInfo) string {
	return fmt.Sprintf("%s@%d:%d", abs, info.ModTime().UnixNano(), info.Size())
}
