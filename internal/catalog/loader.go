package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/fusionwear/storefront/pkg/errors"
	"github.com/fusionwear/storefront/pkg/logger"
)

const (
	defaultFetchTimeout = 10 * time.Second
	errorBodyReadLimit  = 1024

	// UnavailableMessage replaces the product grid when the catalog cannot be loaded.
	UnavailableMessage = "Unable to load products at the moment."
)

// Loader reads the catalog from a file path or an http(s) URL. The first
// result, success or failure, is kept for the lifetime of the loader.
type Loader struct {
	source     string
	httpClient *http.Client
	logg       *logger.Logger

	once    sync.Once
	catalog *Catalog
	err     error
}

// Option configures optional loader behavior.
type Option func(*Loader)

// WithHTTPClient overrides the client used for URL sources.
func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) {
		if client != nil {
			l.httpClient = client
		}
	}
}

// WithLogger attaches a logger for rejected records.
func WithLogger(logg *logger.Logger) Option {
	return func(l *Loader) {
		l.logg = logg
	}
}

// WithTimeout sets the timeout for URL sources.
func WithTimeout(timeout time.Duration) Option {
	return func(l *Loader) {
		if timeout > 0 {
			l.httpClient = &http.Client{Timeout: timeout, Transport: l.httpClient.Transport}
		}
	}
}

// NewLoader builds a loader for source.
func NewLoader(source string, opts ...Option) *Loader {
	l := &Loader{
		source:     strings.TrimSpace(source),
		httpClient: &http.Client{Timeout: defaultFetchTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Load returns the catalog, reading the source on the first call only.
func (l *Loader) Load(ctx context.Context) (*Catalog, error) {
	l.once.Do(func() {
		l.catalog, l.err = l.load(ctx)
	})
	return l.catalog, l.err
}

func (l *Loader) load(ctx context.Context) (*Catalog, error) {
	if l.source == "" {
		return nil, pkgerrors.New(pkgerrors.CodeConfiguration, "catalog source is not configured")
	}

	body, err := l.open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	c, rejected, err := Decode(body)
	if err != nil {
		return nil, err
	}

	if l.logg != nil {
		ctx = l.logg.WithFields(ctx, map[string]any{
			"source":   l.source,
			"products": c.Len(),
		})
		for _, rej := range rejected {
			l.logg.Warn(l.logg.WithFields(ctx, map[string]any{
				"index":  rej.Index,
				"id":     rej.ID,
				"reason": rej.Reason,
			}), "catalog.record_rejected")
		}
		l.logg.Info(ctx, "catalog.loaded")
	}
	return c, nil
}

func (l *Loader) open(ctx context.Context) (io.ReadCloser, error) {
	if !strings.HasPrefix(l.source, "http://") && !strings.HasPrefix(l.source, "https://") {
		f, err := os.Open(l.source)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open catalog file")
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build catalog request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch catalog")
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		_ = resp.Body.Close()
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "fetch catalog")
	}
	return resp.Body, nil
}
