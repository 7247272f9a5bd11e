package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/ppiankov/cloudshift/internal/billing"
	"golang.org/x/sync/errgroup"
)

// Batch holds the validated items loaded for one provider. Rows that failed
// validation are reported in Errors and do not stop the load.
type Batch struct {
	Provider billing.Provider
	Location string
	Items    []billing.CostItem
	Rows     int
	Errors   []string
}

// Load reads one export from src and validates it against provider.
func Load(ctx context.Context, src Source, provider billing.Provider, location string) (*Batch, error) {
	rc, err := src.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	rows, err := DecodeCSV(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}

	items, errs := billing.ValidateAll(provider, rows)
	batch := &Batch{
		Provider: provider,
		Location: location,
		Items:    items,
		Rows:     len(rows),
	}
	for _, e := range errs {
		batch.Errors = append(batch.Errors, fmt.Sprintf("%s: %v", location, e))
	}
	if batch.Items == nil {
		batch.Items = []billing.CostItem{}
	}

	slog.Debug("Loaded billing export", "provider", provider, "location", location, "rows", len(rows), "items", len(items), "rejected", len(errs))
	return batch, nil
}

// LoadResult is the combined outcome of loading several providers.
type LoadResult struct {
	Batches map[billing.Provider]*Batch
	Errors  []string
}

// Loader reads exports for several providers in parallel.
type Loader struct {
	src         Source
	concurrency int
	progressFn  func(billing.Provider)
}

// NewLoader creates a loader reading through src.
func NewLoader(src Source, concurrency int) *Loader {
	if concurrency <= 0 {
		concurrency = 3
	}
	return &Loader{src: src, concurrency: concurrency}
}

// SetProgressFn sets a callback invoked as each provider starts loading.
func (l *Loader) SetProgressFn(fn func(billing.Provider)) {
	l.progressFn = fn
}

// LoadAll loads inputs through src using a Loader with the given concurrency.
func LoadAll(ctx context.Context, src Source, inputs map[billing.Provider]string, concurrency int) (*LoadResult, error) {
	return NewLoader(src, concurrency).LoadAll(ctx, inputs)
}

// LoadAll loads every provider in inputs. A provider that fails to load is
// recorded in Errors and the others continue.
func (l *Loader) LoadAll(ctx context.Context, inputs map[billing.Provider]string) (*LoadResult, error) {
	var (
		mu       sync.Mutex
		batches  = make(map[billing.Provider]*Batch, len(inputs))
		failures = make(map[billing.Provider]string)
	)

	providers := make([]billing.Provider, 0, len(inputs))
	for p := range inputs {
		providers = append(providers, p)
	}
	sort.Slice(providers, func(i, j int) bool { return providers[i] < providers[j] })

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)

	for _, provider := range providers {
		provider := provider
		location := inputs[provider]
		g.Go(func() error {
			if l.progressFn != nil {
				l.progressFn(provider)
			}
			slog.Info("Loading billing export", "provider", provider, "location", location)
			batch, err := Load(ctx, l.src, provider, location)
			if err != nil {
				mu.Lock()
				failures[provider] = fmt.Sprintf("%s: %v", provider, err)
				mu.Unlock()
				slog.Warn("Provider load failed", "provider", provider, "error", err)
				return nil // don't abort other providers
			}

			mu.Lock()
			batches[provider] = batch
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Errors are reported in provider order regardless of completion order.
	result := &LoadResult{Batches: batches}
	for _, p := range providers {
		if msg, ok := failures[p]; ok {
			result.Errors = append(result.Errors, msg)
			continue
		}
		result.Errors = append(result.Errors, batches[p].Errors...)
	}
	return result, nil
}
