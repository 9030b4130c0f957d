// Package dataset wires the file adapters into a single startup load: both
// required tables plus the optional boundary, fetched concurrently and
// validated into the immutable market.Dataset shared for the process
// lifetime.
package dataset

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"marketviz/adapters/fetch"
	"marketviz/adapters/geo"
	"marketviz/adapters/tabular"
	"marketviz/domain/market"
	"marketviz/internal"
	"marketviz/internal/config"
	"marketviz/internal/errors"
)

// Loader loads the dataset described by a DataConfig. Results are cached:
// repeated Load calls return the first outcome.
type Loader struct {
	cfg config.DataConfig

	once     sync.Once
	dataset  *market.Dataset
	warnings []string
	err      error
}

// NewLoader creates a loader for the configured data source.
func NewLoader(cfg config.DataConfig) *Loader {
	return &Loader{cfg: cfg}
}

// Load reads and validates everything. The two tables are required and fail
// the load; the boundary is optional and degrades to a warning. The returned
// warnings list absent expected columns and other non-fatal findings.
func (l *Loader) Load(ctx context.Context) (*market.Dataset, []string, error) {
	l.once.Do(func() {
		l.dataset, l.warnings, l.err = l.load(ctx)
	})
	return l.dataset, l.warnings, l.err
}

func (l *Loader) load(ctx context.Context) (*market.Dataset, []string, error) {
	var (
		history  []market.HistoryRow
		cells    []market.CellDayRecord
		boundary *market.Boundary

		mu       sync.Mutex
		warnings []string
	)
	warn := func(ws ...string) {
		mu.Lock()
		warnings = append(warnings, ws...)
		mu.Unlock()
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		table, err := l.readTable(ctx, l.cfg.HistoryFile)
		if err != nil {
			return errors.DataMissing(l.cfg.HistoryFile, err)
		}
		rows, ws, err := tabular.ParseHistory(table)
		warn(ws...)
		if err != nil {
			return err
		}
		history = rows
		return nil
	})

	g.Go(func() error {
		table, err := l.readTable(ctx, l.cfg.CellsFile)
		if err != nil {
			return errors.DataMissing(l.cfg.CellsFile, err)
		}
		records, ws, err := tabular.ParseCells(table)
		warn(ws...)
		if err != nil {
			return err
		}
		cells = records
		return nil
	})

	g.Go(func() error {
		b, err := l.readBoundary(ctx)
		if err != nil {
			// Optional layer: absence or damage only costs the outline.
			warn("boundary unavailable: " + err.Error())
			return nil
		}
		boundary = b
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, warnings, err
	}

	ds, err := market.NewDataset(history, cells, boundary)
	if err != nil {
		return nil, warnings, err
	}

	internal.DefaultLogger.Info("[Loader] Dataset ready: %d history rows, %d cell records, max day %d, boundary=%v",
		len(ds.History), len(ds.Cells), ds.MaxDay, ds.HasBoundary())
	return ds, warnings, nil
}

func (l *Loader) readTable(ctx context.Context, name string) (*tabular.Table, error) {
	if l.cfg.RemoteBaseURL != "" {
		payload, err := fetch.NewClient(l.cfg.RemoteBaseURL).Fetch(ctx, name)
		if err != nil {
			return nil, err
		}
		return tabular.NewDataReaderFromBytes(name, payload).ReadTable()
	}
	return tabular.NewDataReader(name).ReadTable()
}

func (l *Loader) readBoundary(ctx context.Context) (*market.Boundary, error) {
	if l.cfg.BoundaryFile == "" {
		return nil, nil
	}
	if l.cfg.RemoteBaseURL != "" {
		payload, err := fetch.NewClient(l.cfg.RemoteBaseURL).Fetch(ctx, l.cfg.BoundaryFile)
		if err != nil {
			return nil, err
		}
		return geo.ParseBoundary(payload)
	}
	return geo.ReadBoundary(l.cfg.BoundaryFile)
}
