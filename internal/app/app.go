package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/latticefin/lattice/internal/config"
	"github.com/latticefin/lattice/internal/core"
	"github.com/latticefin/lattice/internal/graph"
	"github.com/latticefin/lattice/internal/metrics"
	"github.com/latticefin/lattice/internal/provider"
	"github.com/latticefin/lattice/internal/storage/archive"
	"github.com/latticefin/lattice/internal/storage/snapshot"
	"go.uber.org/zap"
)

// App is the main application orchestrator. It owns the single graph
// instance and funnels every mutation through itself so Prometheus
// gauges stay in step with graph state.
type App struct {
	cfg       *config.Config
	logger    *zap.Logger
	providers *provider.Registry
	metrics   *metrics.Registry
	snapshots archive.Storage

	mu     sync.Mutex
	graph  *graph.Graph
	seeded bool
}

// New creates a new App instance
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	store, err := newSnapshotStorage(cfg)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:       cfg,
		logger:    logger,
		providers: provider.NewRegistry(),
		metrics:   metrics.NewRegistry(),
		snapshots: store,
	}

	if cfg.Provider.Sample {
		a.providers.Register(provider.NewSample())
	}

	return a, nil
}

// newSnapshotStorage builds the snapshot backend from config.
func newSnapshotStorage(cfg *config.Config) (archive.Storage, error) {
	sc := cfg.Storage.Snapshot
	switch sc.Type {
	case "s3":
		return archive.NewS3(archive.S3Config{
			Bucket:    sc.S3.Bucket,
			Endpoint:  sc.S3.Endpoint,
			Region:    sc.S3.Region,
			AccessKey: sc.S3.AccessKey,
			SecretKey: sc.S3.SecretKey,
			Prefix:    sc.S3.Prefix,
		})
	case "localfs", "":
		path := sc.Path
		if path == "" {
			path = "data/snapshots"
		}
		return archive.NewLocalFS(path)
	default:
		return nil, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown snapshot storage type %q", sc.Type))
	}
}

// RegisterProvider adds an asset provider to the app
func (a *App) RegisterProvider(p provider.Provider) {
	a.providers.Register(p)
}

// Metrics returns the Prometheus registry.
func (a *App) Metrics() *metrics.Registry {
	return a.metrics
}

// Graph returns the shared graph, creating an empty one on first use.
func (a *App) Graph() *graph.Graph {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.graphLocked()
}

func (a *App) graphLocked() *graph.Graph {
	if a.graph == nil {
		a.graph = graph.New()
	}
	return a.graph
}

// Init seeds the graph from registered providers, optionally restores
// a snapshot, and runs relationship inference when autobuild is on.
func (a *App) Init(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.seeded {
		return nil
	}

	if a.cfg.Graph.Restore != "" {
		s, err := snapshot.Load(ctx, a.snapshots, a.cfg.Graph.Restore)
		if err != nil {
			a.metrics.RecordSnapshot("restore", "error")
			return err
		}
		g, err := snapshot.Restore(s)
		if err != nil {
			a.metrics.RecordSnapshot("restore", "error")
			return err
		}
		a.graph = g
		a.metrics.RecordSnapshot("restore", "success")
		a.logger.Info("restored graph from snapshot",
			zap.String("name", a.cfg.Graph.Restore),
			zap.Int("assets", len(g.Assets())),
		)
	}

	g := a.graphLocked()

	for _, p := range a.providers.GetAll() {
		assets, err := p.Assets(ctx)
		if err != nil {
			return core.WrapError(core.ErrProviderFailed, err)
		}
		for _, asset := range assets {
			g.AddAsset(asset)
		}

		events, err := p.Events(ctx)
		if err != nil {
			return core.WrapError(core.ErrProviderFailed, err)
		}
		for _, ev := range events {
			g.AddRegulatoryEvent(ev)
			a.metrics.RecordEvent()
		}

		a.logger.Info("seeded provider",
			zap.String("provider", p.Name()),
			zap.Int("assets", len(assets)),
			zap.Int("events", len(events)),
		)
	}

	if a.cfg.Graph.Autobuild {
		a.buildLocked()
	}

	a.seeded = true
	a.refreshGaugesLocked()
	return nil
}

// AddAsset inserts or replaces an asset in the graph.
func (a *App) AddAsset(asset core.Asset) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.graphLocked().AddAsset(asset)
	a.refreshGaugesLocked()
}

// AddEvent records a regulatory event and its derived edges.
func (a *App) AddEvent(ev core.RegulatoryEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.graphLocked().AddRegulatoryEvent(ev)
	a.metrics.RecordEvent()
	a.refreshGaugesLocked()
}

// AddRelationship inserts an explicit edge between two assets.
func (a *App) AddRelationship(sourceID, targetID, relType string, strength float64, bidirectional bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.graphLocked().AddRelationship(sourceID, targetID, relType, strength, bidirectional)
	a.refreshGaugesLocked()
}

// BuildRelationships runs heuristic inference over every asset pair
// and returns the number of new edges.
func (a *App) BuildRelationships() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.buildLocked()
}

func (a *App) buildLocked() int {
	start := time.Now()
	added := a.graphLocked().BuildRelationships()
	a.metrics.RecordBuild(time.Since(start).Seconds())
	a.refreshGaugesLocked()

	a.logger.Info("relationship build complete",
		zap.Int("new_edges", added),
		zap.Duration("elapsed", time.Since(start)),
	)
	return added
}

// SaveSnapshot captures the graph and writes it to the snapshot store.
// The snapshot id is used when name is empty.
func (a *App) SaveSnapshot(ctx context.Context, name string) (snapshot.Snapshot, error) {
	a.mu.Lock()
	s := snapshot.Capture(a.graphLocked())
	a.mu.Unlock()

	if err := snapshot.Save(ctx, a.snapshots, s, name); err != nil {
		a.metrics.RecordSnapshot("save", "error")
		return snapshot.Snapshot{}, err
	}
	a.metrics.RecordSnapshot("save", "success")
	a.logger.Info("snapshot saved",
		zap.String("id", s.ID),
		zap.Int("assets", len(s.Assets)),
		zap.Int("relationships", len(s.Relationships)),
	)
	return s, nil
}

// refreshGaugesLocked pushes current graph totals into Prometheus.
func (a *App) refreshGaugesLocked() {
	m := a.graphLocked().CalculateMetrics()
	for class, count := range m.AssetClassDistribution {
		a.metrics.SetAssets(string(class), count)
	}
	a.metrics.SetRelationships(m.TotalRelationships)
}

// Stats returns application statistics
func (a *App) Stats() map[string]any {
	a.mu.Lock()
	defer a.mu.Unlock()

	g := a.graphLocked()
	return map[string]any{
		"seeded":        a.seeded,
		"providers":     len(a.providers.GetAll()),
		"assets":        len(g.Assets()),
		"relationships": g.CalculateMetrics().TotalRelationships,
		"events":        len(g.Events()),
	}
}
