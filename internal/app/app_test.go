package app

import (
	"context"
	"testing"

	"github.com/latticefin/lattice/internal/config"
	"github.com/latticefin/lattice/internal/core"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.Storage.Snapshot.Path = t.TempDir()
	return cfg
}

func TestInit_SeedsSampleUniverse(t *testing.T) {
	a, err := New(testConfig(t), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := a.Init(context.Background()); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	g := a.Graph()
	if len(g.Assets()) == 0 {
		t.Fatal("expected seeded assets")
	}
	if len(g.Events()) == 0 {
		t.Error("expected seeded events")
	}

	// Autobuild defaults on, so inference already ran.
	if g.CalculateMetrics().TotalRelationships == 0 {
		t.Error("expected relationships after autobuild")
	}
}

func TestInit_Idempotent(t *testing.T) {
	a, err := New(testConfig(t), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := a.Init(context.Background()); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	before := len(a.Graph().Events())

	if err := a.Init(context.Background()); err != nil {
		t.Fatalf("second init failed: %v", err)
	}
	if got := len(a.Graph().Events()); got != before {
		t.Errorf("second init duplicated events: %d vs %d", got, before)
	}
}

func TestInit_NoAutobuild(t *testing.T) {
	cfg := testConfig(t)
	cfg.Graph.Autobuild = false

	a, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.Init(context.Background()); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	// Event-derived edges exist, but no sector/issuer/yield inference ran.
	rels := a.Graph().Relationships()
	for _, r := range rels {
		if r.Type == "same_sector" || r.Type == "corporate_bond_to_equity" {
			t.Errorf("unexpected inferred edge %s -> %s (%s)", r.SourceID, r.TargetID, r.Type)
		}
	}

	if added := a.BuildRelationships(); added == 0 {
		t.Error("expected explicit build to add edges")
	}
}

func TestAddAssetAndEvent(t *testing.T) {
	cfg := testConfig(t)
	cfg.Provider.Sample = false

	a, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	asset, err := core.NewEquity(core.AssetParams{
		ID: "NVDA", Symbol: "NVDA", Name: "NVIDIA Corporation",
		Sector: "Technology", Price: 880.00,
	}, core.EquityDetails{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a.AddAsset(asset)

	ev, err := core.NewRegulatoryEvent("e1", "NVDA", core.EventEarningsReport,
		"2026-08-27", "Q2 earnings", 0.6, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a.AddEvent(ev)

	if got, ok := a.Graph().Asset("NVDA"); !ok || got.Symbol != "NVDA" {
		t.Fatal("expected asset to be stored")
	}
	if len(a.Graph().Events()) != 1 {
		t.Error("expected one event")
	}
}

func TestSnapshotRoundTripThroughRestore(t *testing.T) {
	dir := t.TempDir()

	cfg := config.Defaults()
	cfg.Storage.Snapshot.Path = dir

	a, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.Init(context.Background()); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	want := a.Graph().CalculateMetrics()

	if _, err := a.SaveSnapshot(context.Background(), "nightly"); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// A second app restores the snapshot instead of seeding providers.
	cfg2 := config.Defaults()
	cfg2.Storage.Snapshot.Path = dir
	cfg2.Provider.Sample = false
	cfg2.Graph.Restore = "nightly"
	cfg2.Graph.Autobuild = false

	b, err := New(cfg2, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.Init(context.Background()); err != nil {
		t.Fatalf("restore init failed: %v", err)
	}

	got := b.Graph().CalculateMetrics()
	if got.TotalAssets != want.TotalAssets {
		t.Errorf("assets: got %d want %d", got.TotalAssets, want.TotalAssets)
	}
	if got.TotalRelationships != want.TotalRelationships {
		t.Errorf("relationships: got %d want %d", got.TotalRelationships, want.TotalRelationships)
	}
}

func TestInit_RestoreMissingSnapshot(t *testing.T) {
	cfg := testConfig(t)
	cfg.Graph.Restore = "no-such-snapshot"

	a, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.Init(context.Background()); err == nil {
		t.Fatal("expected error restoring missing snapshot")
	}
}

func TestStats(t *testing.T) {
	a, err := New(testConfig(t), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.Init(context.Background()); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	stats := a.Stats()
	if stats["seeded"] != true {
		t.Error("expected seeded=true")
	}
	if stats["providers"].(int) != 1 {
		t.Errorf("expected 1 provider, got %v", stats["providers"])
	}
	if stats["assets"].(int) == 0 {
		t.Error("expected assets in stats")
	}
}
