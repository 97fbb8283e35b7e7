package provider

import (
	"context"

	"github.com/latticefin/lattice/internal/core"
)

// Sample is a fixture provider with a small, fully deterministic
// universe. It exercises every asset class and every relationship
// rule so a freshly seeded graph has something to show.
type Sample struct{}

// NewSample creates the fixture provider.
func NewSample() *Sample { return &Sample{} }

func (s *Sample) Name() string { return "sample" }

func f(v float64) *float64 { return &v }

// Assets returns the fixture universe. Order is stable so graph
// construction and pair iteration are reproducible across runs.
func (s *Sample) Assets(ctx context.Context) ([]core.Asset, error) {
	fixtures := []struct {
		build func() (core.Asset, error)
	}{
		{func() (core.Asset, error) {
			return core.NewEquity(core.AssetParams{
				ID: "AAPL", Symbol: "AAPL", Name: "Apple Inc.",
				Sector: "Technology", Price: 185.30, MarketCap: f(2.89e12),
			}, core.EquityDetails{
				PERatio: f(28.5), DividendYield: f(0.0055), EarningsPerShare: f(6.42),
			})
		}},
		{func() (core.Asset, error) {
			return core.NewEquity(core.AssetParams{
				ID: "MSFT", Symbol: "MSFT", Name: "Microsoft Corporation",
				Sector: "Technology", Price: 412.10, MarketCap: f(3.06e12),
			}, core.EquityDetails{
				PERatio: f(35.1), DividendYield: f(0.0072), EarningsPerShare: f(11.80),
			})
		}},
		{func() (core.Asset, error) {
			return core.NewEquity(core.AssetParams{
				ID: "XOM", Symbol: "XOM", Name: "Exxon Mobil Corporation",
				Sector: "Energy", Price: 104.50, MarketCap: f(4.2e11),
			}, core.EquityDetails{
				PERatio: f(13.2), DividendYield: f(0.034), EarningsPerShare: f(7.94),
			})
		}},
		{func() (core.Asset, error) {
			return core.NewEquity(core.AssetParams{
				ID: "SAP", Symbol: "SAP", Name: "SAP SE",
				Sector: "Technology", Price: 172.40, MarketCap: f(2.1e11),
				Currency: "EUR",
			}, core.EquityDetails{
				PERatio: f(41.3), DividendYield: f(0.013),
			})
		}},
		{func() (core.Asset, error) {
			return core.NewBond(core.AssetParams{
				ID: "AAPL_BOND_2026", Symbol: "AAPL26", Name: "Apple Inc. 2.90% 2026",
				Sector: "Technology", Price: 98.20,
			}, core.BondDetails{
				YieldToMaturity: f(0.029), CouponRate: f(0.029),
				MaturityDate: "2026-09-12", CreditRating: "AA+", IssuerID: "AAPL",
			})
		}},
		{func() (core.Asset, error) {
			return core.NewBond(core.AssetParams{
				ID: "XOM_BOND_2031", Symbol: "XOM31", Name: "Exxon Mobil 3.45% 2031",
				Sector: "Energy", Price: 94.70,
			}, core.BondDetails{
				YieldToMaturity: f(0.0412), CouponRate: f(0.0345),
				MaturityDate: "2031-04-15", CreditRating: "AA-", IssuerID: "XOM",
			})
		}},
		{func() (core.Asset, error) {
			return core.NewCommodity(core.AssetParams{
				ID: "CL", Symbol: "CL", Name: "Crude Oil WTI Futures",
				Sector: "Energy", Price: 78.40,
			}, core.CommodityDetails{ContractSize: f(1000), Volatility: f(0.31), DeliveryDate: "2026-01-20"})
		}},
		{func() (core.Asset, error) {
			return core.NewCommodity(core.AssetParams{
				ID: "GC", Symbol: "GC", Name: "Gold Futures",
				Sector: "Materials", Price: 2412.60,
			}, core.CommodityDetails{ContractSize: f(100), Volatility: f(0.14), DeliveryDate: "2026-02-25"})
		}},
		{func() (core.Asset, error) {
			return core.NewCurrency(core.AssetParams{
				ID: "USD", Symbol: "USD", Name: "US Dollar", Price: 1,
			}, core.CurrencyDetails{ExchangeRate: f(1), CentralBankRate: f(0.0425), Country: "United States"})
		}},
		{func() (core.Asset, error) {
			return core.NewCurrency(core.AssetParams{
				ID: "EUR", Symbol: "EUR", Name: "Euro", Price: 1.087,
			}, core.CurrencyDetails{ExchangeRate: f(1.087), CentralBankRate: f(0.0215), Country: "Euro Area"})
		}},
	}

	assets := make([]core.Asset, 0, len(fixtures))
	for _, fx := range fixtures {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a, err := fx.build()
		if err != nil {
			return nil, core.WrapError(core.ErrProviderFailed, err)
		}
		assets = append(assets, a)
	}
	return assets, nil
}

// Events returns the fixture regulatory events.
func (s *Sample) Events(ctx context.Context) ([]core.RegulatoryEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fixtures := []struct {
		id, assetID   string
		eventType     core.EventType
		date, desc    string
		impact        float64
		relatedAssets []string
	}{
		{"evt-aapl-q3", "AAPL", core.EventEarningsReport, "2026-07-30",
			"Q3 earnings beat consensus on services revenue", 0.45, []string{"MSFT"}},
		{"evt-aapl-notes", "AAPL", core.EventBondIssuance, "2026-05-12",
			"Issued $5B in senior unsecured notes", -0.10, []string{"AAPL_BOND_2026"}},
		{"evt-xom-10k", "XOM", core.EventSECFiling, "2026-02-24",
			"Annual report filed with revised reserve estimates", -0.25, []string{"XOM_BOND_2031", "CL"}},
		{"evt-msft-div", "MSFT", core.EventDividendAnnouncement, "2026-06-10",
			"Quarterly dividend raised to $0.83 per share", 0.30, nil},
	}

	events := make([]core.RegulatoryEvent, 0, len(fixtures))
	for _, fx := range fixtures {
		ev, err := core.NewRegulatoryEvent(fx.id, fx.assetID, fx.eventType, fx.date, fx.desc, fx.impact, fx.relatedAssets)
		if err != nil {
			return nil, core.WrapError(core.ErrProviderFailed, err)
		}
		events = append(events, ev)
	}
	return events, nil
}
