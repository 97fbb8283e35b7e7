package graph

import (
	"math"
	"testing"

	"github.com/latticefin/lattice/internal/core"
)

func mustCommodity(t *testing.T, id, symbol string) core.Asset {
	t.Helper()
	a, err := core.NewCommodity(core.AssetParams{ID: id, Symbol: symbol, Name: symbol + " Futures", Price: 75}, core.CommodityDetails{})
	if err != nil {
		t.Fatalf("NewCommodity(%s): %v", id, err)
	}
	return a
}

func mustCurrency(t *testing.T, code string) core.Asset {
	t.Helper()
	a, err := core.NewCurrency(core.AssetParams{ID: code, Symbol: code, Name: code + " cash", Price: 1, Currency: code}, core.CurrencyDetails{})
	if err != nil {
		t.Fatalf("NewCurrency(%s): %v", code, err)
	}
	return a
}

func findInferred(rels []Inferred, relType string) (Inferred, bool) {
	for _, r := range rels {
		if r.Type == relType {
			return r, true
		}
	}
	return Inferred{}, false
}

func TestInfer_SameSector(t *testing.T) {
	a := mustEquity(t, "AAPL", "Technology", core.EquityDetails{})
	b := mustEquity(t, "MSFT", "Technology", core.EquityDetails{})

	rel, ok := findInferred(Infer(a, b), RelSameSector)
	if !ok {
		t.Fatal("expected same_sector relationship")
	}
	if rel.Strength != 0.7 || !rel.Bidirectional {
		t.Errorf("unexpected rule output: %+v", rel)
	}
}

func TestInfer_SameSector_EmptySectorIgnored(t *testing.T) {
	a := mustEquity(t, "A", "", core.EquityDetails{})
	b := mustEquity(t, "B", "", core.EquityDetails{})

	if _, ok := findInferred(Infer(a, b), RelSameSector); ok {
		t.Error("empty sectors must not match")
	}
}

func TestInfer_CurrencyExposure(t *testing.T) {
	// Equity denominated in USD, paired with the USD currency asset. The
	// edge runs equity -> currency regardless of argument order.
	equity := mustEquity(t, "AAPL", "Technology", core.EquityDetails{})
	usd := mustCurrency(t, "USD")

	for _, args := range [][2]core.Asset{{equity, usd}, {usd, equity}} {
		rel, ok := findInferred(Infer(args[0], args[1]), RelCurrencyExposure)
		if !ok {
			t.Fatal("expected currency_exposure relationship")
		}
		if rel.SourceID != "AAPL" || rel.TargetID != "USD" {
			t.Errorf("edge direction %s -> %s, want AAPL -> USD", rel.SourceID, rel.TargetID)
		}
		if rel.Strength != 0.8 || rel.Bidirectional {
			t.Errorf("unexpected rule output: %+v", rel)
		}
	}
}

func TestInfer_CurrencyExposure_NoMatchAcrossCurrencies(t *testing.T) {
	equity := mustEquity(t, "SAP", "Technology", core.EquityDetails{})
	usd := mustCurrency(t, "USD")
	// SAP is USD-denominated here but paired against EUR.
	eur := mustCurrency(t, "EUR")

	if _, ok := findInferred(Infer(equity, eur), RelCurrencyExposure); ok {
		t.Error("currency must match the asset's denomination")
	}
	if _, ok := findInferred(Infer(equity, usd), RelCurrencyExposure); !ok {
		t.Error("expected exposure to the denomination currency")
	}
}

func TestInfer_CorporateBondToEquity(t *testing.T) {
	bond := mustBond(t, "AAPL_BOND", core.BondDetails{IssuerID: "AAPL"})
	equity := mustEquity(t, "AAPL", "Technology", core.EquityDetails{})

	for _, args := range [][2]core.Asset{{bond, equity}, {equity, bond}} {
		rel, ok := findInferred(Infer(args[0], args[1]), RelCorporateBondToEquity)
		if !ok {
			t.Fatal("expected corporate_bond_to_equity relationship")
		}
		if rel.SourceID != "AAPL_BOND" || rel.TargetID != "AAPL" {
			t.Errorf("edge direction %s -> %s, want AAPL_BOND -> AAPL", rel.SourceID, rel.TargetID)
		}
		if rel.Strength != 0.9 || rel.Bidirectional {
			t.Errorf("unexpected rule output: %+v", rel)
		}
	}
}

func TestInfer_CorporateBond_WrongIssuer(t *testing.T) {
	bond := mustBond(t, "T_BOND", core.BondDetails{IssuerID: "T"})
	equity := mustEquity(t, "AAPL", "Technology", core.EquityDetails{})

	if _, ok := findInferred(Infer(bond, equity), RelCorporateBondToEquity); ok {
		t.Error("issuer id must match the equity id")
	}
}

func TestInfer_CommodityExposure(t *testing.T) {
	tests := []struct {
		name      string
		symbol    string
		sector    string
		wantMatch bool
	}{
		{"crude vs energy", "CL", "Energy", true},
		{"long symbol first token", "GC Gold Futures", "Mining", true},
		{"case insensitive symbol", "gold", "Precious Metals", true},
		{"wheat vs agriculture", "WHEAT", "Agriculture", true},
		{"copper vs materials", "COPPER", "Materials", true},
		{"crude vs tech", "CL", "Technology", false},
		{"unknown commodity", "PORK", "Agriculture", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commodity := mustCommodity(t, "c1", tt.symbol)
			equity := mustEquity(t, "e1", tt.sector, core.EquityDetails{})

			rel, ok := findInferred(Infer(equity, commodity), RelCommodityExposure)
			if ok != tt.wantMatch {
				t.Fatalf("match = %v, want %v", ok, tt.wantMatch)
			}
			if !ok {
				return
			}
			if rel.SourceID != "c1" || rel.TargetID != "e1" {
				t.Errorf("edge direction %s -> %s, want c1 -> e1", rel.SourceID, rel.TargetID)
			}
			if rel.Strength != 0.6 || rel.Bidirectional {
				t.Errorf("unexpected rule output: %+v", rel)
			}
		})
	}
}

func TestInfer_IncomeComparison(t *testing.T) {
	equity := mustEquity(t, "AAPL", "Technology", core.EquityDetails{DividendYield: fptr(0.005)})
	bond := mustBond(t, "AAPL_BOND", core.BondDetails{YieldToMaturity: fptr(0.025)})

	rel, ok := findInferred(Infer(equity, bond), RelIncomeComparison)
	if !ok {
		t.Fatal("expected income_comparison relationship")
	}
	want := math.Max(0, 1-math.Abs(0.005-0.025)/(0.005+0.025+1e-6))
	if math.Abs(rel.Strength-want) > 1e-9 {
		t.Errorf("Strength = %f, want %f", rel.Strength, want)
	}
	if !rel.Bidirectional {
		t.Error("income_comparison should be bidirectional")
	}
}

func TestInfer_IncomeComparison_EqualYields(t *testing.T) {
	equity := mustEquity(t, "e1", "", core.EquityDetails{DividendYield: fptr(0.03)})
	bond := mustBond(t, "b1", core.BondDetails{YieldToMaturity: fptr(0.03)})

	rel, ok := findInferred(Infer(bond, equity), RelIncomeComparison)
	if !ok {
		t.Fatal("expected income_comparison relationship")
	}
	if rel.Strength < 0.999 || rel.Strength > 1 {
		t.Errorf("equal yields should be near-1 strength, got %f", rel.Strength)
	}
}

func TestInfer_IncomeComparison_MissingFields(t *testing.T) {
	equity := mustEquity(t, "e1", "", core.EquityDetails{})
	bond := mustBond(t, "b1", core.BondDetails{YieldToMaturity: fptr(0.03)})

	if _, ok := findInferred(Infer(equity, bond), RelIncomeComparison); ok {
		t.Error("rule requires both dividend_yield and yield_to_maturity")
	}
}

func TestInfer_MultipleRulesEmit(t *testing.T) {
	// Issuer-linked bond sharing the sector: both rules fire.
	equity := mustEquity(t, "XOM", "Energy", core.EquityDetails{})
	bond, err := core.NewBond(core.AssetParams{ID: "XOM_BOND", Symbol: "XOM31", Name: "Exxon 2031", Sector: "Energy", Price: 97}, core.BondDetails{IssuerID: "XOM"})
	if err != nil {
		t.Fatalf("NewBond: %v", err)
	}

	rels := Infer(equity, bond)
	if _, ok := findInferred(rels, RelSameSector); !ok {
		t.Error("expected same_sector")
	}
	if _, ok := findInferred(rels, RelCorporateBondToEquity); !ok {
		t.Error("expected corporate_bond_to_equity")
	}
}
