package graph

import (
	"math"
	"strings"

	"github.com/latticefin/lattice/internal/core"
)

// Relationship types produced by the inference rules. Event-derived edges use
// the separate "event_<type>" naming, see AddRegulatoryEvent.
const (
	RelSameSector            = "same_sector"
	RelCurrencyExposure      = "currency_exposure"
	RelCorporateBondToEquity = "corporate_bond_to_equity"
	RelCommodityExposure     = "commodity_exposure"
	RelIncomeComparison      = "income_comparison"
)

// Inferred is one relationship decided by the rules, explicitly directed.
type Inferred struct {
	SourceID      string
	TargetID      string
	Type          string
	Strength      float64
	Bidirectional bool
}

// commoditySectorAffinity maps a commodity symbol (upper-cased, full symbol
// or its first whitespace-delimited token) to the equity sectors it exposes.
var commoditySectorAffinity = map[string][]string{
	"CL":     {"Energy", "Oil & Gas"},
	"CRUDE":  {"Energy", "Oil & Gas"},
	"NG":     {"Energy", "Utilities"},
	"GC":     {"Materials", "Mining", "Precious Metals"},
	"GOLD":   {"Materials", "Mining", "Precious Metals"},
	"SI":     {"Materials", "Mining", "Precious Metals"},
	"SILVER": {"Materials", "Mining", "Precious Metals"},
	"COPPER": {"Materials", "Mining"},
	"WHEAT":  {"Agriculture"},
	"CORN":   {"Agriculture"},
}

// commoditySectors resolves the affinity entry for a commodity symbol,
// case-insensitively, trying the full symbol before its first token
// (covers symbols like "GC Gold Futures").
func commoditySectors(symbol string) []string {
	upper := strings.ToUpper(symbol)
	if sectors, ok := commoditySectorAffinity[upper]; ok {
		return sectors
	}
	if token, _, found := strings.Cut(upper, " "); found {
		if sectors, ok := commoditySectorAffinity[token]; ok {
			return sectors
		}
	}
	return nil
}

// Infer decides the relationships between one unordered pair of assets. All
// matching rules are emitted, not just the first. Orientation-sensitive rules
// are checked in both orientations so callers visit each pair exactly once;
// the resulting directional edges remain one-way.
func Infer(a, b core.Asset) []Inferred {
	var out []Inferred

	// Same sector, both non-empty.
	if a.Sector != "" && a.Sector == b.Sector {
		out = append(out, Inferred{
			SourceID: a.ID, TargetID: b.ID,
			Type: RelSameSector, Strength: 0.7, Bidirectional: true,
		})
	}

	// Exposure of an asset to the currency it is denominated in.
	if b.Class == core.ClassCurrency && a.Currency == b.Symbol {
		out = append(out, Inferred{
			SourceID: a.ID, TargetID: b.ID,
			Type: RelCurrencyExposure, Strength: 0.8,
		})
	}
	if a.Class == core.ClassCurrency && b.Currency == a.Symbol {
		out = append(out, Inferred{
			SourceID: b.ID, TargetID: a.ID,
			Type: RelCurrencyExposure, Strength: 0.8,
		})
	}

	// Corporate bond to its issuer's equity.
	if a.Bond != nil && b.Class == core.ClassEquity && a.Bond.IssuerID == b.ID {
		out = append(out, Inferred{
			SourceID: a.ID, TargetID: b.ID,
			Type: RelCorporateBondToEquity, Strength: 0.9,
		})
	}
	if b.Bond != nil && a.Class == core.ClassEquity && b.Bond.IssuerID == a.ID {
		out = append(out, Inferred{
			SourceID: b.ID, TargetID: a.ID,
			Type: RelCorporateBondToEquity, Strength: 0.9,
		})
	}

	// Commodity to equities in its affine sectors.
	if a.Class == core.ClassCommodity && b.Class == core.ClassEquity && sectorMatches(a.Symbol, b.Sector) {
		out = append(out, Inferred{
			SourceID: a.ID, TargetID: b.ID,
			Type: RelCommodityExposure, Strength: 0.6,
		})
	}
	if b.Class == core.ClassCommodity && a.Class == core.ClassEquity && sectorMatches(b.Symbol, a.Sector) {
		out = append(out, Inferred{
			SourceID: b.ID, TargetID: a.ID,
			Type: RelCommodityExposure, Strength: 0.6,
		})
	}

	// Dividend yield vs bond yield: the closer the two incomes, the stronger
	// the link.
	if rel, ok := incomeComparison(a, b); ok {
		out = append(out, rel)
	} else if rel, ok := incomeComparison(b, a); ok {
		out = append(out, rel)
	}

	return out
}

func sectorMatches(commoditySymbol, sector string) bool {
	if sector == "" {
		return false
	}
	for _, s := range commoditySectors(commoditySymbol) {
		if s == sector {
			return true
		}
	}
	return false
}

func incomeComparison(equity, bond core.Asset) (Inferred, bool) {
	if equity.Equity == nil || equity.Equity.DividendYield == nil {
		return Inferred{}, false
	}
	if bond.Bond == nil || bond.Bond.YieldToMaturity == nil {
		return Inferred{}, false
	}

	dy := *equity.Equity.DividendYield
	ytm := *bond.Bond.YieldToMaturity
	strength := math.Max(0, 1-math.Abs(dy-ytm)/(math.Abs(dy)+math.Abs(ytm)+1e-6))

	return Inferred{
		SourceID: equity.ID, TargetID: bond.ID,
		Type: RelIncomeComparison, Strength: strength, Bidirectional: true,
	}, true
}
