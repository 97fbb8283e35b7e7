// Package record maps graph state to flat relational-style rows: one wide
// nullable row per asset, one row per directed relationship edge, one row per
// regulatory event.
package record

import "github.com/latticefin/lattice/internal/core"

// AssetRow is one wide row per asset. Variant-specific columns are nullable
// and only the columns of the row's class are ever set.
type AssetRow struct {
	ID         string   `json:"id"`
	Symbol     string   `json:"symbol"`
	Name       string   `json:"name"`
	AssetClass string   `json:"asset_class"`
	Sector     string   `json:"sector,omitempty"`
	Price      float64  `json:"price"`
	MarketCap  *float64 `json:"market_cap,omitempty"`
	Currency   string   `json:"currency"`

	// Equity columns
	PERatio          *float64 `json:"pe_ratio,omitempty"`
	DividendYield    *float64 `json:"dividend_yield,omitempty"`
	EarningsPerShare *float64 `json:"earnings_per_share,omitempty"`
	BookValue        *float64 `json:"book_value,omitempty"`

	// Bond columns
	YieldToMaturity *float64 `json:"yield_to_maturity,omitempty"`
	CouponRate      *float64 `json:"coupon_rate,omitempty"`
	MaturityDate    string   `json:"maturity_date,omitempty"`
	CreditRating    string   `json:"credit_rating,omitempty"`
	IssuerID        string   `json:"issuer_id,omitempty"`

	// Commodity columns
	ContractSize *float64 `json:"contract_size,omitempty"`
	Volatility   *float64 `json:"volatility,omitempty"`
	DeliveryDate string   `json:"delivery_date,omitempty"`

	// Currency columns
	ExchangeRate    *float64 `json:"exchange_rate,omitempty"`
	CentralBankRate *float64 `json:"central_bank_rate,omitempty"`
	Country         string   `json:"country,omitempty"`
}

// RelationshipRow is one row per directed edge. Rows are unique on
// (source_id, target_id, relationship_type); writing an existing key updates
// the strength in place. This is deliberately stricter than the in-memory
// graph, which de-duplicates by the full triple including strength.
type RelationshipRow struct {
	SourceID         string  `json:"source_id"`
	TargetID         string  `json:"target_id"`
	RelationshipType string  `json:"relationship_type"`
	Strength         float64 `json:"strength"`
}

// EventRow is one row per regulatory event.
type EventRow struct {
	ID            string   `json:"id"`
	AssetID       string   `json:"asset_id"`
	EventType     string   `json:"event_type"`
	Date          string   `json:"date"`
	Description   string   `json:"description"`
	ImpactScore   float64  `json:"impact_score"`
	RelatedAssets []string `json:"related_assets,omitempty"`
}

// AssetToRow flattens an asset into its wide row.
func AssetToRow(a core.Asset) AssetRow {
	row := AssetRow{
		ID:         a.ID,
		Symbol:     a.Symbol,
		Name:       a.Name,
		AssetClass: string(a.Class),
		Sector:     a.Sector,
		Price:      a.Price,
		MarketCap:  a.MarketCap,
		Currency:   a.Currency,
	}

	if d := a.Equity; d != nil {
		row.PERatio = d.PERatio
		row.DividendYield = d.DividendYield
		row.EarningsPerShare = d.EarningsPerShare
		row.BookValue = d.BookValue
	}
	if d := a.Bond; d != nil {
		row.YieldToMaturity = d.YieldToMaturity
		row.CouponRate = d.CouponRate
		row.MaturityDate = d.MaturityDate
		row.CreditRating = d.CreditRating
		row.IssuerID = d.IssuerID
	}
	if d := a.Commodity; d != nil {
		row.ContractSize = d.ContractSize
		row.Volatility = d.Volatility
		row.DeliveryDate = d.DeliveryDate
	}
	if d := a.FX; d != nil {
		row.ExchangeRate = d.ExchangeRate
		row.CentralBankRate = d.CentralBankRate
		row.Country = d.Country
	}

	return row
}

// RowToAsset reconstructs an asset from its row, revalidating at the load
// boundary through the core constructors.
func RowToAsset(row AssetRow) (core.Asset, error) {
	params := core.AssetParams{
		ID:        row.ID,
		Symbol:    row.Symbol,
		Name:      row.Name,
		Sector:    row.Sector,
		Price:     row.Price,
		MarketCap: row.MarketCap,
		Currency:  row.Currency,
	}

	switch core.AssetClass(row.AssetClass) {
	case core.ClassEquity:
		return core.NewEquity(params, core.EquityDetails{
			PERatio:          row.PERatio,
			DividendYield:    row.DividendYield,
			EarningsPerShare: row.EarningsPerShare,
			BookValue:        row.BookValue,
		})
	case core.ClassFixedIncome:
		return core.NewBond(params, core.BondDetails{
			YieldToMaturity: row.YieldToMaturity,
			CouponRate:      row.CouponRate,
			MaturityDate:    row.MaturityDate,
			CreditRating:    row.CreditRating,
			IssuerID:        row.IssuerID,
		})
	case core.ClassCommodity:
		return core.NewCommodity(params, core.CommodityDetails{
			ContractSize: row.ContractSize,
			Volatility:   row.Volatility,
			DeliveryDate: row.DeliveryDate,
		})
	case core.ClassCurrency:
		return core.NewCurrency(params, core.CurrencyDetails{
			ExchangeRate:    row.ExchangeRate,
			CentralBankRate: row.CentralBankRate,
			Country:         row.Country,
		})
	default:
		return core.Asset{}, core.WrapError(core.ErrInvalidAsset,
			errUnknownClass(row.AssetClass))
	}
}

type errUnknownClass string

func (e errUnknownClass) Error() string {
	return "unknown asset class " + string(e)
}

// EventToRow flattens a regulatory event.
func EventToRow(ev core.RegulatoryEvent) EventRow {
	return EventRow{
		ID:            ev.ID,
		AssetID:       ev.AssetID,
		EventType:     string(ev.EventType),
		Date:          ev.Date,
		Description:   ev.Description,
		ImpactScore:   ev.ImpactScore,
		RelatedAssets: ev.RelatedAssets,
	}
}

// RowToEvent reconstructs a regulatory event, revalidating on load.
func RowToEvent(row EventRow) (core.RegulatoryEvent, error) {
	return core.NewRegulatoryEvent(row.ID, row.AssetID, core.EventType(row.EventType),
		row.Date, row.Description, row.ImpactScore, row.RelatedAssets)
}
