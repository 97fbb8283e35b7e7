package core

import (
	"fmt"
	"regexp"
	"strings"
)

// AssetClass represents the class of a financial instrument.
type AssetClass string

const (
	ClassEquity      AssetClass = "equity"
	ClassFixedIncome AssetClass = "fixed_income"
	ClassCommodity   AssetClass = "commodity"
	ClassCurrency    AssetClass = "currency"
	ClassDerivative  AssetClass = "derivative"
)

// EventType represents the kind of a regulatory or corporate action.
type EventType string

const (
	EventEarningsReport       EventType = "earnings_report"
	EventSECFiling            EventType = "sec_filing"
	EventDividendAnnouncement EventType = "dividend_announcement"
	EventBondIssuance         EventType = "bond_issuance"
	EventAcquisition          EventType = "acquisition"
	EventBankruptcy           EventType = "bankruptcy"
)

var (
	currencyCodeRe = regexp.MustCompile(`^[A-Za-z]{3}$`)
	eventDateRe    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
)

// EquityDetails holds the equity-specific optional fields.
type EquityDetails struct {
	PERatio          *float64
	DividendYield    *float64
	EarningsPerShare *float64
	BookValue        *float64
}

// BondDetails holds the bond-specific optional fields. IssuerID is a foreign
// key to an equity's ID; it is not checked against any asset set here.
type BondDetails struct {
	YieldToMaturity *float64
	CouponRate      *float64
	MaturityDate    string
	CreditRating    string
	IssuerID        string
}

// CommodityDetails holds the commodity-specific optional fields.
type CommodityDetails struct {
	ContractSize *float64
	Volatility   *float64
	DeliveryDate string
}

// CurrencyDetails holds the currency-specific optional fields.
type CurrencyDetails struct {
	ExchangeRate    *float64
	CentralBankRate *float64
	Country         string
}

// Asset is one financial instrument record. It is a closed tagged union:
// Class selects which of the detail pointers is set (at most one). An asset
// is a value object after construction; updates replace the whole record.
type Asset struct {
	ID        string
	Symbol    string
	Name      string
	Class     AssetClass
	Sector    string
	Price     float64
	MarketCap *float64
	Currency  string

	Equity    *EquityDetails
	Bond      *BondDetails
	Commodity *CommodityDetails
	FX        *CurrencyDetails
}

// AssetParams holds the common fields shared by every asset variant.
type AssetParams struct {
	ID        string
	Symbol    string
	Name      string
	Sector    string
	Price     float64
	MarketCap *float64
	Currency  string // 3-letter ISO code, defaults to "USD"
}

func newAsset(p AssetParams, class AssetClass) (Asset, error) {
	if p.ID == "" {
		return Asset{}, WrapError(ErrInvalidAsset, fmt.Errorf("id must not be empty"))
	}
	if p.Symbol == "" {
		return Asset{}, WrapError(ErrInvalidAsset, fmt.Errorf("symbol must not be empty"))
	}
	if p.Name == "" {
		return Asset{}, WrapError(ErrInvalidAsset, fmt.Errorf("name must not be empty"))
	}
	if p.Price < 0 {
		return Asset{}, WrapError(ErrInvalidAsset, fmt.Errorf("price must not be negative, got %f", p.Price))
	}
	if p.MarketCap != nil && *p.MarketCap < 0 {
		return Asset{}, WrapError(ErrInvalidAsset, fmt.Errorf("market_cap must not be negative, got %f", *p.MarketCap))
	}

	currency := p.Currency
	if currency == "" {
		currency = "USD"
	}
	if !currencyCodeRe.MatchString(currency) {
		return Asset{}, WrapError(ErrInvalidAsset, fmt.Errorf("currency must be a 3-letter ISO code, got %q", p.Currency))
	}

	return Asset{
		ID:        p.ID,
		Symbol:    p.Symbol,
		Name:      p.Name,
		Class:     class,
		Sector:    p.Sector,
		Price:     p.Price,
		MarketCap: p.MarketCap,
		Currency:  strings.ToUpper(currency),
	}, nil
}

// NewEquity constructs an equity asset.
func NewEquity(p AssetParams, d EquityDetails) (Asset, error) {
	a, err := newAsset(p, ClassEquity)
	if err != nil {
		return Asset{}, err
	}
	a.Equity = &d
	return a, nil
}

// NewBond constructs a fixed-income asset.
func NewBond(p AssetParams, d BondDetails) (Asset, error) {
	a, err := newAsset(p, ClassFixedIncome)
	if err != nil {
		return Asset{}, err
	}
	a.Bond = &d
	return a, nil
}

// NewCommodity constructs a commodity asset.
func NewCommodity(p AssetParams, d CommodityDetails) (Asset, error) {
	a, err := newAsset(p, ClassCommodity)
	if err != nil {
		return Asset{}, err
	}
	a.Commodity = &d
	return a, nil
}

// NewCurrency constructs a currency asset. Symbol carries the ISO code the
// asset trades as (e.g. "EUR"), distinct from the quote Currency field.
func NewCurrency(p AssetParams, d CurrencyDetails) (Asset, error) {
	a, err := newAsset(p, ClassCurrency)
	if err != nil {
		return Asset{}, err
	}
	a.FX = &d
	return a, nil
}

// AdditionalFields returns the non-empty variant-specific fields as a flat
// map, keyed by their wire names. The allow-list is co-located with each
// variant rather than probed by reflection.
func (a Asset) AdditionalFields() map[string]any {
	fields := make(map[string]any)

	putFloat := func(key string, v *float64) {
		if v != nil {
			fields[key] = *v
		}
	}
	putString := func(key, v string) {
		if v != "" {
			fields[key] = v
		}
	}

	switch a.Class {
	case ClassEquity:
		if d := a.Equity; d != nil {
			putFloat("pe_ratio", d.PERatio)
			putFloat("dividend_yield", d.DividendYield)
			putFloat("earnings_per_share", d.EarningsPerShare)
			putFloat("book_value", d.BookValue)
		}
	case ClassFixedIncome:
		if d := a.Bond; d != nil {
			putFloat("yield_to_maturity", d.YieldToMaturity)
			putFloat("coupon_rate", d.CouponRate)
			putString("maturity_date", d.MaturityDate)
			putString("credit_rating", d.CreditRating)
			putString("issuer_id", d.IssuerID)
		}
	case ClassCommodity:
		if d := a.Commodity; d != nil {
			putFloat("contract_size", d.ContractSize)
			putFloat("volatility", d.Volatility)
			putString("delivery_date", d.DeliveryDate)
		}
	case ClassCurrency:
		if d := a.FX; d != nil {
			putFloat("exchange_rate", d.ExchangeRate)
			putFloat("central_bank_rate", d.CentralBankRate)
			putString("country", d.Country)
		}
	}

	return fields
}

// RegulatoryEvent is a dated corporate/regulatory action tied to a primary
// asset. RelatedAssets seed directed relationships when the event is added to
// a graph; the ids are not validated against any asset set.
type RegulatoryEvent struct {
	ID            string
	AssetID       string
	EventType     EventType
	Date          string // ISO-8601 date prefix, "YYYY-MM-DD..."
	Description   string
	ImpactScore   float64 // in [-1, 1]
	RelatedAssets []string
}

// NewRegulatoryEvent constructs a validated regulatory event.
func NewRegulatoryEvent(id, assetID string, eventType EventType, date, description string, impactScore float64, relatedAssets []string) (RegulatoryEvent, error) {
	if id == "" {
		return RegulatoryEvent{}, WrapError(ErrInvalidEvent, fmt.Errorf("id must not be empty"))
	}
	if description == "" {
		return RegulatoryEvent{}, WrapError(ErrInvalidEvent, fmt.Errorf("description must not be empty"))
	}
	if impactScore < -1 || impactScore > 1 {
		return RegulatoryEvent{}, WrapError(ErrInvalidEvent, fmt.Errorf("impact_score must be in [-1, 1], got %f", impactScore))
	}
	if !eventDateRe.MatchString(date) {
		return RegulatoryEvent{}, WrapError(ErrInvalidEvent, fmt.Errorf("date must start with YYYY-MM-DD, got %q", date))
	}

	return RegulatoryEvent{
		ID:            id,
		AssetID:       assetID,
		EventType:     eventType,
		Date:          date,
		Description:   description,
		ImpactScore:   impactScore,
		RelatedAssets: relatedAssets,
	}, nil
}
