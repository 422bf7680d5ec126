// Package models defines the domain types for the trading journal.
package models

import "time"

// Market identifies the market category a trade belongs to.
type Market string

const (
	MarketCrypto      Market = "Crypto"
	MarketForex       Market = "Forex"
	MarketIndices     Market = "Indices"
	MarketStocks      Market = "Stocks"
	MarketOptions     Market = "Options"
	MarketCommodities Market = "Commodities"
)

// Direction is the side of a trade.
type Direction string

const (
	Long  Direction = "long"
	Short Direction = "short"
)

// TradeStatus is the lifecycle state of a trade.
type TradeStatus string

const (
	StatusOpen   TradeStatus = "Open"
	StatusClosed TradeStatus = "Closed"
)

// Sentiment is a discrete crowd-sentiment reading.
type Sentiment string

const (
	ExtremeEuphoria  Sentiment = "Extreme euphoria"
	Euphoria         Sentiment = "Euphoria"
	NeutralSentiment Sentiment = "Neutral"
	Pessimism        Sentiment = "Pessimism"
	ExtremePessimism Sentiment = "Extreme pessimism"
)

// TrendReading is the user's read of market structure on one timeframe.
type TrendReading string

const (
	TrendBullish TrendReading = "Bullish"
	TrendBearish TrendReading = "Bearish"
	TrendRanging TrendReading = "Ranging"
	TrendUnsure  TrendReading = "Unsure"
)

// Confirmation is a three-state answer to a yes/no question.
type Confirmation string

const (
	ConfirmYes    Confirmation = "yes"
	ConfirmNo     Confirmation = "no"
	ConfirmUnsure Confirmation = "unsure"
)

// DominanceReading places a dominance chart relative to its levels.
type DominanceReading string

const (
	AtSupport       DominanceReading = "At support"
	AtResistance    DominanceReading = "At resistance"
	MidZone         DominanceReading = "Mid zone"
	DominanceUnsure DominanceReading = "Unsure"
)

// TradeLocation records where the user was when entering the trade.
type TradeLocation string

const (
	LocationHome   TradeLocation = "Home"
	LocationWork   TradeLocation = "Work"
	LocationStreet TradeLocation = "Street"
)

// TradeDevice records the device used to enter the trade.
type TradeDevice string

const (
	DeviceLaptop TradeDevice = "Laptop"
	DevicePhone  TradeDevice = "Phone"
)

// ExecutionGrade is the letter grade derived from the quality score.
type ExecutionGrade string

const (
	GradeA ExecutionGrade = "A"
	GradeB ExecutionGrade = "B"
	GradeC ExecutionGrade = "C"
	GradeF ExecutionGrade = "F"
)

// MarketStructure holds the user's trend reads for both timeframe layers.
type MarketStructure struct {
	Macro            TrendReading `json:"macro"`
	Micro            TrendReading `json:"micro"`
	ReversalEvidence Confirmation `json:"reversalEvidence"`
	HTFLevelsChecked Confirmation `json:"htfLevelsChecked"`
}

// CryptoDominance holds dominance-chart readings, only meaningful for
// crypto trades. BTCDominance is ignored when the asset is BTC itself.
type CryptoDominance struct {
	USDTDominance DominanceReading `json:"usdtD"`
	BTCDominance  DominanceReading `json:"btcD,omitempty"`
}

// ChartImage is an attached chart screenshot.
type ChartImage struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Base64 string `json:"base64"`
}

// TradePnL is the final realized result of a closed trade.
//
// Percent is intentionally rMultiple * riskR (the originally risked
// percentage propagated through the realized R), not dollars over
// capital. Changing the formula would silently alter the meaning of
// all previously recorded analytics.
type TradePnL struct {
	Dollars   float64 `json:"dollars"`
	Percent   float64 `json:"percent"`
	RMultiple float64 `json:"rMultiple"`
}

// PartialExit is one realized reduction of an open position.
//
// Percentage is relative to the trade's ORIGINAL size, never the
// remaining size, so a sequence of partials stays interpretable
// regardless of order. PnL fields are computed at exit time and never
// recomputed.
type PartialExit struct {
	ID         string    `json:"id"`
	Percentage float64   `json:"percentage"`
	Price      float64   `json:"price"`
	DateTime   time.Time `json:"dateTime"`
	Note       string    `json:"note,omitempty"`
	PnLDollars float64   `json:"pnlDollars"`
	PnLR       float64   `json:"pnlR"`
}

// Trade is the central entity: one discretionary position.
type Trade struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"createdAt"`
	TradeDateTime time.Time `json:"tradeDateTime"`

	Status TradeStatus `json:"status"`

	AccountID string    `json:"accountId"`
	Market    Market    `json:"market"`
	Asset     string    `json:"asset"`
	Direction Direction `json:"direction"`
	Timeframe string    `json:"timeframe"`

	Setup           string `json:"setup"`
	CustomSetupName string `json:"customSetupName,omitempty"`

	MarketSentiment Sentiment        `json:"marketSentiment"`
	AssetSentiment  Sentiment        `json:"assetSentiment"`
	CryptoDominance *CryptoDominance `json:"cryptoDominance,omitempty"`

	Notes  string       `json:"notesUser"`
	Thesis string       `json:"thesis"`
	Images []ChartImage `json:"images"`

	MarketStructure MarketStructure `json:"macroTrend"`

	// RiskR is the percentage of account capital risked, not an
	// R-multiple. The name is kept for compatibility with persisted
	// data.
	RiskR       float64   `json:"riskR"`
	Entry       float64   `json:"entry"`
	StopLoss    float64   `json:"stopLoss"`
	TakeProfits []float64 `json:"takeProfits"`

	PositionSizeUnits          float64 `json:"positionSizeUnits"`
	RemainingPositionSizeUnits float64 `json:"remainingPositionSizeUnits"`

	RewardRisk float64 `json:"rr"`

	PnL          *TradePnL     `json:"pnl,omitempty"`
	PartialExits []PartialExit `json:"partialExits,omitempty"`

	ExecutionQuality ExecutionGrade `json:"executionQuality"`
	QualityScore     float64        `json:"qualityScore"`
	CoachNotes       string         `json:"coachNotes,omitempty"`

	MentalState string `json:"mentalState"`
	Reason      string `json:"reason"`
	Motive      string `json:"motive"`

	AlertsTriggered []string `json:"alertsTriggered"`

	Location TradeLocation `json:"tradeLocation,omitempty"`
	Device   TradeDevice   `json:"tradeDevice,omitempty"`

	ExitPrice    float64    `json:"exitPrice,omitempty"`
	ExitDateTime *time.Time `json:"exitDateTime,omitempty"`
	ClosingNote  string     `json:"closingNote,omitempty"`
}

// IsOpen reports whether the trade still has live position size.
func (t *Trade) IsOpen() bool {
	return t.Status == StatusOpen
}

// IsLong reports whether the trade is a long.
func (t *Trade) IsLong() bool {
	return t.Direction == Long
}
