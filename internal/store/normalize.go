package store

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"equilibrium-coach/internal/models"
)

// Persisted data can predate the current schema or contain values a
// buggy writer left behind. Every load path must pass through these
// normalizers so the rest of the code never sees a half-formed record.

var closedAliases = map[string]bool{
	"closed": true,
	"close":  true,
	"done":   true,
	"final":  true,
}

// NormalizeTrade repairs a decoded trade in place and returns it.
func NormalizeTrade(t models.Trade) models.Trade {
	if strings.TrimSpace(t.ID) == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	if t.TradeDateTime.IsZero() {
		t.TradeDateTime = t.CreatedAt
	}
	t.Status = normalizeStatus(t.Status)
	if t.Direction != models.Long && t.Direction != models.Short {
		t.Direction = models.Long
	}
	if t.Market == "" {
		t.Market = models.MarketForex
	}
	if t.Timeframe == "" {
		t.Timeframe = "1h"
	}
	if t.MarketSentiment == "" {
		t.MarketSentiment = models.NeutralSentiment
	}
	if t.AssetSentiment == "" {
		t.AssetSentiment = models.NeutralSentiment
	}
	t.MarketStructure = normalizeStructure(t.MarketStructure)

	if !isFinite(t.RiskR) || t.RiskR <= 0 {
		t.RiskR = 1
	}
	t.Entry = finiteOrZero(t.Entry)
	t.StopLoss = finiteOrZero(t.StopLoss)
	if len(t.TakeProfits) == 0 {
		t.TakeProfits = []float64{0}
	}
	for i := range t.TakeProfits {
		t.TakeProfits[i] = finiteOrZero(t.TakeProfits[i])
	}
	t.RewardRisk = finiteOrZero(t.RewardRisk)
	t.PositionSizeUnits = finiteOrZero(t.PositionSizeUnits)

	t.PartialExits = normalizePartials(t.PartialExits)

	switch {
	case t.Status == models.StatusClosed:
		t.RemainingPositionSizeUnits = 0
	case !isFinite(t.RemainingPositionSizeUnits) ||
		t.RemainingPositionSizeUnits < 0 ||
		t.RemainingPositionSizeUnits > t.PositionSizeUnits:
		t.RemainingPositionSizeUnits = remainingFromPartials(t)
	case t.RemainingPositionSizeUnits == 0 && len(t.PartialExits) == 0:
		t.RemainingPositionSizeUnits = t.PositionSizeUnits
	}

	if t.PnL != nil {
		t.PnL.Dollars = finiteOrZero(t.PnL.Dollars)
		t.PnL.Percent = finiteOrZero(t.PnL.Percent)
		t.PnL.RMultiple = finiteOrZero(t.PnL.RMultiple)
	}

	if t.ExecutionQuality == "" {
		t.ExecutionQuality = models.GradeC
	}
	if !isFinite(t.QualityScore) || t.QualityScore < 1 || t.QualityScore > 10 {
		t.QualityScore = 5
	}
	if t.MentalState == "" {
		t.MentalState = "Neutral"
	}
	if t.AlertsTriggered == nil {
		t.AlertsTriggered = []string{}
	}
	return t
}

// NormalizeTrades applies NormalizeTrade to every element.
func NormalizeTrades(trades []models.Trade) []models.Trade {
	for i := range trades {
		trades[i] = NormalizeTrade(trades[i])
	}
	return trades
}

// NormalizeProfile fills structural gaps left by older profile versions.
func NormalizeProfile(p *models.UserProfile) *models.UserProfile {
	if p == nil {
		return nil
	}
	if p.TraderStyle == "" {
		p.TraderStyle = models.DayTrader
	}
	if p.SetupsByAccount == nil {
		p.SetupsByAccount = map[string][]string{}
	}
	if p.AssetsByAccount == nil {
		p.AssetsByAccount = map[string][]string{}
	}
	for i := range p.Accounts {
		acct := &p.Accounts[i]
		if strings.TrimSpace(acct.ID) == "" {
			acct.ID = uuid.NewString()
		}
		if acct.Currency == "" {
			acct.Currency = "USD"
		}
		if !isFinite(acct.StartingCapital) || acct.StartingCapital < 0 {
			acct.StartingCapital = 0
		}
		if !isFinite(acct.CurrentCapital) || acct.CurrentCapital <= 0 {
			acct.CurrentCapital = acct.StartingCapital
		}
	}
	return p
}

func normalizeStatus(s models.TradeStatus) models.TradeStatus {
	if s == models.StatusClosed || closedAliases[strings.ToLower(string(s))] {
		return models.StatusClosed
	}
	return models.StatusOpen
}

func normalizeStructure(ms models.MarketStructure) models.MarketStructure {
	if !validTrend(ms.Macro) {
		ms.Macro = models.TrendUnsure
	}
	if !validTrend(ms.Micro) {
		ms.Micro = models.TrendUnsure
	}
	if !validConfirmation(ms.ReversalEvidence) {
		ms.ReversalEvidence = models.ConfirmUnsure
	}
	if !validConfirmation(ms.HTFLevelsChecked) {
		ms.HTFLevelsChecked = models.ConfirmUnsure
	}
	return ms
}

func normalizePartials(partials []models.PartialExit) []models.PartialExit {
	if len(partials) == 0 {
		return partials
	}
	out := partials[:0]
	for _, p := range partials {
		if !isFinite(p.Percentage) || p.Percentage <= 0 || p.Percentage > 100 {
			continue
		}
		if !isFinite(p.Price) || p.Price <= 0 {
			continue
		}
		if strings.TrimSpace(p.ID) == "" {
			p.ID = uuid.NewString()
		}
		p.PnLDollars = finiteOrZero(p.PnLDollars)
		p.PnLR = finiteOrZero(p.PnLR)
		out = append(out, p)
	}
	return out
}

func remainingFromPartials(t models.Trade) float64 {
	closed := 0.0
	for _, p := range t.PartialExits {
		closed += p.Percentage / 100 * t.PositionSizeUnits
	}
	rem := t.PositionSizeUnits - closed
	if rem < 0 {
		return 0
	}
	return rem
}

func validTrend(tr models.TrendReading) bool {
	switch tr {
	case models.TrendBullish, models.TrendBearish, models.TrendRanging, models.TrendUnsure:
		return true
	}
	return false
}

func validConfirmation(c models.Confirmation) bool {
	switch c {
	case models.ConfirmYes, models.ConfirmNo, models.ConfirmUnsure:
		return true
	}
	return false
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finiteOrZero(v float64) float64 {
	if !isFinite(v) {
		return 0
	}
	return v
}
