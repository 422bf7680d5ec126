// Package journal implements the trade lifecycle engine: position
// accounting, the partial exit ledger, and trade closure.
package journal

import (
	"math"

	"equilibrium-coach/internal/models"
)

const (
	// epsilon is the tolerance used for remaining-size comparisons.
	epsilon = 1e-9
	// unitsScale rounds unit quantities to 8 decimal places to keep
	// repeated partial exits from accumulating floating drift.
	unitsScale = 1e8
)

func roundUnits(n float64) float64 {
	return math.Round(n*unitsScale) / unitsScale
}

func clampToZero(n float64) float64 {
	if n < 0 {
		return 0
	}
	return n
}

// ComputeDollars converts a price move into realized dollars for the
// given unit quantity. Pure function, no side effects.
func ComputeDollars(entry, exitPrice, units float64, direction models.Direction) float64 {
	multiplier := 1.0
	if direction == models.Short {
		multiplier = -1.0
	}
	return (exitPrice - entry) * units * multiplier
}

// InitialRiskAmount is the dollar amount at risk between entry and stop
// across the original position. It is the denominator for every
// R-multiple conversion. A zero result marks a degenerate trade (entry
// equals stop); callers must treat R as zero instead of dividing.
func InitialRiskAmount(t *models.Trade) float64 {
	return math.Abs(t.Entry-t.StopLoss) * t.PositionSizeUnits
}

// FinalPnL derives the closed trade's aggregate result from the total
// realized dollars. Percent is rMultiple * riskR, the proxy metric the
// journal has always recorded, not dollars over capital.
func FinalPnL(t *models.Trade, realizedDollars float64) models.TradePnL {
	risk := InitialRiskAmount(t)
	rMultiple := 0.0
	if risk != 0 {
		rMultiple = realizedDollars / risk
	}
	return models.TradePnL{
		Dollars:   realizedDollars,
		Percent:   rMultiple * t.RiskR,
		RMultiple: rMultiple,
	}
}

// PositionSize computes the unit quantity that risks riskPercent of
// capital between entry and stop. Zero when the stop distance is zero.
func PositionSize(capital, riskPercent, entry, stop float64) float64 {
	distance := math.Abs(entry - stop)
	if distance == 0 {
		return 0
	}
	riskAmount := capital * riskPercent / 100
	return riskAmount / distance
}

// RewardRiskRatio is the reward-to-risk ratio between entry, stop and
// the primary target. Zero when the stop distance is zero.
func RewardRiskRatio(entry, stop, target float64) float64 {
	risk := math.Abs(entry - stop)
	if risk == 0 {
		return 0
	}
	return math.Abs(target-entry) / risk
}

// RemainingUnits returns the trade's live position size, clamped and
// rounded the same way every mutation rounds it.
func RemainingUnits(t *models.Trade) float64 {
	return roundUnits(clampToZero(t.RemainingPositionSizeUnits))
}

// SumPartialDollars totals the realized dollars across the ledger.
func SumPartialDollars(t *models.Trade) float64 {
	var total float64
	for _, p := range t.PartialExits {
		total += p.PnLDollars
	}
	return total
}

// SumPartialR totals the realized R across the ledger.
func SumPartialR(t *models.Trade) float64 {
	var total float64
	for _, p := range t.PartialExits {
		total += p.PnLR
	}
	return total
}

// RealizedDollars is the trade's realized result so far: the final pnl
// once closed, otherwise whatever the partial exits have banked.
func RealizedDollars(t *models.Trade) float64 {
	if t.Status == models.StatusClosed {
		if t.PnL != nil {
			return t.PnL.Dollars
		}
		return 0
	}
	return SumPartialDollars(t)
}

// RealizedR mirrors RealizedDollars in R-multiples.
func RealizedR(t *models.Trade) float64 {
	if t.Status == models.StatusClosed {
		if t.PnL != nil {
			return t.PnL.RMultiple
		}
		return 0
	}
	return SumPartialR(t)
}

// RealizedPercent is only defined once the trade is closed.
func RealizedPercent(t *models.Trade) float64 {
	if t.Status == models.StatusClosed && t.PnL != nil {
		return t.PnL.Percent
	}
	return 0
}
