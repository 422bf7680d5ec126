// Package analytics derives aggregate statistics from the trade journal.
// Everything here is computed from realized results only: open trades
// contribute their partial exits but never unrealized movement.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"equilibrium-coach/internal/journal"
	"equilibrium-coach/internal/models"
)

// Summary is the headline view of a trade population.
type Summary struct {
	TotalTrades   int     `json:"totalTrades"`
	OpenTrades    int     `json:"openTrades"`
	ClosedTrades  int     `json:"closedTrades"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	BreakEven     int     `json:"breakEven"`
	WinRate       float64 `json:"winRate"`
	TotalDollars  float64 `json:"totalDollars"`
	TotalR        float64 `json:"totalR"`
	AvgScore      float64 `json:"avgScore"`
	AvgRewardRisk float64 `json:"avgRewardRisk"`
}

// GroupStat aggregates realized results for one bucket key.
type GroupStat struct {
	Key          string  `json:"key"`
	Trades       int     `json:"trades"`
	Wins         int     `json:"wins"`
	WinRate      float64 `json:"winRate"`
	TotalDollars float64 `json:"totalDollars"`
	TotalR       float64 `json:"totalR"`
	AvgScore     float64 `json:"avgScore"`
}

// CurveMode selects the unit of an equity curve.
type CurveMode string

const (
	CurveDollars CurveMode = "usd"
	CurvePercent CurveMode = "percent"
	CurveR       CurveMode = "r"
)

// CurvePoint is one step of the cumulative equity curve.
type CurvePoint struct {
	Time    time.Time `json:"time"`
	Value   float64   `json:"value"`
	TradeID string    `json:"tradeId"`
}

// Summarize computes headline statistics over the given trades.
func Summarize(trades []models.Trade) Summary {
	var s Summary
	s.TotalTrades = len(trades)

	var scoreSum, rrSum float64
	var rrCount int
	for i := range trades {
		t := &trades[i]
		scoreSum += t.QualityScore
		if t.RewardRisk > 0 {
			rrSum += t.RewardRisk
			rrCount++
		}
		if t.IsOpen() {
			s.OpenTrades++
			s.TotalDollars += journal.RealizedDollars(t)
			s.TotalR += journal.RealizedR(t)
			continue
		}
		s.ClosedTrades++
		dollars := journal.RealizedDollars(t)
		s.TotalDollars += dollars
		s.TotalR += journal.RealizedR(t)
		switch {
		case dollars > 0:
			s.Wins++
		case dollars < 0:
			s.Losses++
		default:
			s.BreakEven++
		}
	}
	if s.ClosedTrades > 0 {
		s.WinRate = float64(s.Wins) / float64(s.ClosedTrades) * 100
	}
	if s.TotalTrades > 0 {
		s.AvgScore = scoreSum / float64(s.TotalTrades)
	}
	if rrCount > 0 {
		s.AvgRewardRisk = rrSum / float64(rrCount)
	}
	return s
}

// BySetup buckets closed results per setup name.
func BySetup(trades []models.Trade) []GroupStat {
	return groupBy(trades, func(t *models.Trade) string {
		if t.Setup == models.SetupOther && t.CustomSetupName != "" {
			return t.CustomSetupName
		}
		return t.Setup
	})
}

// ByMotive buckets closed results per declared motive.
func ByMotive(trades []models.Trade) []GroupStat {
	return groupBy(trades, func(t *models.Trade) string { return t.Motive })
}

// ByMentalState buckets closed results per mental state at entry.
func ByMentalState(trades []models.Trade) []GroupStat {
	return groupBy(trades, func(t *models.Trade) string { return t.MentalState })
}

// ByAsset buckets closed results per traded asset.
func ByAsset(trades []models.Trade) []GroupStat {
	return groupBy(trades, func(t *models.Trade) string { return t.Asset })
}

// ByWeekday buckets closed results by the weekday the trade was taken.
func ByWeekday(trades []models.Trade) []GroupStat {
	stats := groupBy(trades, func(t *models.Trade) string {
		return t.TradeDateTime.Weekday().String()
	})
	sortByWeekday(stats)
	return stats
}

// ByHour buckets closed results by the entry hour of day.
func ByHour(trades []models.Trade) []GroupStat {
	stats := groupBy(trades, func(t *models.Trade) string {
		return fmt.Sprintf("%02d:00", t.TradeDateTime.Hour())
	})
	sort.Slice(stats, func(i, j int) bool { return stats[i].Key < stats[j].Key })
	return stats
}

// ByMonth buckets closed results by calendar month of entry.
func ByMonth(trades []models.Trade) []GroupStat {
	stats := groupBy(trades, func(t *models.Trade) string {
		return t.TradeDateTime.Format("2006-01")
	})
	sort.Slice(stats, func(i, j int) bool { return stats[i].Key < stats[j].Key })
	return stats
}

// ByWeekOfMonth buckets closed results by which week of the month the
// trade was taken (week 1 starts on the 1st).
func ByWeekOfMonth(trades []models.Trade) []GroupStat {
	stats := groupBy(trades, func(t *models.Trade) string {
		week := (t.TradeDateTime.Day()-1)/7 + 1
		return fmt.Sprintf("Week %d", week)
	})
	sort.Slice(stats, func(i, j int) bool { return stats[i].Key < stats[j].Key })
	return stats
}

// EquityCurve returns the cumulative realized result of closed trades
// ordered by exit time. RiskR feeds the percent mode the same way the
// per-trade percent metric is derived.
func EquityCurve(trades []models.Trade, mode CurveMode) []CurvePoint {
	closed := make([]models.Trade, 0, len(trades))
	for _, t := range trades {
		if t.Status == models.StatusClosed && t.PnL != nil {
			closed = append(closed, t)
		}
	}
	sort.Slice(closed, func(i, j int) bool {
		return exitTime(&closed[i]).Before(exitTime(&closed[j]))
	})

	points := make([]CurvePoint, 0, len(closed))
	cum := 0.0
	for i := range closed {
		t := &closed[i]
		switch mode {
		case CurvePercent:
			cum += t.PnL.Percent
		case CurveR:
			cum += t.PnL.RMultiple
		default:
			cum += t.PnL.Dollars
		}
		points = append(points, CurvePoint{
			Time:    exitTime(t),
			Value:   cum,
			TradeID: t.ID,
		})
	}
	return points
}

func groupBy(trades []models.Trade, keyFn func(*models.Trade) string) []GroupStat {
	buckets := map[string]*GroupStat{}
	scoreSums := map[string]float64{}
	for i := range trades {
		t := &trades[i]
		if t.Status != models.StatusClosed {
			continue
		}
		key := keyFn(t)
		if key == "" {
			continue
		}
		g, ok := buckets[key]
		if !ok {
			g = &GroupStat{Key: key}
			buckets[key] = g
		}
		g.Trades++
		dollars := journal.RealizedDollars(t)
		g.TotalDollars += dollars
		g.TotalR += journal.RealizedR(t)
		if dollars > 0 {
			g.Wins++
		}
		scoreSums[key] += t.QualityScore
	}

	out := make([]GroupStat, 0, len(buckets))
	for key, g := range buckets {
		if g.Trades > 0 {
			g.WinRate = float64(g.Wins) / float64(g.Trades) * 100
			g.AvgScore = scoreSums[key] / float64(g.Trades)
		}
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Trades != out[j].Trades {
			return out[i].Trades > out[j].Trades
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func exitTime(t *models.Trade) time.Time {
	if t.ExitDateTime != nil {
		return *t.ExitDateTime
	}
	return t.TradeDateTime
}

func sortByWeekday(stats []GroupStat) {
	order := map[string]int{
		"Monday": 0, "Tuesday": 1, "Wednesday": 2, "Thursday": 3,
		"Friday": 4, "Saturday": 5, "Sunday": 6,
	}
	sort.Slice(stats, func(i, j int) bool {
		return order[stats[i].Key] < order[stats[j].Key]
	})
}
