package scoring

import (
	"math"
	"testing"
	"time"

	"equilibrium-coach/internal/models"
)

// cleanTrade is a disciplined long with nothing to flag: standard risk,
// good RR, evidence, thesis, aligned structure, calm state.
func cleanTrade() *models.Trade {
	return &models.Trade{
		Market:          models.MarketForex,
		Asset:           "EURUSD",
		Direction:       models.Long,
		Setup:           "Pullback",
		RiskR:           1,
		RewardRisk:      2.5,
		Thesis:          "pullback to demand inside an uptrend",
		Images:          []models.ChartImage{{Name: "chart.png"}},
		MarketSentiment: models.NeutralSentiment,
		AssetSentiment:  models.NeutralSentiment,
		MarketStructure: models.MarketStructure{
			Macro: models.TrendBullish,
			Micro: models.TrendBullish,
		},
		Motive:      "Following my plan",
		MentalState: "Calm",
		Location:    models.LocationHome,
		Device:      models.DeviceLaptop,
	}
}

func dayTraderProfile() *models.UserProfile {
	return &models.UserProfile{TraderStyle: models.DayTrader}
}

func TestEvaluateCleanTrade(t *testing.T) {
	ev := Evaluate(cleanTrade(), dayTraderProfile(), nil)

	// base 7.0 + RR 0.2 + aligned trend 0.2 + typified setup 0.1 + calm 0.1
	if ev.Score != 7.6 {
		t.Errorf("Score = %v, want 7.6", ev.Score)
	}
	if ev.Grade != models.GradeB {
		t.Errorf("Grade = %v, want B", ev.Grade)
	}
	if len(ev.Alerts) != 0 {
		t.Errorf("Alerts = %v, want none for a clean trade", ev.Alerts)
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	tr := cleanTrade()
	tr.MentalState = "FOMO"
	tr.Motive = "Recover a loss"

	first := Evaluate(tr, dayTraderProfile(), nil)
	for i := 0; i < 5; i++ {
		again := Evaluate(tr, dayTraderProfile(), nil)
		if again.Score != first.Score || again.Grade != first.Grade {
			t.Fatalf("evaluation changed between runs: %v vs %v", again, first)
		}
		if len(again.Breakdown) != len(first.Breakdown) {
			t.Fatal("breakdown order not stable")
		}
	}
}

func TestRiskRule(t *testing.T) {
	tests := []struct {
		risk       float64
		wantImpact float64
	}{
		{1, 0},
		{3, 0},
		{3.5, -0.5},
		{4.5, -1.2},
		{6, -2.2},
	}

	for _, tt := range tests {
		tr := cleanTrade()
		tr.RiskR = tt.risk
		ev := Evaluate(tr, dayTraderProfile(), nil)
		got := impactOf(ev, RuleRiskInR)
		if got != tt.wantImpact {
			t.Errorf("risk %v: impact = %v, want %v", tt.risk, got, tt.wantImpact)
		}
	}
}

func TestRewardRiskRuleStyleGate(t *testing.T) {
	tr := cleanTrade()
	tr.RewardRisk = 9

	// A day trader claiming RR above 8 gets flagged.
	ev := Evaluate(tr, dayTraderProfile(), nil)
	if impactOf(ev, RuleRiskReward) != -0.6 {
		t.Errorf("day trader RR 9 impact = %v, want -0.6", impactOf(ev, RuleRiskReward))
	}

	// Swing and position traders legitimately target wide RR.
	for _, style := range []models.TraderStyle{models.SwingTrader, models.PositionTrader} {
		ev = Evaluate(tr, &models.UserProfile{TraderStyle: style}, nil)
		if impactOf(ev, RuleRiskReward) != 0 {
			t.Errorf("%s RR 9 impact = %v, want 0", style, impactOf(ev, RuleRiskReward))
		}
	}
}

func TestRewardRiskBelowOneIsRed(t *testing.T) {
	tr := cleanTrade()
	tr.RewardRisk = 0.8

	ev := Evaluate(tr, dayTraderProfile(), nil)
	if impactOf(ev, RuleRiskReward) != -2.0 {
		t.Errorf("impact = %v, want -2.0", impactOf(ev, RuleRiskReward))
	}
	// single critical red caps at 8.0 but the raw score is already lower
	if ev.Score > 8.0 {
		t.Errorf("Score = %v, want <= 8.0", ev.Score)
	}
}

func TestTrendRules(t *testing.T) {
	t.Run("against both trends", func(t *testing.T) {
		tr := cleanTrade()
		tr.MarketStructure.Macro = models.TrendBearish
		tr.MarketStructure.Micro = models.TrendBearish

		ev := Evaluate(tr, dayTraderProfile(), nil)
		if impactOf(ev, RuleTrend) != -1.4 {
			t.Errorf("trend impact = %v, want -1.4", impactOf(ev, RuleTrend))
		}
		if impactOf(ev, RuleReversalEvidence) != -0.6 {
			t.Errorf("reversal impact = %v, want -0.6", impactOf(ev, RuleReversalEvidence))
		}
	})

	t.Run("reversal evidence spares the penalty", func(t *testing.T) {
		tr := cleanTrade()
		tr.MarketStructure.Macro = models.TrendBearish
		tr.MarketStructure.Micro = models.TrendBearish
		tr.MarketStructure.ReversalEvidence = models.ConfirmYes

		ev := Evaluate(tr, dayTraderProfile(), nil)
		if impactOf(ev, RuleReversalEvidence) != 0 {
			t.Errorf("reversal impact = %v, want 0", impactOf(ev, RuleReversalEvidence))
		}
	})

	t.Run("unsure earns nothing", func(t *testing.T) {
		tr := cleanTrade()
		tr.MarketStructure.Macro = models.TrendUnsure

		ev := Evaluate(tr, dayTraderProfile(), nil)
		if impactOf(ev, RuleTrend) != 0 {
			t.Errorf("trend impact = %v, want 0 when unsure", impactOf(ev, RuleTrend))
		}
	})
}

func TestPsychologyRule(t *testing.T) {
	tests := []struct {
		state      string
		wantImpact float64
	}{
		{"FOMO", -1.2},
		{"Revenge", -1.2},
		{"Anxiety", -0.5},
		{"Uncertainty", -0.5},
		{"Fear", -0.5},
		{"Calm", 0.1},
		{"Confident", 0.1},
		{"Neutral", 0},
	}

	for _, tt := range tests {
		tr := cleanTrade()
		tr.MentalState = tt.state
		ev := Evaluate(tr, dayTraderProfile(), nil)
		if got := impactOf(ev, RulePsychology); got != tt.wantImpact {
			t.Errorf("%s: impact = %v, want %v", tt.state, got, tt.wantImpact)
		}
	}
}

func TestRepeatedPatternRule(t *testing.T) {
	closedWith := func(motive, state string) models.Trade {
		return models.Trade{Status: models.StatusClosed, Motive: motive, MentalState: state}
	}

	t.Run("three repeats is red", func(t *testing.T) {
		tr := cleanTrade()
		tr.Motive = "FOMO"
		history := []models.Trade{
			closedWith("FOMO", "Calm"),
			closedWith("FOMO", "Calm"),
			closedWith("FOMO", "Calm"),
		}
		ev := Evaluate(tr, dayTraderProfile(), history)
		if impactOf(ev, RuleRepeatedPattern) != -0.8 {
			t.Errorf("impact = %v, want -0.8", impactOf(ev, RuleRepeatedPattern))
		}
	})

	t.Run("two repeats is a warning", func(t *testing.T) {
		tr := cleanTrade()
		tr.MentalState = "Revenge"
		history := []models.Trade{
			closedWith("Following my plan", "Revenge"),
			closedWith("Following my plan", "Revenge"),
		}
		ev := Evaluate(tr, dayTraderProfile(), history)
		if impactOf(ev, RuleRepeatedPattern) != -0.4 {
			t.Errorf("impact = %v, want -0.4", impactOf(ev, RuleRepeatedPattern))
		}
	})

	t.Run("open trades do not count", func(t *testing.T) {
		tr := cleanTrade()
		tr.Motive = "FOMO"
		history := []models.Trade{
			{Status: models.StatusOpen, Motive: "FOMO"},
			{Status: models.StatusOpen, Motive: "FOMO"},
			{Status: models.StatusOpen, Motive: "FOMO"},
		}
		ev := Evaluate(tr, dayTraderProfile(), history)
		if impactOf(ev, RuleRepeatedPattern) != 0 {
			t.Errorf("impact = %v, want 0", impactOf(ev, RuleRepeatedPattern))
		}
	})

	t.Run("only the last ten closed count", func(t *testing.T) {
		tr := cleanTrade()
		tr.Motive = "FOMO"
		history := []models.Trade{
			closedWith("FOMO", "Calm"),
			closedWith("FOMO", "Calm"),
			closedWith("FOMO", "Calm"),
		}
		// ten newer clean closed trades push the FOMO ones out
		for i := 0; i < 10; i++ {
			history = append(history, closedWith("Following my plan", "Calm"))
		}
		ev := Evaluate(tr, dayTraderProfile(), history)
		if impactOf(ev, RuleRepeatedPattern) != 0 {
			t.Errorf("impact = %v, want 0 outside the window", impactOf(ev, RuleRepeatedPattern))
		}
	})

	t.Run("window follows dates, not slice position", func(t *testing.T) {
		tr := cleanTrade()
		tr.Motive = "FOMO"
		now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

		// Newest first, as a store load returns them: three recent
		// FOMO trades ahead of ten older clean ones.
		var history []models.Trade
		for i := 0; i < 3; i++ {
			h := closedWith("FOMO", "Calm")
			h.TradeDateTime = now.Add(-time.Duration(i) * time.Hour)
			history = append(history, h)
		}
		for i := 0; i < 10; i++ {
			h := closedWith("Following my plan", "Calm")
			h.TradeDateTime = now.Add(-time.Duration(24+i) * time.Hour)
			history = append(history, h)
		}

		ev := Evaluate(tr, dayTraderProfile(), history)
		if impactOf(ev, RuleRepeatedPattern) != -0.8 {
			t.Errorf("impact = %v, want -0.8 for three recent repeats", impactOf(ev, RuleRepeatedPattern))
		}

		// Oldest first must produce the same answer.
		reversed := make([]models.Trade, 0, len(history))
		for i := len(history) - 1; i >= 0; i-- {
			reversed = append(reversed, history[i])
		}
		ev = Evaluate(tr, dayTraderProfile(), reversed)
		if impactOf(ev, RuleRepeatedPattern) != -0.8 {
			t.Errorf("impact = %v, want -0.8 regardless of load order", impactOf(ev, RuleRepeatedPattern))
		}
	})
}

func TestCryptoStructureRules(t *testing.T) {
	t.Run("btc dominance skipped for btc itself", func(t *testing.T) {
		tr := cleanTrade()
		tr.Market = models.MarketCrypto
		tr.Asset = "BTC/USDT"
		tr.CryptoDominance = &models.CryptoDominance{
			USDTDominance: models.MidZone,
			BTCDominance:  models.AtSupport,
		}
		ev := Evaluate(tr, dayTraderProfile(), nil)
		if impactOf(ev, RuleCryptoStructure) != 0 {
			t.Errorf("impact = %v, want 0 (BTC.D ignored for BTC)", impactOf(ev, RuleCryptoStructure))
		}
	})

	t.Run("altcoin long against btc dominance support", func(t *testing.T) {
		tr := cleanTrade()
		tr.Market = models.MarketCrypto
		tr.Asset = "SOL/USDT"
		tr.CryptoDominance = &models.CryptoDominance{
			USDTDominance: models.MidZone,
			BTCDominance:  models.AtSupport,
		}
		ev := Evaluate(tr, dayTraderProfile(), nil)
		if impactOf(ev, RuleCryptoStructure) != -0.8 {
			t.Errorf("impact = %v, want -0.8", impactOf(ev, RuleCryptoStructure))
		}
	})

	t.Run("no dominance data means no rule", func(t *testing.T) {
		tr := cleanTrade()
		tr.Market = models.MarketCrypto
		tr.Asset = "SOL/USDT"
		tr.CryptoDominance = nil
		ev := Evaluate(tr, dayTraderProfile(), nil)
		if impactOf(ev, RuleCryptoStructure) != 0 {
			t.Errorf("impact = %v, want 0 without dominance data", impactOf(ev, RuleCryptoStructure))
		}
	})
}

func TestRedCapPostProcessing(t *testing.T) {
	t.Run("single critical red caps at 8", func(t *testing.T) {
		// Only one red (negative setup, critical set), everything else
		// positive, so the raw score would exceed the cap arithmetic.
		tr := cleanTrade()
		tr.Setup = "FOMO"

		ev := Evaluate(tr, dayTraderProfile(), nil)
		if ev.Score > 8.0 {
			t.Errorf("Score = %v, want <= 8.0 with one critical red", ev.Score)
		}
		if countReds(ev) != 1 {
			t.Fatalf("red count = %d, want 1", countReds(ev))
		}
	})

	t.Run("two reds cap at 7", func(t *testing.T) {
		tr := cleanTrade()
		tr.Setup = "FOMO"
		tr.MentalState = "Revenge"

		ev := Evaluate(tr, dayTraderProfile(), nil)
		if ev.Score > 7.0 {
			t.Errorf("Score = %v, want <= 7.0 with two reds", ev.Score)
		}
	})
}

func TestScoreBoundsAndRounding(t *testing.T) {
	// pile every penalty on one trade: the score must clamp at 1.0
	tr := cleanTrade()
	tr.RiskR = 10
	tr.RewardRisk = 0.5
	tr.Images = nil
	tr.Thesis = ""
	tr.MarketStructure.Macro = models.TrendBearish
	tr.MarketStructure.Micro = models.TrendBearish
	tr.MarketSentiment = models.ExtremeEuphoria
	tr.AssetSentiment = models.ExtremeEuphoria
	tr.Setup = "FOMO"
	tr.Motive = "Emotional impulse"
	tr.MentalState = "Revenge"
	tr.Location = models.LocationStreet
	tr.Device = models.DevicePhone

	ev := Evaluate(tr, dayTraderProfile(), nil)
	if ev.Score != 1.0 {
		t.Errorf("Score = %v, want clamp at 1.0", ev.Score)
	}
	if ev.Grade != models.GradeF {
		t.Errorf("Grade = %v, want F", ev.Grade)
	}
	if len(ev.Alerts) == 0 {
		t.Error("expected alerts for a trade this bad")
	}
}

func TestGradeFor(t *testing.T) {
	tests := []struct {
		score float64
		want  models.ExecutionGrade
	}{
		{10, models.GradeA},
		{8, models.GradeA},
		{7.9, models.GradeB},
		{6, models.GradeB},
		{5.9, models.GradeC},
		{4, models.GradeC},
		{3.9, models.GradeF},
		{1, models.GradeF},
	}

	for _, tt := range tests {
		if got := GradeFor(tt.score); got != tt.want {
			t.Errorf("GradeFor(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestAlertsMatchNonPositiveImpacts(t *testing.T) {
	tr := cleanTrade()
	tr.Images = nil
	tr.Thesis = ""

	ev := Evaluate(tr, dayTraderProfile(), nil)

	var nonBlue int
	for _, b := range ev.Breakdown {
		if b.Severity != SeverityBlue {
			nonBlue++
		}
	}
	if len(ev.Alerts) != nonBlue {
		t.Errorf("alerts = %d, non-blue entries = %d", len(ev.Alerts), nonBlue)
	}
}

func impactOf(ev Evaluation, rule string) float64 {
	var total float64
	for _, b := range ev.Breakdown {
		if b.Rule == rule {
			total += b.Impact
		}
	}
	return total
}

func countReds(ev Evaluation) int {
	n := 0
	for _, b := range ev.Breakdown {
		if b.Severity == SeverityRed {
			n++
		}
	}
	return n
}

func TestScoreAlwaysOneDecimal(t *testing.T) {
	tr := cleanTrade()
	tr.RiskR = 3.5

	ev := Evaluate(tr, dayTraderProfile(), nil)
	if math.Abs(ev.Score*10-math.Round(ev.Score*10)) > 1e-9 {
		t.Errorf("Score = %v, not rounded to one decimal", ev.Score)
	}
}
