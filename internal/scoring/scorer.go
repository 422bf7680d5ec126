// Package scoring grades the discipline and context of a trade at
// creation time, producing a 1.0-10.0 quality score with an auditable
// breakdown of every contributing rule.
package scoring

import (
	"math"
	"sort"
	"strings"

	"equilibrium-coach/internal/models"
)

// Severity classifies a rule hit. Blue entries are positive
// reinforcement, not warnings.
type Severity string

const (
	SeverityRed    Severity = "red"
	SeverityYellow Severity = "yellow"
	SeverityBlue   Severity = "blue"
)

// Rule names, stable identifiers used in breakdowns and analytics.
const (
	RuleRiskInR          = "Risk In R"
	RuleRiskReward       = "Risk Reward"
	RuleEvidence         = "Evidence"
	RulePlanning         = "Planning"
	RuleTrend            = "Trend"
	RuleReversalEvidence = "Reversal Evidence"
	RuleMarketSentiment  = "Market Sentiment"
	RuleAssetSentiment   = "Asset Sentiment"
	RuleSetup            = "Setup"
	RuleMotive           = "Motive"
	RulePsychology       = "Psychology"
	RuleRepeatedPattern  = "Repeated Pattern"
	RuleCryptoStructure  = "Crypto Structure"
	RuleOperatingContext = "Operating Context"
	RuleDevice           = "Device"
)

// criticalRules is the risk/psychology subset: a single red hit from
// one of these still caps the final score at 8.0.
var criticalRules = map[string]bool{
	RuleRiskReward:      true,
	RuleRiskInR:         true,
	RulePsychology:      true,
	RuleMotive:          true,
	RuleRepeatedPattern: true,
	RuleCryptoStructure: true,
	RuleSetup:           true,
	RuleTrend:           true,
}

// Impact is one rule's contribution to the score.
type Impact struct {
	Rule     string   `json:"rule"`
	Impact   float64  `json:"impact"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Evaluation is the frozen scoring output stored on the trade.
type Evaluation struct {
	Score     float64               `json:"score"`
	Grade     models.ExecutionGrade `json:"grade"`
	Breakdown []Impact              `json:"breakdown"`
	Alerts    []string              `json:"alerts"`
}

const (
	baseScore = 7.0
	minScore  = 1.0
	maxScore  = 10.0

	// historyWindow is how many recently closed trades feed the
	// repeated-pattern rule.
	historyWindow = 10
)

// unstableStates are the mental states the repeated-pattern rule
// treats as recurring instability.
var unstableStates = map[string]bool{
	"FOMO":    true,
	"Revenge": true,
	"Anxiety": true,
}

type evaluator struct {
	score       float64
	breakdown   []Impact
	redCount    int
	criticalRed bool
}

func (e *evaluator) add(rule string, impact float64, severity Severity, message string) {
	e.score += impact
	if severity == SeverityRed {
		e.redCount++
		if criticalRules[rule] {
			e.criticalRed = true
		}
	}
	e.breakdown = append(e.breakdown, Impact{
		Rule:     rule,
		Impact:   impact,
		Severity: severity,
		Message:  message,
	})
}

// Evaluate scores a trade from its declared attributes, the trader's
// profile and a window of recently closed trades. It is a pure
// function: identical inputs always yield an identical evaluation.
func Evaluate(t *models.Trade, profile *models.UserProfile, history []models.Trade) Evaluation {
	e := &evaluator{score: baseScore}

	e.riskRule(t)
	e.rewardRiskRule(t, profile)
	e.evidenceRule(t)
	e.planningRule(t)
	e.trendRules(t)
	e.marketSentimentRule(t)
	e.assetSentimentRule(t)
	e.setupRule(t)
	e.motiveRule(t)
	e.psychologyRule(t)
	e.repeatedPatternRule(t, history)
	e.cryptoStructureRules(t)
	e.operatingContextRules(t)

	final := clamp(e.score, minScore, maxScore)
	if e.redCount >= 2 {
		final = min(7.0, final)
	} else if e.redCount >= 1 && e.criticalRed {
		final = min(8.0, final)
	}
	final = round1(final)

	var alerts []string
	for _, b := range e.breakdown {
		if b.Severity != SeverityBlue {
			alerts = append(alerts, b.Message)
		}
	}

	return Evaluation{
		Score:     final,
		Grade:     GradeFor(final),
		Breakdown: e.breakdown,
		Alerts:    alerts,
	}
}

// GradeFor maps a quality score to its execution grade.
func GradeFor(score float64) models.ExecutionGrade {
	switch {
	case score >= 8:
		return models.GradeA
	case score >= 6:
		return models.GradeB
	case score >= 4:
		return models.GradeC
	default:
		return models.GradeF
	}
}

func (e *evaluator) riskRule(t *models.Trade) {
	if t.RiskR <= 0 {
		return
	}
	switch {
	case t.RiskR > 5:
		e.add(RuleRiskInR, -2.2, SeverityRed, "Risk above 5R. This is aggressive for your account.")
	case t.RiskR > 4:
		e.add(RuleRiskInR, -1.2, SeverityYellow, "Elevated risk (4 to 5R).")
	case t.RiskR > 3:
		e.add(RuleRiskInR, -0.5, SeverityYellow, "Risk above the standard (3R or more).")
	}
}

func (e *evaluator) rewardRiskRule(t *models.Trade, profile *models.UserProfile) {
	if t.Direction == "" || t.RewardRisk <= 0 {
		return
	}
	rr := t.RewardRisk
	longHorizon := profile != nil &&
		(profile.TraderStyle == models.SwingTrader || profile.TraderStyle == models.PositionTrader)
	switch {
	case rr < 1.0:
		e.add(RuleRiskReward, -2.0, SeverityRed, "RR below 1. This trade makes no statistical sense.")
	case rr < 1.5:
		e.add(RuleRiskReward, -1.0, SeverityYellow, "Low RR (1.0 to 1.5).")
	case rr < 2.0:
		e.add(RuleRiskReward, -0.3, SeverityYellow, "Acceptable but tight RR (below 2.0).")
	case rr <= 8.0:
		e.add(RuleRiskReward, 0.2, SeverityBlue, "Good reward-to-risk ratio.")
	case !longHorizon:
		e.add(RuleRiskReward, -0.6, SeverityYellow, "RR above 8. Possibly unrealistic, review your levels.")
	}
}

func (e *evaluator) evidenceRule(t *models.Trade) {
	if len(t.Images) == 0 {
		e.add(RuleEvidence, -0.8, SeverityYellow, "No chart evidence attached. Recording the chart improves your discipline.")
	}
}

func (e *evaluator) planningRule(t *models.Trade) {
	if strings.TrimSpace(t.Thesis) == "" {
		e.add(RulePlanning, -0.9, SeverityYellow, "No clear thesis. A weak plan tends to produce poor results.")
	}
}

func (e *evaluator) trendRules(t *models.Trade) {
	if t.Direction == "" {
		return
	}
	macro := t.MarketStructure.Macro
	micro := t.MarketStructure.Micro
	isLong := t.IsLong()

	macroAgainst := (isLong && macro == models.TrendBearish) || (!isLong && macro == models.TrendBullish)
	microAgainst := (isLong && micro == models.TrendBearish) || (!isLong && micro == models.TrendBullish)
	reversalConfirmed := t.MarketStructure.ReversalEvidence == models.ConfirmYes

	switch {
	case macroAgainst && microAgainst:
		e.add(RuleTrend, -1.4, SeverityRed, "Trading against both macro and micro trend. High risk.")
		if !reversalConfirmed {
			e.add(RuleReversalEvidence, -0.6, SeverityYellow, "No clear reversal evidence while trading against trend.")
		}
	case macroAgainst || microAgainst:
		e.add(RuleTrend, -0.3, SeverityYellow, "Trading against one of the main structures.")
		if macroAgainst && !reversalConfirmed {
			e.add(RuleReversalEvidence, -0.6, SeverityYellow, "Against the macro trend without clear reversal evidence.")
		}
	case macro != models.TrendUnsure && micro != models.TrendUnsure:
		e.add(RuleTrend, 0.2, SeverityBlue, "Market structure aligned.")
	}
}

func (e *evaluator) marketSentimentRule(t *models.Trade) {
	if t.Direction == "" {
		return
	}
	s := t.MarketSentiment
	if t.IsLong() {
		switch s {
		case models.ExtremeEuphoria:
			e.add(RuleMarketSentiment, -1.0, SeverityRed, "Extreme euphoria on a long. Risk of buying the top.")
		case models.Euphoria:
			e.add(RuleMarketSentiment, -0.5, SeverityYellow, "Euphoric market. Watch out for distribution.")
		case models.Pessimism:
			e.add(RuleMarketSentiment, 0.1, SeverityBlue, "Pessimistic sentiment favors buying.")
		case models.ExtremePessimism:
			e.add(RuleMarketSentiment, 0.2, SeverityBlue, "Panic in the market. Value opportunity.")
		}
		return
	}
	switch s {
	case models.ExtremePessimism:
		e.add(RuleMarketSentiment, -1.0, SeverityRed, "Extreme panic on a short. Risk of selling the bottom.")
	case models.Pessimism:
		e.add(RuleMarketSentiment, -0.5, SeverityYellow, "Pessimistic market. Watch out for violent bounces.")
	case models.Euphoria:
		e.add(RuleMarketSentiment, 0.1, SeverityBlue, "Euphoric market favors selling.")
	case models.ExtremeEuphoria:
		e.add(RuleMarketSentiment, 0.2, SeverityBlue, "Irrational euphoria. Short opportunity.")
	}
}

func (e *evaluator) assetSentimentRule(t *models.Trade) {
	if t.Direction == "" {
		return
	}
	s := t.AssetSentiment
	if t.IsLong() {
		switch s {
		case models.ExtremeEuphoria:
			e.add(RuleAssetSentiment, -0.7, SeverityRed, "Asset in extreme euphoria.")
		case models.Euphoria:
			e.add(RuleAssetSentiment, -0.3, SeverityYellow, "Euphoric asset.")
		case models.ExtremePessimism:
			e.add(RuleAssetSentiment, 0.1, SeverityBlue, "Asset in panic.")
		}
		return
	}
	switch s {
	case models.ExtremePessimism:
		e.add(RuleAssetSentiment, -0.7, SeverityRed, "Asset in extreme panic.")
	case models.Pessimism:
		e.add(RuleAssetSentiment, -0.3, SeverityYellow, "Pessimistic asset.")
	case models.ExtremeEuphoria:
		e.add(RuleAssetSentiment, 0.1, SeverityBlue, "Asset in euphoria.")
	}
}

func (e *evaluator) setupRule(t *models.Trade) {
	if t.Setup == "" {
		return
	}
	switch {
	case models.IsNegativeSetup(t.Setup):
		e.add(RuleSetup, -1.2, SeverityRed, "Negative setup selected. You are trading on influence, not a plan.")
	case t.Setup == models.SetupOther:
		e.add(RuleSetup, -0.4, SeverityYellow, "Untypified setup. Could signal a missing system.")
	default:
		e.add(RuleSetup, 0.1, SeverityBlue, "Typified strategy detected.")
	}
}

func (e *evaluator) motiveRule(t *models.Trade) {
	if t.Motive != "" && models.IsNegativeMotive(t.Motive) {
		e.add(RuleMotive, -1.0, SeverityRed, "Risky trade motive detected (emotional).")
	}
}

func (e *evaluator) psychologyRule(t *models.Trade) {
	switch t.MentalState {
	case "FOMO", "Revenge":
		e.add(RulePsychology, -1.2, SeverityRed, "Critical psychological state (FOMO or revenge). High risk of error.")
	case "Anxiety", "Uncertainty", "Fear":
		e.add(RulePsychology, -0.5, SeverityYellow, "Unstable mental state detected.")
	case "Calm", "Confident":
		e.add(RulePsychology, 0.1, SeverityBlue, "Optimal mental state for trading.")
	}
}

func (e *evaluator) repeatedPatternRule(t *models.Trade, history []models.Trade) {
	recent := lastClosed(history, historyWindow)
	if len(recent) == 0 {
		return
	}

	var motiveCount, psychCount int
	for _, prev := range recent {
		if prev.Motive == t.Motive && models.IsNegativeMotive(prev.Motive) {
			motiveCount++
		}
		if prev.MentalState == t.MentalState && unstableStates[prev.MentalState] {
			psychCount++
		}
	}

	switch {
	case motiveCount >= 3 || psychCount >= 3:
		e.add(RuleRepeatedPattern, -0.8, SeverityRed, "Repeated pattern across your recent trades. Correct it before continuing.")
	case motiveCount == 2 || psychCount == 2:
		e.add(RuleRepeatedPattern, -0.4, SeverityYellow, "Signs of a recurring negative pattern.")
	}
}

func (e *evaluator) cryptoStructureRules(t *models.Trade) {
	if t.Market != models.MarketCrypto || t.Direction == "" || t.CryptoDominance == nil {
		return
	}
	dom := t.CryptoDominance
	if t.IsLong() {
		switch dom.USDTDominance {
		case models.AtSupport:
			e.add(RuleCryptoStructure, -0.8, SeverityRed, "USDT.D at support. Risk of a broad crypto drop.")
		case models.AtResistance:
			e.add(RuleCryptoStructure, 0.1, SeverityBlue, "USDT.D at resistance favors longs.")
		}

		// BTC dominance only matters for altcoins.
		if t.Asset != "BTC/USDT" {
			switch dom.BTCDominance {
			case models.AtSupport:
				e.add(RuleCryptoStructure, -0.8, SeverityRed, "BTC.D at support. High risk for altcoins.")
			case models.AtResistance:
				e.add(RuleCryptoStructure, 0.1, SeverityBlue, "BTC.D at resistance favors altcoins.")
			}
		}
		return
	}
	if dom.USDTDominance == models.AtSupport {
		e.add(RuleCryptoStructure, 0.1, SeverityBlue, "USDT.D at support favors shorts.")
	}
}

func (e *evaluator) operatingContextRules(t *models.Trade) {
	location := t.Location
	if location == "" {
		location = models.LocationHome
	}
	device := t.Device
	if device == "" {
		device = models.DeviceLaptop
	}

	switch location {
	case models.LocationWork:
		e.add(RuleOperatingContext, -0.6, SeverityYellow, "You traded from work. Less focus, more execution risk.")
	case models.LocationStreet:
		e.add(RuleOperatingContext, -0.4, SeverityYellow, "You traded on the street. Distraction risk.")
	}

	if device == models.DevicePhone {
		e.add(RuleDevice, -0.2, SeverityYellow, "You traded from your phone. Slight risk of poor execution.")
	}
}

// lastClosed returns the most recent n closed trades from the supplied
// history, regardless of the order the caller loaded them in.
func lastClosed(history []models.Trade, n int) []models.Trade {
	var closed []models.Trade
	for _, t := range history {
		if t.Status == models.StatusClosed {
			closed = append(closed, t)
		}
	}
	sort.SliceStable(closed, func(i, j int) bool {
		return closed[i].TradeDateTime.Before(closed[j].TradeDateTime)
	})
	if len(closed) > n {
		closed = closed[len(closed)-n:]
	}
	return closed
}

func clamp(value, minVal, maxVal float64) float64 {
	if value < minVal {
		return minVal
	}
	if value > maxVal {
		return maxVal
	}
	return value
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
