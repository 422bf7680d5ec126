package scoring

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"equilibrium-coach/internal/models"
)

// Property: for any combination of trade attributes the evaluation
// 1. stays within [1.0, 10.0],
// 2. maps to its grade band,
// 3. honors the red caps (two reds never score above 7.0, a single
//    critical red never above 8.0).

func tradeGen() gopter.Gen {
	directions := []models.Direction{models.Long, models.Short}
	sentiments := models.SentimentOptions
	trends := []models.TrendReading{
		models.TrendBullish, models.TrendBearish, models.TrendRanging, models.TrendUnsure,
	}
	setups := append(append([]string{}, models.SetupsPositive...), models.SetupsNegative...)
	setups = append(setups, models.SetupOther, "")
	locations := []models.TradeLocation{models.LocationHome, models.LocationWork, models.LocationStreet, ""}
	devices := []models.TradeDevice{models.DeviceLaptop, models.DevicePhone, ""}
	dominances := models.DominanceOptions

	return gopter.CombineGens(
		gen.Float64Range(0.1, 8),              // riskR
		gen.Float64Range(0.1, 12),             // rewardRisk
		gen.IntRange(0, len(directions)-1),    // direction
		gen.IntRange(0, len(sentiments)-1),    // market sentiment
		gen.IntRange(0, len(sentiments)-1),    // asset sentiment
		gen.IntRange(0, len(trends)-1),        // macro
		gen.IntRange(0, len(trends)-1),        // micro
		gen.IntRange(0, len(setups)-1),        // setup
		gen.IntRange(0, len(models.TradeMotives)-1),
		gen.IntRange(0, len(models.MentalStates)-1),
		gen.IntRange(0, len(locations)-1),
		gen.IntRange(0, len(devices)-1),
		gen.IntRange(0, len(dominances)-1),
		gen.Bool(), // crypto market
		gen.Bool(), // has thesis
		gen.Bool(), // has image
	).Map(func(vals []interface{}) *models.Trade {
		t := &models.Trade{
			Market:          models.MarketForex,
			Asset:           "EURUSD",
			RiskR:           vals[0].(float64),
			RewardRisk:      vals[1].(float64),
			Direction:       directions[vals[2].(int)],
			MarketSentiment: sentiments[vals[3].(int)],
			AssetSentiment:  sentiments[vals[4].(int)],
			MarketStructure: models.MarketStructure{
				Macro: trends[vals[5].(int)],
				Micro: trends[vals[6].(int)],
			},
			Setup:       setups[vals[7].(int)],
			Motive:      models.TradeMotives[vals[8].(int)],
			MentalState: models.MentalStates[vals[9].(int)],
			Location:    locations[vals[10].(int)],
			Device:      devices[vals[11].(int)],
		}
		if vals[13].(bool) {
			t.Market = models.MarketCrypto
			t.Asset = "SOL/USDT"
			t.CryptoDominance = &models.CryptoDominance{
				USDTDominance: dominances[vals[12].(int)],
				BTCDominance:  dominances[(vals[12].(int)+1)%len(dominances)],
			}
		}
		if vals[14].(bool) {
			t.Thesis = "documented plan"
		}
		if vals[15].(bool) {
			t.Images = []models.ChartImage{{Name: "c.png"}}
		}
		return t
	})
}

func TestProperty_ScoreWithinBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	parameters.Rng.Seed(time.Now().UnixNano())
	parameters.MaxShrinkCount = 0

	properties := gopter.NewProperties(parameters)

	properties.Property("score in [1, 10] and grade matches band", prop.ForAll(
		func(tr *models.Trade) bool {
			ev := Evaluate(tr, &models.UserProfile{TraderStyle: models.DayTrader}, nil)
			if ev.Score < 1.0 || ev.Score > 10.0 {
				return false
			}
			return ev.Grade == GradeFor(ev.Score)
		},
		tradeGen(),
	))

	properties.TestingRun(t)
}

func TestProperty_RedCapsHold(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	parameters.Rng.Seed(time.Now().UnixNano())
	parameters.MaxShrinkCount = 0

	properties := gopter.NewProperties(parameters)

	properties.Property("red caps bound the final score", prop.ForAll(
		func(tr *models.Trade) bool {
			ev := Evaluate(tr, &models.UserProfile{TraderStyle: models.DayTrader}, nil)

			reds := 0
			criticalRed := false
			for _, b := range ev.Breakdown {
				if b.Severity == SeverityRed {
					reds++
					if criticalRules[b.Rule] {
						criticalRed = true
					}
				}
			}
			if reds >= 2 && ev.Score > 7.0 {
				return false
			}
			if reds == 1 && criticalRed && ev.Score > 8.0 {
				return false
			}
			return true
		},
		tradeGen(),
	))

	properties.TestingRun(t)
}

func TestProperty_EvaluationIsPure(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())
	parameters.MaxShrinkCount = 0

	properties := gopter.NewProperties(parameters)

	properties.Property("same input always scores the same", prop.ForAll(
		func(tr *models.Trade) bool {
			profile := &models.UserProfile{TraderStyle: models.SwingTrader}
			a := Evaluate(tr, profile, nil)
			b := Evaluate(tr, profile, nil)
			return a.Score == b.Score && a.Grade == b.Grade && len(a.Breakdown) == len(b.Breakdown)
		},
		tradeGen(),
	))

	properties.TestingRun(t)
}
