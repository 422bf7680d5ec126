package models

// Markets lists every supported market category.
var Markets = []Market{
	MarketCrypto, MarketForex, MarketIndices,
	MarketStocks, MarketOptions, MarketCommodities,
}

// Timeframes the journal accepts for a trade.
var Timeframes = []string{"1m", "5m", "15m", "1h", "4h", "Daily", "Weekly"}

// SetupsPositive are setups that reflect a typified plan.
var SetupsPositive = []string{
	"Trend continuation",
	"Reversal at major level",
	"Pullback",
	"Breakout with confirmation",
}

// SetupsNegative are setups that reveal the trade was taken on
// influence or impulse rather than a plan.
var SetupsNegative = []string{
	"Following another trader",
	"Following an influencer",
	"Chasing price",
	"FOMO",
	"Emotional impulse",
	"No clear plan",
}

// SetupOther is the escape hatch for uncategorized setups.
const SetupOther = "Other setup"

// SentimentOptions in order from greed to fear.
var SentimentOptions = []Sentiment{
	ExtremeEuphoria, Euphoria, NeutralSentiment, Pessimism, ExtremePessimism,
}

// DominanceOptions for the crypto dominance readings.
var DominanceOptions = []DominanceReading{
	AtSupport, AtResistance, MidZone, DominanceUnsure,
}

// TradeMotives the wizard offers.
var TradeMotives = []string{
	"Following my plan",
	"Plan continuation",
	"Exceptional opportunity",
	"Recover a loss",
	"Following another trader",
	"Boredom",
	"FOMO",
	"Emotional impulse",
	"Other",
}

// MotivesNegative flag emotionally driven entries.
var MotivesNegative = []string{
	"Recover a loss",
	"Boredom",
	"FOMO",
	"Emotional impulse",
}

// MentalStates the user can report at entry time.
var MentalStates = []string{
	"Calm", "Confident", "FOMO", "Revenge", "Anxiety",
	"Uncertainty", "Neutral", "Euphoria", "Fear", "Boredom",
}

// AssetsByMarket is the default asset catalog per market; users extend
// it per account through their profile.
var AssetsByMarket = map[Market][]string{
	MarketCrypto:      {"BTC/USDT", "ETH/USDT", "SOL/USDT", "BNB/USDT", "XRP/USDT", "ADA/USDT", "AVAX/USDT", "DOGE/USDT", "DOT/USDT", "LINK/USDT"},
	MarketForex:       {"EURUSD", "GBPUSD", "USDJPY", "AUDUSD", "USDCAD", "USDCHF", "NZDUSD", "EURGBP", "EURJPY", "GBPJPY"},
	MarketIndices:     {"S&P 500", "NASDAQ 100", "DOW JONES", "DAX 40", "FTSE 100", "IBEX 35", "NIKKEI 225", "RUSSELL 2000"},
	MarketStocks:      {"AAPL", "TSLA", "NVDA", "AMZN", "MSFT", "GOOGL", "META", "NFLX", "AMD", "COIN"},
	MarketOptions:     {"SPY", "QQQ", "IWM", "VIX"},
	MarketCommodities: {"GOLD", "SILVER", "CRUDE OIL", "NATURAL GAS", "COPPER", "WHEAT"},
}

// StrengthsPool and WeaknessesPool seed the onboarding pick lists.
var StrengthsPool = []string{
	"Iron discipline", "Risk management", "Patience", "Technical analysis",
	"Resilience", "Emotional control", "HTF focus", "Single-asset specialization",
	"Journal habit", "Adaptability",
}

var WeaknessesPool = []string{
	"Overtrading", "Closing early", "Fear of losing", "FOMO", "Revenge",
	"Ignoring stop loss", "Oversizing", "No plan", "Trading tired",
	"Directional bias",
}

// IsNegativeSetup reports whether the setup is in the negative set.
func IsNegativeSetup(setup string) bool {
	for _, s := range SetupsNegative {
		if s == setup {
			return true
		}
	}
	return false
}

// IsNegativeMotive reports whether the motive is in the negative set.
func IsNegativeMotive(motive string) bool {
	for _, m := range MotivesNegative {
		if m == motive {
			return true
		}
	}
	return false
}
