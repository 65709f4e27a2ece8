package strategy

import "time"

// Hardcoded strategy parameters. They are intentionally not configurable.
const (
	Interval     = "5m"
	Limit        = 200
	ATRLength    = 14
	TPMultiplier = 2.0
	SLMultiplier = 1.0

	// Leverage shown next to the TP/SL percentages in alerts
	Leverage = 25

	// MinCandles is the shortest window the detector evaluates
	MinCandles = ATRLength + 2

	// PollPeriod is the pause between the end of one scan and the start of the next
	PollPeriod = 5 * time.Minute
)

// Symbols is the watch list, scanned in this order every cycle
var Symbols = []string{
	"DOGEUSDT", "SHIBUSDT", "APTUSDT", "OPUSDT", "ARBUSDT", "SOLUSDT", "POLUSDT", "AVAXUSDT", "ATOMUSDT", "FTMUSDT",
	"NEARUSDT", "ALGOUSDT", "EGLDUSDT", "AXSUSDT", "SANDUSDT", "MANAUSDT", "GALAUSDT", "APEUSDT", "CHZUSDT", "ENJUSDT",
	"LRCUSDT", "GMTUSDT", "ZILUSDT", "BATUSDT", "COMPUSDT", "1INCHUSDT", "CRVUSDT", "KNCUSDT", "REEFUSDT", "RVNUSDT",
	"ICPUSDT", "LUNAUSDT", "SKLUSDT", "MASKUSDT", "CVCUSDT", "STORJUSDT", "BLZUSDT", "DATAUSDT", "ANKRUSDT",
	"OCEANUSDT", "CTSIUSDT", "AGLDUSDT", "GTCUSDT", "PERPUSDT", "ALPHAUSDT", "BANDUSDT", "RAREUSDT", "UMAUSDT", "REQUSDT",
}
