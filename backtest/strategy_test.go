package backtest

import (
	"math"
	"testing"
	"time"
)

// hlcBars builds daily bars from (high, low, close) triples.
func hlcBars(rows ...[3]float64) []Bar {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]Bar, len(rows))
	for i, r := range rows {
		bars[i] = Bar{Time: base.AddDate(0, 0, i), Open: r[2], High: r[0], Low: r[1], Close: r[2], Volume: 1000}
	}
	return bars
}

func wantAction(t *testing.T, sig Signal, want SignalAction) {
	t.Helper()
	if sig.Action != want {
		t.Fatalf("action: got %s (%s), want %s", sig.Action, sig.Reason, want)
	}
}

func TestMACrossSignals(t *testing.T) {
	st := NewMACrossStrategy(MACrossParams{MAType: "sma", Fast: 2, Slow: 3})
	if st.MinBars() != 4 {
		t.Fatalf("min bars: got %d", st.MinBars())
	}

	// SMA(2) crosses above SMA(3) on the bounce at index 4
	bars := flatBars(10, 9, 8, 7, 10, 12)
	wantAction(t, st.OnBar(4, bars), SignalBuy)
	wantAction(t, st.OnBar(5, bars), SignalHold)

	// extending the series with a drop flips the cross back down
	bars = flatBars(10, 9, 8, 7, 10, 12, 7)
	wantAction(t, st.OnBar(6, bars), SignalSell)

	sig := st.OnBar(2, bars)
	wantAction(t, sig, SignalHold)
	if sig.Reason != "insufficient data" || sig.Confidence != 0 {
		t.Fatalf("warm-up signal: %+v", sig)
	}
}

func TestMACrossEMAVariant(t *testing.T) {
	st := NewMACrossStrategy(MACrossParams{MAType: "ema", Fast: 2, Slow: 3})
	bars := flatBars(10, 10, 10, 10, 20, 30)
	sig := st.OnBar(4, bars)
	wantAction(t, sig, SignalBuy)
	if sig.Reason != "EMA(2) crossed above EMA(3)" {
		t.Fatalf("reason: %q", sig.Reason)
	}
}

func TestRSISignals(t *testing.T) {
	st := NewRSIStrategy(RSIParams{Period: 2})

	// three down bars push RSI(2) to 0; the bounce lifts it through 30
	buy := st.OnBar(4, flatBars(10, 9, 8, 7, 8.5))
	wantAction(t, buy, SignalBuy)
	if buy.Confidence != 0.9 {
		t.Fatalf("deep oversold recovery should clamp to 0.9, got %v", buy.Confidence)
	}

	// three up bars pin RSI at 100; the pullback drops it through 70
	wantAction(t, st.OnBar(4, flatBars(10, 11, 12, 13, 11.5)), SignalSell)

	// still falling: oversold but no recovery yet
	zone := st.OnBar(4, flatBars(10, 9, 8, 7, 6))
	wantAction(t, zone, SignalHold)
	if zone.Confidence != 0.5 {
		t.Fatalf("ambient hold confidence: got %v", zone.Confidence)
	}
}

func TestMACDSignals(t *testing.T) {
	st := NewMACDStrategy(MACDParams{Fast: 2, Slow: 5, Signal: 3})
	if st.MinBars() != 8 {
		t.Fatalf("min bars: got %d", st.MinBars())
	}

	// V-shaped series: the MACD line crosses its signal on the first
	// bar of the recovery that MinBars allows
	bars := flatBars(20, 19, 18, 17, 16, 15, 14, 15, 16, 17, 18, 19, 20)
	wantAction(t, st.OnBar(7, bars), SignalBuy)
	for i := 8; i < len(bars); i++ {
		wantAction(t, st.OnBar(i, bars), SignalHold)
	}
}

func TestBollingerSignals(t *testing.T) {
	st := NewBollingerStrategy(BollingerParams{Period: 3, K: 1})

	// close drops below the lower band, then reverts inside
	wantAction(t, st.OnBar(4, flatBars(10, 10, 10, 6, 10)), SignalBuy)

	// mirror case against the upper band
	wantAction(t, st.OnBar(4, flatBars(10, 10, 10, 14, 10)), SignalSell)

	// flat series: bands collapse onto the price, no signal
	wantAction(t, st.OnBar(4, flatBars(10, 10, 10, 10, 10)), SignalHold)
}

func TestStochasticSignals(t *testing.T) {
	st := NewStochasticStrategy(StochasticParams{KPeriod: 2, DPeriod: 2, Oversold: 20, Overbought: 80})
	if st.MinBars() != 4 {
		t.Fatalf("min bars: got %d", st.MinBars())
	}

	// %K starts deep oversold and crosses above %D on the rally bar
	buy := hlcBars(
		[3]float64{10, 8, 8.2},
		[3]float64{9, 7, 7.1},
		[3]float64{8.5, 6.8, 6.82},
		[3]float64{8, 6.5, 7.9},
	)
	wantAction(t, st.OnBar(3, buy), SignalBuy)

	// mirrored: overbought %K crossing below %D
	sell := hlcBars(
		[3]float64{12, 10, 11.8},
		[3]float64{13, 11, 12.9},
		[3]float64{13.2, 11.2, 13.18},
		[3]float64{13, 11.5, 11.6},
	)
	wantAction(t, st.OnBar(3, sell), SignalSell)
}

// vShapeBars builds a decline followed by a steeper recovery; the +DI/-DI
// cross lands on the first recovery bar.
func vShapeBars() []Bar {
	rows := make([][3]float64, 0, 12)
	for i := 0; i < 6; i++ {
		f := float64(i)
		rows = append(rows, [3]float64{20 - f, 18 - f, 19 - f})
	}
	for i := 6; i < 12; i++ {
		step := 1.5 * float64(i-5)
		rows = append(rows, [3]float64{15 + step, 13 + step, 14 + step})
	}
	return hlcBars(rows...)
}

func TestADXSignals(t *testing.T) {
	st := NewADXStrategy(ADXParams{Period: 2, Threshold: 5})
	if st.MinBars() != 4 {
		t.Fatalf("min bars: got %d", st.MinBars())
	}

	bars := vShapeBars()
	for i := 3; i < 6; i++ {
		wantAction(t, st.OnBar(i, bars), SignalHold)
	}
	wantAction(t, st.OnBar(6, bars), SignalBuy)

	// mirrored series: rally into a steeper decline flips -DI over +DI
	rows := make([][3]float64, 0, 12)
	for i := 0; i < 6; i++ {
		f := float64(i)
		rows = append(rows, [3]float64{10 + f, 8 + f, 9 + f})
	}
	for i := 6; i < 12; i++ {
		step := 1.5 * float64(i-5)
		rows = append(rows, [3]float64{15 - step, 13 - step, 14 - step})
	}
	wantAction(t, st.OnBar(6, hlcBars(rows...)), SignalSell)
}

func TestInsufficientDataHolds(t *testing.T) {
	bars := flatBars(make([]float64, 80)...)
	for i := range bars {
		bars[i].Close = 100
		bars[i].Open, bars[i].High, bars[i].Low = 100, 100, 100
	}
	for _, typ := range StrategyTypes() {
		st, err := NewStrategy(typ, nil)
		if err != nil {
			t.Fatal(err)
		}
		sig := st.OnBar(st.MinBars()-2, bars)
		if sig.Action != SignalHold || sig.Confidence != 0 || sig.Reason != "insufficient data" {
			t.Fatalf("%s below min bars: %+v", typ, sig)
		}
	}
}

func TestConfidenceBounds(t *testing.T) {
	bars := make([]Bar, 120)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		c := 100 + 10*math.Sin(float64(i)/4) + float64(i%7)
		bars[i] = Bar{Time: base.AddDate(0, 0, i), Open: c, High: c + 1.5, Low: c - 1.5, Close: c, Volume: 1000}
	}

	for _, typ := range StrategyTypes() {
		st, err := NewStrategy(typ, nil)
		if err != nil {
			t.Fatal(err)
		}
		for i := range bars {
			sig := st.OnBar(i, bars)
			switch sig.Action {
			case SignalBuy, SignalSell:
				if sig.Confidence < 0 || sig.Confidence > 0.9 {
					t.Fatalf("%s bar %d: confidence %v out of bounds", typ, i, sig.Confidence)
				}
			case SignalHold:
				if sig.Confidence != 0.5 && sig.Confidence != 0 {
					t.Fatalf("%s bar %d: hold confidence %v", typ, i, sig.Confidence)
				}
			default:
				t.Fatalf("%s bar %d: unknown action %q", typ, i, sig.Action)
			}
		}
	}
}

func TestNewStrategyValidation(t *testing.T) {
	if _, err := NewStrategy("momentum", nil); err == nil {
		t.Fatal("unknown type must error")
	}
	if _, err := NewStrategy("ma_cross", map[string]any{"ma_type": "wma"}); err == nil {
		t.Fatal("unknown ma_type must error")
	}
	if _, err := NewStrategy("ma_cross", map[string]any{"fast": 30, "slow": 10}); err == nil {
		t.Fatal("fast >= slow must error")
	}
	if _, err := NewStrategy("rsi", map[string]any{"oversold": 80, "overbought": 20}); err == nil {
		t.Fatal("inverted rsi thresholds must error")
	}
	if _, err := NewStrategy("stochastic", map[string]any{"oversold": 90}); err == nil {
		t.Fatal("oversold above default overbought must error")
	}
}

func TestNewStrategyParamDecode(t *testing.T) {
	st, err := NewStrategy("rsi", map[string]any{"period": 7})
	if err != nil {
		t.Fatal(err)
	}
	if st.MinBars() != 9 {
		t.Fatalf("decoded period not applied: min bars %d", st.MinBars())
	}

	// nil params fall back to defaults everywhere
	st, err = NewStrategy("macd", nil)
	if err != nil {
		t.Fatal(err)
	}
	if st.MinBars() != 35 {
		t.Fatalf("macd defaults: min bars %d", st.MinBars())
	}
}

func TestStrategyTypesStable(t *testing.T) {
	want := []string{"ma_cross", "rsi", "macd", "bollinger", "stochastic", "adx"}
	got := StrategyTypes()
	if len(got) != len(want) {
		t.Fatalf("types: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("types: %v", got)
		}
	}
}
