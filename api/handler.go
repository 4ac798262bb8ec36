package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"tasim/backtest"
	"tasim/fetcher"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

type barPayload struct {
	Time   string  `json:"time" binding:"required"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

type strategyPayload struct {
	Type   string         `json:"type"`
	Params map[string]any `json:"params"`
}

type backtestRequest struct {
	Bars     []barPayload    `json:"bars" binding:"required"`
	Strategy strategyPayload `json:"strategy"`
	Config   struct {
		InitialCapital float64  `json:"initial_capital"`
		PositionPct    float64  `json:"position_pct"`
		Lookback       *int     `json:"lookback"`
		FeePct         *float64 `json:"fee_pct"`
		AllowShort     bool     `json:"allow_short"`
		StopLossPct    float64  `json:"stop_loss_pct"`
	} `json:"config"`
}

type scanRequest struct {
	Bars       []barPayload      `json:"bars" binding:"required"`
	Strategies []strategyPayload `json:"strategies"`
}

func toBars(payload []barPayload) ([]backtest.Bar, error) {
	bars := make([]backtest.Bar, 0, len(payload))
	for i, p := range payload {
		t, err := fetcher.ParseTime(p.Time)
		if err != nil {
			return nil, fmt.Errorf("bar %d: %w", i, err)
		}
		bars = append(bars, backtest.Bar{
			Time:   t,
			Open:   p.Open,
			High:   p.High,
			Low:    p.Low,
			Close:  p.Close,
			Volume: p.Volume,
		})
	}
	return bars, nil
}

func buildStrategy(p strategyPayload) (backtest.Strategy, error) {
	typ := p.Type
	if typ == "" {
		typ = "ma_cross"
	}
	return backtest.NewStrategy(typ, p.Params)
}

// RunBacktest runs the engine over posted bars and returns the full
// result (ledger, equity curve, metrics).
func (h *Handler) RunBacktest(c *gin.Context) {
	var req backtestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bars, err := toBars(req.Bars)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	strategy, err := buildStrategy(req.Strategy)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg := backtest.DefaultRunConfig()
	cfg.Strategy = strategy
	if req.Config.InitialCapital > 0 {
		cfg.InitialCapital = req.Config.InitialCapital
	}
	if req.Config.PositionPct > 0 && req.Config.PositionPct <= 1 {
		cfg.PositionPct = req.Config.PositionPct
	}
	if req.Config.FeePct != nil && *req.Config.FeePct >= 0 {
		cfg.FeePct = *req.Config.FeePct
	}
	cfg.AllowShort = req.Config.AllowShort
	if req.Config.StopLossPct > 0 {
		cfg.StopLossPct = req.Config.StopLossPct
	}
	if req.Config.Lookback != nil {
		cfg.Lookback = *req.Config.Lookback
	} else {
		cfg.Lookback = strategy.MinBars()
	}

	res, err := backtest.Run(bars, cfg)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "data": res})
}

// Scan evaluates the latest bar's signal for the requested strategies
// (all registered types with default parameters when none are given).
func (h *Handler) Scan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bars, err := toBars(req.Bars)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payloads := req.Strategies
	if len(payloads) == 0 {
		for _, typ := range backtest.StrategyTypes() {
			payloads = append(payloads, strategyPayload{Type: typ})
		}
	}
	strategies := make([]backtest.Strategy, 0, len(payloads))
	for _, p := range payloads {
		st, err := buildStrategy(p)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		strategies = append(strategies, st)
	}

	results := backtest.Scan(bars, strategies)
	c.JSON(http.StatusOK, gin.H{"code": 0, "count": len(results), "data": results})
}

// ListStrategies returns the registered strategy type names.
func (h *Handler) ListStrategies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"code": 0, "data": backtest.StrategyTypes()})
}
