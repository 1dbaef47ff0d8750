package api

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"SwingScan/internal/domain/models"
	domrepo "SwingScan/internal/domain/repository"
	"SwingScan/internal/domain/service"
	"SwingScan/internal/services/zones"
	"SwingScan/internal/usecase"
	xhttp "SwingScan/pkg/http"
	xlogger "SwingScan/pkg/logger"
)

// ScannerHandler exposes the scan pipeline over HTTP: zone maps with
// live distances, the current market regime, the active watchlist, an
// on-demand evaluation and a manual recompute trigger.
type ScannerHandler struct {
	logger     *xlogger.Logger
	cache      domrepo.ZoneCache
	bars       domrepo.BarSource
	regime     service.RegimeAnalyzer
	evaluator  *usecase.SignalEvaluator
	recomputer *usecase.ZoneRecomputer
	watchlist  domrepo.WatchlistStore
	universe   []string
	barWindow  int
}

func NewScannerHandler(
	logger *xlogger.Logger,
	cache domrepo.ZoneCache,
	bars domrepo.BarSource,
	regime service.RegimeAnalyzer,
	evaluator *usecase.SignalEvaluator,
	recomputer *usecase.ZoneRecomputer,
	watchlist domrepo.WatchlistStore,
	universe []string,
	barWindow int,
) *ScannerHandler {
	if barWindow <= 0 {
		barWindow = 130
	}
	return &ScannerHandler{
		logger:     logger,
		cache:      cache,
		bars:       bars,
		regime:     regime,
		evaluator:  evaluator,
		recomputer: recomputer,
		watchlist:  watchlist,
		universe:   universe,
		barWindow:  barWindow,
	}
}

func (h *ScannerHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/zones/:symbol", h.Zones)
	g.GET("/regime", h.Regime)
	g.GET("/watchlist", h.Watchlist)
	g.POST("/evaluate", h.Evaluate)
	g.POST("/recompute", h.Recompute)
}

type zonesResponse struct {
	Symbol     string              `json:"symbol"`
	AsOf       time.Time           `json:"as_of"`
	Price      float64             `json:"price"`
	ATR        float64             `json:"atr"`
	Zones      []models.Zone       `json:"zones"`
	Indicators models.IndicatorSet `json:"indicators"`
}

// Zones returns the published zone map for a symbol, ordered by
// distance from the reference price (query price, falling back to the
// snapshot's close).
func (h *ScannerHandler) Zones(c echo.Context) error {
	req := &models.ZonesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	snap, ok := h.cache.Get(req.Symbol)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no zone map for %s", req.Symbol))
	}
	price := req.Price
	if price <= 0 {
		price = snap.Price
	}
	return xhttp.SuccessResponse(c, &zonesResponse{
		Symbol:     snap.Symbol,
		AsOf:       snap.AsOf,
		Price:      price,
		ATR:        snap.Indicators.ATR14,
		Zones:      zones.WithDistances(snap.Zones, price, snap.Indicators.ATR14),
		Indicators: snap.Indicators,
	})
}

func (h *ScannerHandler) Regime(c echo.Context) error {
	mkt, err := h.regime.Analyze(c.Request().Context(), time.Now())
	if err != nil {
		h.logger.Error("regime analyze error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, mkt)
}

func (h *ScannerHandler) Watchlist(c echo.Context) error {
	entries, err := h.watchlist.Load(c.Request().Context())
	if err != nil {
		h.logger.Error("watchlist load error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, entries, int64(len(entries)))
}

type evaluateResponse struct {
	Emitted bool           `json:"emitted"`
	Signal  *models.Signal `json:"signal,omitempty"`
}

// Evaluate runs the trigger checks against the latest intraday window
// on demand. The same gates apply as on the live stream, including the
// cooldown, so a repeated call inside the window reports emitted=false.
func (h *ScannerHandler) Evaluate(c echo.Context) error {
	req := &models.EvaluateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ctx := c.Request().Context()
	bars, err := h.bars.IntradayBars(ctx, req.Symbol, h.barWindow)
	if err != nil {
		h.logger.Error("intraday bars error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	obs := &models.Observation{
		Symbol:    req.Symbol,
		Timestamp: time.Now(),
		Price:     req.Price,
		Bars:      bars,
	}
	if obs.Price <= 0 {
		if last, ok := obs.LastBar(); ok {
			obs.Price = last.Close
			obs.Timestamp = last.Timestamp
		}
	}

	sig, err := h.evaluator.Evaluate(ctx, obs)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrNoZoneMap):
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no zone map for %s", req.Symbol).WithError(err))
	case errors.Is(err, models.ErrStaleZoneMap):
		return xhttp.AppErrorResponse(c, xhttp.ConflictError("zone map is stale, run recompute").WithError(err))
	default:
		h.logger.Error("evaluate error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, &evaluateResponse{Emitted: sig != nil, Signal: sig})
}

type recomputeResponse struct {
	Symbols   int     `json:"symbols"`
	Succeeded int     `json:"succeeded"`
	Failed    int     `json:"failed"`
	Seconds   float64 `json:"seconds"`
}

// Recompute rebuilds zone maps for the given symbols, or the whole
// configured universe when the body names none.
func (h *ScannerHandler) Recompute(c echo.Context) error {
	req := &models.RecomputeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	symbols := req.Symbols
	if len(symbols) == 0 {
		symbols = h.universe
	}

	res := h.recomputer.RecomputeBatch(c.Request().Context(), symbols, time.Now())
	h.logger.Info("manual recompute finished",
		xlogger.Int("symbols", len(symbols)),
		xlogger.Int("succeeded", res.Succeeded),
		xlogger.Int("failed", res.Failed),
	)
	return xhttp.SuccessResponse(c, &recomputeResponse{
		Symbols:   len(symbols),
		Succeeded: res.Succeeded,
		Failed:    res.Failed,
		Seconds:   res.Elapsed.Seconds(),
	})
}

var _ xhttp.Handler = (*ScannerHandler)(nil)
