package regime

import (
	"context"
	"testing"
	"time"

	"SwingScan/internal/domain/models"
	"SwingScan/internal/services/indicators"
	"SwingScan/pkg/logger"
)

type fakeBarSource struct {
	bars  map[string][]models.Bar
	calls int
}

func (f *fakeBarSource) DailyBars(ctx context.Context, symbol string, lookback int) ([]models.Bar, error) {
	return f.bars[symbol], nil
}

func (f *fakeBarSource) IntradayBars(ctx context.Context, symbol string, lookback int) ([]models.Bar, error) {
	return f.bars[symbol], nil
}

func (f *fakeBarSource) IndexBars(ctx context.Context, symbol string, lookback int) ([]models.Bar, error) {
	f.calls++
	return f.bars[symbol], nil
}

func trendBars(n int, start, step float64) []models.Bar {
	bars := make([]models.Bar, n)
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		c := start + float64(i)*step
		bars[i] = models.Bar{
			Symbol: "IDX", Timestamp: base.AddDate(0, 0, i),
			Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 1_000_000,
		}
	}
	return bars
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestAnalyzeClassifiesTrends(t *testing.T) {
	src := &fakeBarSource{bars: map[string][]models.Bar{
		"UPIDX": trendBars(250, 100, 0.5),  // rises above every average
		"DNIDX": trendBars(250, 300, -0.5), // falls below every average
	}}
	a := NewAnalyzer(src, indicators.NewCalculator(), testLogger(t), "UPIDX", "DNIDX", time.Hour)

	ctx, err := a.Analyze(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if ctx.Primary.Trend != models.TrendBullish {
		t.Errorf("primary trend = %v, want bullish", ctx.Primary.Trend)
	}
	if !ctx.Primary.AboveEMA20 || !ctx.Primary.IndexTrendBullish {
		t.Errorf("primary flags = %+v, want above EMA20 with a rising SMA50", ctx.Primary)
	}
	if ctx.Second.Trend != models.TrendBearish {
		t.Errorf("second trend = %v, want bearish", ctx.Second.Trend)
	}
	if ctx.Second.AboveEMA20 {
		t.Error("falling index reported above its EMA20")
	}
}

func TestAnalyzeCachesWithinTTL(t *testing.T) {
	src := &fakeBarSource{bars: map[string][]models.Bar{
		"UPIDX": trendBars(250, 100, 0.5),
		"DNIDX": trendBars(250, 300, -0.5),
	}}
	a := NewAnalyzer(src, indicators.NewCalculator(), testLogger(t), "UPIDX", "DNIDX", time.Hour)

	if _, err := a.Analyze(context.Background(), time.Now()); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if _, err := a.Analyze(context.Background(), time.Now()); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if src.calls != 2 {
		t.Errorf("bar source called %d times, want 2 (one per index, then cached)", src.calls)
	}
}

func TestAlignedCount(t *testing.T) {
	ctx := models.MarketContext{
		Primary: models.MarketRegime{AboveEMA20: true},
		Second:  models.MarketRegime{AboveEMA20: false},
	}
	if n := ctx.AlignedCount(models.SideLong); n != 1 {
		t.Errorf("long aligned = %d, want 1", n)
	}
	if n := ctx.AlignedCount(models.SideShort); n != 1 {
		t.Errorf("short aligned = %d, want 1", n)
	}
	ctx.Second.AboveEMA20 = true
	if n := ctx.AlignedCount(models.SideLong); n != 2 {
		t.Errorf("long aligned = %d, want 2", n)
	}
	if n := ctx.AlignedCount(models.SideShort); n != 0 {
		t.Errorf("short aligned = %d, want 0", n)
	}
}
