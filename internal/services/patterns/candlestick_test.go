package patterns

import (
	"math"
	"testing"
	"time"

	"SwingScan/internal/domain/models"
)

func candle(i int, o, h, l, c float64) models.Bar {
	return models.Bar{
		Symbol:    "TEST",
		Timestamp: time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour),
		Open:      o, High: h, Low: l, Close: c, Volume: 1_000_000,
	}
}

// neutral bars that trigger nothing: alternating small bodies with no
// dominant wick, so no directional run or engulfing can form
func quietBars(n int) []models.Bar {
	bars := make([]models.Bar, n)
	for i := range bars {
		if i%2 == 0 {
			bars[i] = candle(i, 100, 100.3, 99.75, 100.1)
		} else {
			bars[i] = candle(i, 100.1, 100.3, 99.75, 100)
		}
	}
	return bars
}

func detect(t *testing.T, bars []models.Bar) models.Pattern {
	t.Helper()
	p, ok := NewDetector().Detect(bars)
	if !ok {
		t.Fatal("no pattern detected")
	}
	return p
}

func TestBullishEngulfing(t *testing.T) {
	bars := append(quietBars(20),
		candle(20, 101, 101.2, 99.8, 100),   // bearish
		candle(21, 99.5, 102.5, 99.4, 102),  // engulfs it
	)
	p := detect(t, bars)
	if p.Name != "Bullish Engulfing" || p.Side != models.SideLong {
		t.Fatalf("got %q/%v, want Bullish Engulfing long", p.Name, p.Side)
	}
	if p.Price != 102 {
		t.Errorf("Price = %v, want the triggering close 102", p.Price)
	}
}

func TestBearishEngulfing(t *testing.T) {
	bars := append(quietBars(20),
		candle(20, 100, 101.2, 99.8, 101),
		candle(21, 101.5, 101.6, 98.9, 99.2),
	)
	p := detect(t, bars)
	if p.Name != "Bearish Engulfing" || p.Side != models.SideShort {
		t.Fatalf("got %q/%v, want Bearish Engulfing short", p.Name, p.Side)
	}
}

func TestHammer(t *testing.T) {
	bars := append(quietBars(20),
		candle(20, 100, 100.1, 97, 100.05), // long lower wick, tiny body
	)
	p := detect(t, bars)
	if p.Name != "Hammer" || p.Side != models.SideLong {
		t.Fatalf("got %q/%v, want Hammer long", p.Name, p.Side)
	}
}

func TestShootingStarLosesToInvertedHammer(t *testing.T) {
	// identical geometry matches both; the priority order reports the
	// bullish reading first
	bars := append(quietBars(20),
		candle(20, 100, 103, 99.95, 100.05),
	)
	p := detect(t, bars)
	if p.Name != "Inverted Hammer" {
		t.Fatalf("got %q, want Inverted Hammer by priority", p.Name)
	}
}

func TestMorningStarOutranksEngulfing(t *testing.T) {
	bars := append(quietBars(20),
		candle(20, 102, 102.2, 99.9, 100),      // long bearish
		candle(21, 99.8, 100.4, 99.4, 99.9),    // small body
		candle(22, 99.9, 102.4, 99.8, 102.2),   // long bullish above day-1 midpoint
	)
	p := detect(t, bars)
	if p.Name != "Morning Star" || p.Side != models.SideLong {
		t.Fatalf("got %q/%v, want Morning Star long", p.Name, p.Side)
	}
}

func TestEveningStar(t *testing.T) {
	bars := append(quietBars(20),
		candle(20, 100, 102.2, 99.9, 102),
		candle(21, 102.1, 102.6, 101.6, 102.2),
		candle(22, 102.1, 102.2, 99.7, 99.8),
	)
	p := detect(t, bars)
	if p.Name != "Evening Star" || p.Side != models.SideShort {
		t.Fatalf("got %q/%v, want Evening Star short", p.Name, p.Side)
	}
}

func TestThreeWhiteSoldiers(t *testing.T) {
	bars := append(quietBars(20),
		candle(20, 100, 101.2, 99.9, 101),
		candle(21, 100.5, 102.2, 100.4, 102),
		candle(22, 101.5, 103.2, 101.4, 103),
	)
	p := detect(t, bars)
	if p.Name != "Three White Soldiers" || p.Side != models.SideLong {
		t.Fatalf("got %q/%v, want Three White Soldiers long", p.Name, p.Side)
	}
}

func TestThreeBlackCrows(t *testing.T) {
	bars := append(quietBars(20),
		candle(20, 103, 103.1, 101.8, 102),
		candle(21, 102.5, 102.6, 100.8, 101),
		candle(22, 101.5, 101.6, 99.8, 100),
	)
	p := detect(t, bars)
	if p.Name != "Three Black Crows" || p.Side != models.SideShort {
		t.Fatalf("got %q/%v, want Three Black Crows short", p.Name, p.Side)
	}
}

func TestPiercing(t *testing.T) {
	bars := append(quietBars(20),
		candle(20, 102, 102.2, 99.9, 100),  // long bearish
		candle(21, 99.5, 101.8, 99.4, 101.5), // opens below prior low, closes above midpoint
	)
	p := detect(t, bars)
	if p.Name != "Piercing Pattern" || p.Side != models.SideLong {
		t.Fatalf("got %q/%v, want Piercing Pattern long", p.Name, p.Side)
	}
}

func TestDarkCloudCover(t *testing.T) {
	bars := append(quietBars(20),
		candle(20, 100, 102.1, 99.9, 102),
		candle(21, 102.5, 102.6, 100.2, 100.5),
	)
	p := detect(t, bars)
	if p.Name != "Dark Cloud Cover" || p.Side != models.SideShort {
		t.Fatalf("got %q/%v, want Dark Cloud Cover short", p.Name, p.Side)
	}
}

func TestDetectRelativeVolume(t *testing.T) {
	bars := append(quietBars(20),
		candle(20, 100, 100.1, 97, 100.05), // hammer
	)
	bars[len(bars)-1].Volume = 2_000_000

	p := detect(t, bars)
	if math.Abs(p.RelativeVolume-2) > 1e-9 {
		t.Errorf("RelativeVolume = %v, want 2", p.RelativeVolume)
	}
}

func TestDetectNothingOnQuietTape(t *testing.T) {
	if p, ok := NewDetector().Detect(quietBars(25)); ok {
		t.Fatalf("unexpected pattern %q on a quiet tape", p.Name)
	}
	if _, ok := NewDetector().Detect(nil); ok {
		t.Fatal("pattern detected on empty history")
	}
}
