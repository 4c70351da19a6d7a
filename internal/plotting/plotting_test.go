package plotting

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stellar-data/rotation.report/internal/lightcurve"
	"github.com/stellar-data/rotation.report/internal/periodogram"
)

func sineCurve(periodDays float64) *lightcurve.LightCurve {
	lc := &lightcurve.LightCurve{}
	step := 2.0 / 24.0
	for x := 0.0; x < 26; x += step {
		lc.Time = append(lc.Time, x)
		lc.Flux = append(lc.Flux, 1.0+0.01*math.Sin(2*math.Pi*x/periodDays))
	}
	return lc
}

func checkPNG(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("plot file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("plot file %s is empty", path)
	}
}

func TestSaveLightCurve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lc.png")
	if err := SaveLightCurve(sineCurve(3.638), "TIC 445493624", path); err != nil {
		t.Fatalf("SaveLightCurve failed: %v", err)
	}
	checkPNG(t, path)
}

func TestSavePeriodogram(t *testing.T) {
	lc := sineCurve(3.638)
	pg, err := periodogram.Compute(lc.Time, lc.Flux, periodogram.Params{
		MinPeriodDays: 0.5, MaxPeriodDays: 15, Oversample: 5,
	})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	detected, _ := pg.Peak()

	path := filepath.Join(t.TempDir(), "pgram.png")
	if err := SavePeriodogram(pg, detected, 3.638, "TIC 445493624", path); err != nil {
		t.Fatalf("SavePeriodogram failed: %v", err)
	}
	checkPNG(t, path)
}

func TestSavePeriodogram_NoMarkers(t *testing.T) {
	lc := sineCurve(2.0)
	pg, err := periodogram.Compute(lc.Time, lc.Flux, periodogram.Params{
		MinPeriodDays: 0.5, MaxPeriodDays: 15, Oversample: 5,
	})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "plain.png")
	if err := SavePeriodogram(pg, 0, 0, "unmarked", path); err != nil {
		t.Fatalf("SavePeriodogram failed: %v", err)
	}
	checkPNG(t, path)
}

func TestSaveFoldPair(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fold.png")
	if err := SaveFoldPair(sineCurve(3.638), 3.638, 40, "TIC 445493624", path); err != nil {
		t.Fatalf("SaveFoldPair failed: %v", err)
	}
	checkPNG(t, path)
}

func TestSaveFoldPair_BadPeriod(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	if err := SaveFoldPair(sineCurve(3.0), 0, 40, "bad", path); err == nil {
		t.Error("expected error for non-positive period")
	}
}
