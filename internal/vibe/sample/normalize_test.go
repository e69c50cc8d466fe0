package sample

import (
	"testing"
)

func TestNormalizeMetadataRequiresRunID(t *testing.T) {
	_, err := NormalizeMetadata(RawRecord{"sensor_model": "ADXL345"})
	if err == nil {
		t.Fatal("expected InvalidMetadataError when run_id is missing")
	}
	if _, ok := err.(*InvalidMetadataError); !ok {
		t.Fatalf("expected *InvalidMetadataError, got %T", err)
	}
}

func TestNormalizeMetadataNilRaises(t *testing.T) {
	if _, err := NormalizeMetadata(nil); err == nil {
		t.Fatal("expected error for nil metadata")
	}
}

func TestNormalizeMetadataTireDerivation(t *testing.T) {
	meta, err := NormalizeMetadata(RawRecord{
		"run_id":          "run-1",
		"tire_width_mm":   225.0,
		"tire_aspect_pct": 45.0,
		"rim_in":          17.0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	circ, ok := meta.ResolvedTireCircumferenceM()
	if !ok {
		t.Fatal("expected derivable tire circumference")
	}
	if circ < 1.9 || circ > 2.1 {
		t.Errorf("unexpected circumference %v", circ)
	}
}

func TestNormalizeMetadataLanguageDefault(t *testing.T) {
	meta, err := NormalizeMetadata(RawRecord{"run_id": "run-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Language != "en" {
		t.Errorf("expected default language en, got %q", meta.Language)
	}
}

func TestNormalizeSampleVibrationZeroIsPreserved(t *testing.T) {
	rec := NormalizeSample(RawRecord{
		"vibration_strength_db": 0.0,
		"strength_floor_amp_g":  0.0,
		"client_name":           "front-left",
	})
	if rec.VibrationStrengthDB != 0.0 {
		t.Errorf("expected VibrationStrengthDB=0.0, got %v", rec.VibrationStrengthDB)
	}
	if rec.StrengthFloorAmpG == nil {
		t.Fatal("expected StrengthFloorAmpG to be a present 0.0, not nil")
	}
	if *rec.StrengthFloorAmpG != 0.0 {
		t.Errorf("expected *StrengthFloorAmpG=0.0, got %v", *rec.StrengthFloorAmpG)
	}
}

func TestNormalizeSampleMissingFloorIsNil(t *testing.T) {
	rec := NormalizeSample(RawRecord{"client_name": "front-left"})
	if rec.StrengthFloorAmpG != nil {
		t.Errorf("expected nil StrengthFloorAmpG when absent, got %v", *rec.StrengthFloorAmpG)
	}
}

func TestNormalizeSamplePeakFiltering(t *testing.T) {
	rec := NormalizeSample(RawRecord{
		"client_name": "front-left",
		"top_peaks": []any{
			map[string]any{"hz": 10.9, "amp": 0.07},
			map[string]any{"hz": 2.0, "amp": 0.5},   // below min analysis freq
			map[string]any{"hz": 50.0, "amp": -1.0}, // non-positive amp
			map[string]any{"hz": 0.0, "amp": 0.1},   // non-positive hz
			"not-an-object",
			map[string]any{"hz": 60.0, "amp": 0.02},
		},
	})
	if len(rec.TopPeaks) != 2 {
		t.Fatalf("expected 2 surviving peaks, got %d: %+v", len(rec.TopPeaks), rec.TopPeaks)
	}
	if rec.TopPeaks[0].HzVal != 10.9 || rec.TopPeaks[1].HzVal != 60.0 {
		t.Errorf("unexpected peak order: %+v", rec.TopPeaks)
	}
}

func TestNormalizeSamplePeaksTruncatedToTen(t *testing.T) {
	peaks := make([]any, 0, 15)
	for i := 0; i < 15; i++ {
		peaks = append(peaks, map[string]any{"hz": 10.0 + float64(i), "amp": 0.01})
	}
	rec := NormalizeSample(RawRecord{"top_peaks": peaks})
	if len(rec.TopPeaks) != 10 {
		t.Errorf("expected truncation to 10 peaks, got %d", len(rec.TopPeaks))
	}
}

func TestCanonicalizeLocationAliases(t *testing.T) {
	for _, raw := range []string{"FL", "front_left", "front-left wheel", "Front Left", "FL Wheel", "front_left_wheel"} {
		if got := CanonicalizeLocation(raw); got != LocationFrontLeftWheel {
			t.Errorf("CanonicalizeLocation(%q) = %q, want %q", raw, got, LocationFrontLeftWheel)
		}
	}
}

func TestCanonicalizeLocationNonWheel(t *testing.T) {
	cases := map[string]Location{
		"driver-seat":  LocationDriverSeat,
		"Driver Seat":  LocationDriverSeat,
		"trunk":        LocationTrunk,
		"engine_bay":   LocationEngineBay,
		"transmission": LocationTransmission,
		"":             LocationOther,
		"   ":          LocationOther,
	}
	for raw, want := range cases {
		if got := CanonicalizeLocation(raw); got != want {
			t.Errorf("CanonicalizeLocation(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestNormalizeSampleIdentityOnCanonical(t *testing.T) {
	raw := RawRecord{
		"t_s":                   12.5,
		"client_id":             "s1",
		"client_name":           "front-left wheel",
		"location":              "front-left wheel",
		"speed_kmh":             80.0,
		"speed_source":          "gps",
		"vibration_strength_db": 22.0,
		"strength_floor_amp_g":  0.003,
		"top_peaks": []any{
			map[string]any{"hz": 10.9, "amp": 0.07},
		},
	}
	rec := NormalizeSample(raw)
	rec2 := NormalizeSample(raw)
	if rec.ClientID != rec2.ClientID || rec.VibrationStrengthDB != rec2.VibrationStrengthDB {
		t.Error("NormalizeSample is not idempotent on identical input")
	}
	if len(rec.TopPeaks) != len(rec2.TopPeaks) {
		t.Error("NormalizeSample peak count is not idempotent on identical input")
	}
}
