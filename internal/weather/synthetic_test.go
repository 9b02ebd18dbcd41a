package weather

import (
	"testing"
	"time"
)

func TestSyntheticSnapshotShape(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	snap := SyntheticSnapshot(now, 6, NoJitter)

	if !snap.IsSynthetic() {
		t.Fatal("Synthetic snapshot must carry the fallback sentinel")
	}
	if snap.Current.Temperature != 28 || snap.Current.Condition != "Clear" {
		t.Errorf("Unexpected current block: %+v", snap.Current)
	}
	if snap.Current.UVIndex != 6 {
		t.Errorf("Expected UV index 6, got %d", snap.Current.UVIndex)
	}
	if len(snap.Forecast) != 5 {
		t.Fatalf("Expected 5 forecast days, got %d", len(snap.Forecast))
	}

	today := now.Format("2006-01-02")
	for i, day := range snap.Forecast {
		date := time.Unix(day.Timestamp, 0).UTC().Format("2006-01-02")
		if date <= today {
			t.Errorf("Synthetic day %d is not strictly after today: %s", i, date)
		}
	}
}

func TestSyntheticForecastDeterministic(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	a := SyntheticSnapshot(now, 6, NoJitter)
	b := SyntheticSnapshot(now, 6, NoJitter)

	for i := range a.Forecast {
		if a.Forecast[i] != b.Forecast[i] {
			t.Errorf("Day %d differs across identical inputs: %+v vs %+v", i, a.Forecast[i], b.Forecast[i])
		}
	}
}

func TestSyntheticDayPaletteAndCooling(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	expected := []struct {
		condition string
		icon      string
		temp      int
	}{
		{"Clear", "01d", 28},
		{"Clouds", "02d", 27},
		{"Rain", "10d", 26},
		{"Thunderstorm", "11d", 25},
		{"Drizzle", "09d", 24},
	}

	for offset := 1; offset <= 5; offset++ {
		day := SyntheticDay(now, offset, NoJitter)
		want := expected[offset-1]

		if day.Condition != want.condition {
			t.Errorf("Offset %d: expected %s, got %s", offset, want.condition, day.Condition)
		}
		if day.IconCode != want.icon {
			t.Errorf("Offset %d: expected icon %s, got %s", offset, want.icon, day.IconCode)
		}
		if day.Temp != want.temp {
			t.Errorf("Offset %d: expected temp %d, got %d", offset, want.temp, day.Temp)
		}
		if day.TempMin >= day.Temp || day.TempMax <= day.Temp {
			t.Errorf("Offset %d: min/max do not bracket temp: %d/%d/%d", offset, day.TempMin, day.Temp, day.TempMax)
		}

		expectedLabel := now.AddDate(0, 0, offset).Format("Mon")
		if day.DayLabel != expectedLabel {
			t.Errorf("Offset %d: expected label %s, got %s", offset, expectedLabel, day.DayLabel)
		}
	}
}

func TestSyntheticDayPaletteWraps(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	day := SyntheticDay(now, 6, NoJitter)
	if day.Condition != "Clear" {
		t.Errorf("Offset 6 should wrap to Clear, got %s", day.Condition)
	}
}
