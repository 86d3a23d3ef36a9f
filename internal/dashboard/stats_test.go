package dashboard

import "testing"

func TestStatsConsistency(t *testing.T) {
	stats := Stats()
	if len(stats) != 4 {
		t.Fatalf("got %d stats, want 4", len(stats))
	}
	total := stats[0].Value
	sum := 0
	for _, s := range stats[1:] {
		sum += s.Value
	}
	if sum != total {
		t.Errorf("resolved+in-progress+new = %d, want total %d", sum, total)
	}
}

func TestCategoriesSumToTotal(t *testing.T) {
	sum := 0
	for _, c := range Categories() {
		sum += c.Count
	}
	if sum != Stats()[0].Value {
		t.Errorf("category counts sum to %d, want %d", sum, Stats()[0].Value)
	}
}

func TestWeeklyTrendCoversWeek(t *testing.T) {
	trend := WeeklyTrend()
	if len(trend) != 7 {
		t.Fatalf("got %d trend points, want 7", len(trend))
	}
	if trend[0].Day != "Lunedì" || trend[6].Day != "Domenica" {
		t.Errorf("week bounds = %s..%s, want Lunedì..Domenica", trend[0].Day, trend[6].Day)
	}
}

func TestMarkersHaveCoordinates(t *testing.T) {
	for i, m := range Markers() {
		if m.Lat == 0 || m.Lon == 0 {
			t.Errorf("marker %d missing coordinates: %+v", i, m)
		}
		if m.Status == "" || m.Category == "" {
			t.Errorf("marker %d missing status or category", i)
		}
	}
}
