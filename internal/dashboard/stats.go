// Package dashboard serves the municipal overview figures shown on the
// citizen-reporting dashboard: headline counters, per-category totals,
// report locations and the weekly trend.
package dashboard

// Stat is a headline counter with its week-over-week delta.
type Stat struct {
	Label string `json:"label"`
	Value int    `json:"value"`
	Delta int    `json:"delta"`
}

type CategoryCount struct {
	Category string `json:"categoria"`
	Count    int    `json:"conteggio"`
}

// Marker is a geolocated report pin.
type Marker struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Category    string  `json:"categoria"`
	Description string  `json:"descrizione"`
	Status      string  `json:"stato"`
}

type TrendPoint struct {
	Day   string `json:"giorno"`
	Count int    `json:"conteggio"`
}

// ReportRow is one line of the latest-reports table.
type ReportRow struct {
	ID       string `json:"id"`
	Date     string `json:"data"`
	Category string `json:"categoria"`
	Address  string `json:"indirizzo"`
	Status   string `json:"stato"`
}

func Stats() []Stat {
	return []Stat{
		{Label: "Segnalazioni Totali", Value: 1234, Delta: 45},
		{Label: "Risolte", Value: 782, Delta: 30},
		{Label: "In Lavorazione", Value: 328, Delta: -12},
		{Label: "Nuove", Value: 124, Delta: 27},
	}
}

func Categories() []CategoryCount {
	return []CategoryCount{
		{Category: "Strade e Marciapiedi", Count: 450},
		{Category: "Rifiuti e Igiene", Count: 320},
		{Category: "Parchi e Verde", Count: 210},
		{Category: "Traffico e Segnaletica", Count: 150},
		{Category: "Altre Criticità", Count: 104},
	}
}

// Markers returns the open report pins around the city centre.
func Markers() []Marker {
	return []Marker{
		{Lat: 40.8518, Lon: 14.2681, Category: "Strade e Marciapiedi", Description: "Buca profonda sulla carreggiata", Status: "Aperta"},
		{Lat: 40.8530, Lon: 14.2750, Category: "Rifiuti e Igiene", Description: "Cumulo di rifiuti abbandonati", Status: "In Lavorazione"},
		{Lat: 40.8480, Lon: 14.2620, Category: "Parchi e Verde", Description: "Albero pericolante nel parco", Status: "Aperta"},
		{Lat: 40.8555, Lon: 14.2590, Category: "Traffico e Segnaletica", Description: "Semaforo non funzionante", Status: "Risolta"},
		{Lat: 40.8495, Lon: 14.2710, Category: "Strade e Marciapiedi", Description: "Marciapiede dissestato", Status: "In Lavorazione"},
		{Lat: 40.8540, Lon: 14.2655, Category: "Rifiuti e Igiene", Description: "Cassonetto danneggiato", Status: "Aperta"},
		{Lat: 40.8470, Lon: 14.2700, Category: "Altre Criticità", Description: "Illuminazione pubblica spenta", Status: "Aperta"},
	}
}

func WeeklyTrend() []TrendPoint {
	return []TrendPoint{
		{Day: "Lunedì", Count: 120},
		{Day: "Martedì", Count: 150},
		{Day: "Mercoledì", Count: 180},
		{Day: "Giovedì", Count: 140},
		{Day: "Venerdì", Count: 160},
		{Day: "Sabato", Count: 130},
		{Day: "Domenica", Count: 110},
	}
}

func LatestReports() []ReportRow {
	return []ReportRow{
		{ID: "SGN-1234", Date: "2026-08-24", Category: "Strade e Marciapiedi", Address: "Via Toledo 45", Status: "Aperta"},
		{ID: "SGN-1233", Date: "2026-08-24", Category: "Rifiuti e Igiene", Address: "Piazza Garibaldi 12", Status: "In Lavorazione"},
		{ID: "SGN-1232", Date: "2026-08-23", Category: "Parchi e Verde", Address: "Villa Comunale", Status: "Aperta"},
		{ID: "SGN-1231", Date: "2026-08-23", Category: "Traffico e Segnaletica", Address: "Corso Umberto I 88", Status: "Risolta"},
		{ID: "SGN-1230", Date: "2026-08-22", Category: "Altre Criticità", Address: "Via Chiaia 21", Status: "Aperta"},
	}
}
