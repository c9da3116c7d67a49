package models

// Entity identifies the subject of a forecast. ID is the only field the
// engine requires; Name and Region feed reporting and peer grouping.
type Entity struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Region string `json:"region"`
}

// HistoricalDataPoint is one observation in an entity's time series. The
// caller supplies points sorted ascending by timestamp; the engine treats
// them as read-only.
type HistoricalDataPoint struct {
	Timestamp       int64   `json:"timestamp"`
	TotalOutput     float64 `json:"total_output"`
	OutputPerCapita float64 `json:"output_per_capita"`
	TotalPopulation float64 `json:"total_population"`
	OutputTier      int     `json:"output_tier"`
	PopulationTier  int     `json:"population_tier"`
	VitalityScore   float64 `json:"vitality_score,omitempty"`
}
