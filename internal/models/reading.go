package models

import "time"

// Reading is one value fetched from the controller. Immutable once created.
type Reading struct {
	Address        string `json:"address"`
	DisplayName    string `json:"display_name"`
	RawValue       string `json:"raw_value"`       // element text, scaled by the controller
	Unit           string `json:"unit"`            // e.g. "°C"
	FormattedValue string `json:"formatted_value"` // e.g. "65.4°C"
	CapturedAtMs   int64  `json:"captured_at_ms"`
}

// CapturedAt returns the capture time in UTC.
func (r Reading) CapturedAt() time.Time {
	return time.UnixMilli(r.CapturedAtMs).UTC()
}

// Snapshot maps logical variable names to readings taken in the same poll cycle.
type Snapshot map[string]Reading

// Revision identifies a snapshot by its newest capture time. Zero for an empty snapshot.
func (s Snapshot) Revision() int64 {
	var rev int64
	for _, r := range s {
		if r.CapturedAtMs > rev {
			rev = r.CapturedAtMs
		}
	}
	return rev
}

// HistoryPoint is one boiler temperature sample for the chart.
type HistoryPoint struct {
	TimeLabel         string    `json:"time_label"` // HH:MM
	BoilerTemperature float64   `json:"boiler_temperature"`
	RecordedAt        time.Time `json:"recorded_at"`
}
