package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/golfsim/internal/flight"
	"github.com/san-kum/golfsim/internal/vector"
)

type ExportData struct {
	ID         string             `json:"id"`
	Label      string             `json:"label"`
	Steps      int                `json:"steps"`
	Landed     bool               `json:"landed"`
	Carry      float64            `json:"carry"`
	Points     []vector.Point     `json:"points"`
	Trajectory flight.Trajectory  `json:"trajectory"`
	Metrics    map[string]float64 `json:"metrics"`
}

func ExportJSON(w io.Writer, meta *RunMetadata, tr flight.Trajectory) error {
	data := ExportData{
		ID:         meta.ID,
		Label:      meta.Label,
		Steps:      meta.Steps,
		Landed:     meta.Landed,
		Carry:      meta.Carry,
		Points:     tr.Points(),
		Trajectory: tr,
		Metrics:    meta.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
