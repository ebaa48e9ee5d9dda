package storage

import (
	"encoding/json"
	"io"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/galaxysim/internal/metrics"
)

type ExportData struct {
	Metadata  RunMetadata          `json:"metadata"`
	Metrics   []ExportMetricRow    `json:"metrics"`
	Snapshots []ExportSnapshotData `json:"snapshots"`
}

type ExportMetricRow struct {
	Step   int                `json:"step"`
	Values map[string]float64 `json:"values"`
}

type ExportSnapshotData struct {
	Step      int           `json:"step"`
	Positions [][2]*float64 `json:"positions"`
}

// ExportJSON writes metadata, metric series and snapshots of a run to w.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	_, rows, err := s.LoadMetrics(runID)
	if err != nil {
		return err
	}
	snaps, err := s.LoadSnapshots(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		Metadata:  *meta,
		Metrics:   exportRows(rows),
		Snapshots: make([]ExportSnapshotData, len(snaps)),
	}
	for i, snap := range snaps {
		data.Snapshots[i] = ExportSnapshotData{Step: snap.Step, Positions: pairs(snap.Positions)}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func exportRows(rows []metrics.Row) []ExportMetricRow {
	out := make([]ExportMetricRow, len(rows))
	for i, r := range rows {
		out[i] = ExportMetricRow{Step: r.Step, Values: finiteValues(r.Values)}
	}
	return out
}

// pairs keeps one entry per particle so indices line up with the run's
// population; NaN and Inf coordinates become null.
func pairs(ps []r2.Vec) [][2]*float64 {
	out := make([][2]*float64, len(ps))
	for i, p := range ps {
		out[i] = [2]*float64{finitePtr(p.X), finitePtr(p.Y)}
	}
	return out
}

func finitePtr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
