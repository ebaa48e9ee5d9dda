package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/galaxysim/internal/dynamo"
	"github.com/san-kum/galaxysim/internal/metrics"
)

const (
	metadataFile  = "metadata.json"
	snapshotsFile = "snapshots.csv"
	metricsFile   = "metrics.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID             string             `json:"id"`
	Timestamp      time.Time          `json:"timestamp"`
	Seed           uint64             `json:"seed"`
	Particles      int                `json:"particles"`
	SimRadiusLY    float64            `json:"sim_radius_ly"`
	TimeScaleYears float64            `json:"time_scale_years"`
	EndStep        int                `json:"end_step"`
	G              float64            `json:"g"`
	Guard          string             `json:"guard"`
	SnapshotEvery  int                `json:"snapshot_every"`
	StepsTaken     int                `json:"steps_taken"`
	Metrics        map[string]float64 `json:"metrics"`
}

// Run is an open run directory. It is a dynamo.Sink writing particle
// positions every SnapshotEvery steps.
type Run struct {
	meta  RunMetadata
	dir   string
	file  *os.File
	w     *csv.Writer
	steps int
}

// Create makes a new run directory and opens its snapshot file.
func (s *Store) Create(meta RunMetadata) (*Run, error) {
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("run_%d_s%d", time.Now().UnixNano(), meta.Seed)
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.SnapshotEvery <= 0 {
		meta.SnapshotEvery = 1
	}

	dir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	f, err := os.Create(filepath.Join(dir, snapshotsFile))
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(f)
	if err := w.Write([]string{"step", "index", "x", "y"}); err != nil {
		f.Close()
		return nil, err
	}

	return &Run{meta: meta, dir: dir, file: f, w: w}, nil
}

func (r *Run) ID() string { return r.meta.ID }

func (r *Run) Consume(snap dynamo.Snapshot) error {
	if snap.Step > r.steps {
		r.steps = snap.Step
	}
	if snap.Step%r.meta.SnapshotEvery != 0 {
		return nil
	}
	step := strconv.Itoa(snap.Step)
	for i, p := range snap.Positions {
		row := []string{
			step,
			strconv.Itoa(i),
			strconv.FormatFloat(p.X, 'g', -1, 64),
			strconv.FormatFloat(p.Y, 'g', -1, 64),
		}
		if err := r.w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes snapshots and writes metadata and the metric series.
func (r *Run) Close(rec *metrics.Recorder) error {
	r.w.Flush()
	if err := r.w.Error(); err != nil {
		r.file.Close()
		return err
	}
	if err := r.file.Close(); err != nil {
		return err
	}

	r.meta.StepsTaken = r.steps
	if rec != nil {
		r.meta.Metrics = finiteValues(rec.Latest())
		if err := writeMetrics(filepath.Join(r.dir, metricsFile), rec.Names(), rec.Rows()); err != nil {
			return err
		}
	}
	return writeJSON(filepath.Join(r.dir, metadataFile), r.meta)
}

// finiteValues drops NaN and Inf, which encoding/json cannot represent.
func finiteValues(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[k] = v
	}
	return out
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeMetrics(path string, names []string, rows []metrics.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(append([]string{"step"}, names...)); err != nil {
		return err
	}
	for _, row := range rows {
		rec := []string{strconv.Itoa(row.Step)}
		for _, n := range names {
			rec = append(rec, strconv.FormatFloat(row.Values[n], 'g', -1, 64))
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns all runs with readable metadata, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata of %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadMetrics returns metric names and their per-step values.
func (s *Store) LoadMetrics(runID string) ([]string, []metrics.Row, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, metricsFile))
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	names := records[0][1:]
	rows := make([]metrics.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		step, err := strconv.Atoi(rec[0])
		if err != nil {
			continue
		}
		row := metrics.Row{Step: step, Values: make(map[string]float64, len(names))}
		for j, n := range names {
			if j+1 >= len(rec) {
				break
			}
			v, err := strconv.ParseFloat(rec[j+1], 64)
			if err != nil {
				continue
			}
			row.Values[n] = v
		}
		rows = append(rows, row)
	}
	return names, rows, nil
}

// LoadSnapshots returns the stored snapshots in step order.
func (s *Store) LoadSnapshots(runID string) ([]dynamo.Snapshot, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, snapshotsFile))
	if err != nil {
		return nil, err
	}

	var snaps []dynamo.Snapshot
	for _, rec := range records[min(1, len(records)):] {
		if len(rec) < 4 {
			continue
		}
		step, err1 := strconv.Atoi(rec[0])
		x, err2 := strconv.ParseFloat(rec[2], 64)
		y, err3 := strconv.ParseFloat(rec[3], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		if len(snaps) == 0 || snaps[len(snaps)-1].Step != step {
			snaps = append(snaps, dynamo.Snapshot{Step: step})
		}
		last := &snaps[len(snaps)-1]
		last.Positions = append(last.Positions, r2.Vec{X: x, Y: y})
	}
	return snaps, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}
