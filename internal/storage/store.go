package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/golfsim/internal/config"
	"github.com/san-kum/golfsim/internal/flight"
	"github.com/san-kum/golfsim/internal/vector"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

// ErrInvalidRunID is returned for ids and labels that are not a single path
// element.
var ErrInvalidRunID = errors.New("invalid run id")

var trajectoryHeader = []string{"step", "x", "y", "speed", "angle", "spin"}

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
	ID        string              `json:"id"`
	Label     string              `json:"label"`
	Timestamp time.Time           `json:"timestamp"`
	Launch    config.LaunchConfig `json:"launch"`
	BallMass  float64             `json:"ball_mass"`
	Diameter  float64             `json:"ball_diameter"`
	MaxSteps  int                 `json:"max_steps"`
	Steps     int                 `json:"steps"`
	Landed    bool                `json:"landed"`
	Carry     float64             `json:"carry"`
	Metrics   map[string]float64  `json:"metrics"`
}

// Save writes the run under a fresh id and returns that id.
func (s *Store) Save(label string, cfg *config.Config, result *flight.Result) (string, error) {
	if err := checkID(label); err != nil {
		return "", err
	}
	runID := fmt.Sprintf("%s_%s", label, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Label:     label,
		Timestamp: time.Now(),
		Launch:    cfg.Launch,
		BallMass:  cfg.BallMass,
		Diameter:  cfg.BallDiameter,
		MaxSteps:  cfg.MaxSteps,
		Steps:     result.Steps(),
		Landed:    result.Landed,
		Carry:     result.Carry(),
		Metrics:   result.Metrics,
	}

	if err := writeRun(runDir, meta, result.Trajectory); err != nil {
		_ = os.RemoveAll(runDir)
		return "", err
	}
	return runID, nil
}

func writeRun(runDir string, meta RunMetadata, tr flight.Trajectory) (err error) {
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return err
	}

	csvFile, err := os.Create(filepath.Join(runDir, trajectoryFile))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := csvFile.Close(); err == nil {
			err = cerr
		}
	}()

	return WriteCSV(csvFile, tr)
}

// List returns all readable runs, oldest first.
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
	if err := checkID(runID); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadTrajectory(runID string) (flight.Trajectory, error) {
	if err := checkID(runID); err != nil {
		return nil, err
	}
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadCSV(file)
}

func checkID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidRunID, id)
	}
	return nil
}

// WriteCSV writes one row per sample with full float precision.
func WriteCSV(w io.Writer, tr flight.Trajectory) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(trajectoryHeader); err != nil {
		return err
	}

	for _, smp := range tr {
		row := []string{
			strconv.Itoa(smp.Step),
			formatFloat(smp.Position.X),
			formatFloat(smp.Position.Y),
			formatFloat(smp.Velocity.Magnitude),
			formatFloat(smp.Velocity.Angle),
			formatFloat(smp.Spin),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func ReadCSV(r io.Reader) (flight.Trajectory, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(trajectoryHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return flight.Trajectory{}, nil
	}

	tr := make(flight.Trajectory, 0, len(records)-1)
	for i, record := range records[1:] {
		smp, err := parseSample(record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		tr = append(tr, smp)
	}

	return tr, nil
}

func parseSample(record []string) (flight.Sample, error) {
	step, err := strconv.Atoi(record[0])
	if err != nil {
		return flight.Sample{}, err
	}

	vals := make([]float64, len(record)-1)
	for i, field := range record[1:] {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return flight.Sample{}, err
		}
		vals[i] = v
	}

	return flight.Sample{
		Step:     step,
		Position: vector.Point{X: vals[0], Y: vals[1]},
		Velocity: vector.Polar{Magnitude: vals[2], Angle: vals[3]},
		Spin:     vals[4],
	}, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeJSON(path string, v any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
