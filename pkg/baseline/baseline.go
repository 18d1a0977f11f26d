// Package baseline saves hotspot snapshots of CPU profiles and detects drift
// between them.
package baseline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/danpilch/gfxprof/pkg/cpuprofile"
	"github.com/danpilch/gfxprof/pkg/output"
	gojson "github.com/goccy/go-json"
)

// FunctionShare is a function's self and total time as a percentage of
// active time.
type FunctionShare struct {
	SelfPct  float64 `json:"self_pct"`
	TotalPct float64 `json:"total_pct"`
}

// Snapshot is the hotspot profile of one trace.
type Snapshot struct {
	Name         string                   `json:"name"`
	Timestamp    time.Time                `json:"timestamp"`
	Source       string                   `json:"source"`
	ActiveTimeUs int64                    `json:"active_time_us"`
	Functions    map[string]FunctionShare `json:"functions"`
}

// ErrInvalidName is returned for snapshot names that are not a plain file
// name.
var ErrInvalidName = errors.New("invalid baseline name")

// DefaultDir returns the default baseline storage directory.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gfxprof/baselines"
	}
	return filepath.Join(home, ".gfxprof", "baselines")
}

// NewSnapshot records the share of active time of every function in a.
func NewSnapshot(name, source string, a *cpuprofile.Analysis) *Snapshot {
	active := a.ActiveTimeUs()
	s := &Snapshot{
		Name:         name,
		Timestamp:    time.Now(),
		Source:       source,
		ActiveTimeUs: active,
		Functions:    make(map[string]FunctionShare, len(a.TotalTime)),
	}
	for fn, total := range a.TotalTime {
		switch fn {
		case cpuprofile.IdleName, cpuprofile.ProgramName, cpuprofile.RootName:
			continue
		}
		s.Functions[fn] = FunctionShare{
			SelfPct:  output.Percent(a.SelfTime[fn], active),
			TotalPct: output.Percent(total, active),
		}
	}
	return s
}

// Save writes a snapshot to <dir>/<name>.json.
func (s *Snapshot) Save(dir string) error {
	if err := validateName(s.Name); err != nil {
		return err
	}
	if dir == "" {
		dir = DefaultDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create baseline directory: %w", err)
	}

	path := filepath.Join(dir, s.Name+".json")
	data, err := gojson.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal baseline: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("cannot write baseline: %w", err)
	}
	return nil
}

// Load reads a snapshot saved under name.
func Load(name, dir string) (*Snapshot, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if dir == "" {
		dir = DefaultDir()
	}
	path := filepath.Join(dir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read baseline %q: %w", name, err)
	}

	var s Snapshot
	if err := gojson.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("cannot parse baseline: %w", err)
	}
	return &s, nil
}

// List returns all saved baseline names.
func List(dir string) ([]string, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".json" {
			names = append(names, e.Name()[:len(e.Name())-5])
		}
	}
	return names, nil
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
