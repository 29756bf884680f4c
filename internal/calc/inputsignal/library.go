package inputsignal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
)

// Table is a measured magnitude spectrum stored as {"freq": [...], "data": [...]}.
type Table struct {
	Freq []float64 `json:"freq"`
	Data []float64 `json:"data"`
}

func (t *Table) validate() error {
	if len(t.Freq) == 0 || len(t.Freq) != len(t.Data) {
		return fmt.Errorf("table has %d frequencies and %d values", len(t.Freq), len(t.Data))
	}
	for i := 1; i < len(t.Freq); i++ {
		if !(t.Freq[i] > t.Freq[i-1]) {
			return fmt.Errorf("table frequencies not strictly increasing at index %d", i)
		}
	}
	return nil
}

// Library holds the measured spectra. It is read-only after construction.
type Library struct {
	speech   *Table
	clarinet *Table
}

// NewLibrary builds a library from tables already in memory. Either table
// may be nil, in which case that kind is unavailable.
func NewLibrary(speech, clarinet *Table) (*Library, error) {
	for _, t := range []*Table{speech, clarinet} {
		if t == nil {
			continue
		}
		if err := t.validate(); err != nil {
			return nil, err
		}
	}
	return &Library{speech: speech, clarinet: clarinet}, nil
}

// LoadLibrary reads speech_signal.json and clarinet_signal.json from dir.
// Missing files are logged and leave the kind unavailable.
func LoadLibrary(dir string) (*Library, error) {
	speech, err := readTable(filepath.Join(dir, "speech_signal.json"))
	if err != nil {
		return nil, err
	}
	clarinet, err := readTable(filepath.Join(dir, "clarinet_signal.json"))
	if err != nil {
		return nil, err
	}
	return NewLibrary(speech, clarinet)
}

func readTable(path string) (*Table, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("input signal table %s not found, signal disabled", path)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var t Table
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &t, nil
}
