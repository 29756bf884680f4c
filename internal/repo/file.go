package repo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// FileSource reads <Dir>/<fit>.txt files, each holding the 16 whitespace
// separated values of one reference fit.
type FileSource struct {
	Dir string
}

func NewFileSource(dir string) *FileSource {
	return &FileSource{Dir: dir}
}

func (s *FileSource) Load(ctx context.Context) (map[string]ParameterSet, error) {
	paths, err := filepath.Glob(filepath.Join(s.Dir, "*.txt"))
	if err != nil {
		return nil, err
	}
	out := make(map[string]ParameterSet, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, err := ReadParameterFile(path)
		if err != nil {
			return nil, err
		}
		out[strings.TrimSuffix(filepath.Base(path), ".txt")] = p
	}
	return out, nil
}

// ReadParameterFile parses one parameter file.
func ReadParameterFile(path string) (ParameterSet, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return ParameterSet{}, err
	}
	p, err := ParseParameters(string(b))
	if err != nil {
		return ParameterSet{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// ParseParameters parses the whitespace delimited parameter file format.
func ParseParameters(text string) (ParameterSet, error) {
	fields := strings.Fields(text)
	values := make([]float64, 0, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return ParameterSet{}, fmt.Errorf("value %d (%q): %w", i+1, f, err)
		}
		values = append(values, v)
	}
	return ParameterSetFromValues(values)
}
