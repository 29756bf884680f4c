package httpq

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"

	"github.com/LucasCostaLobato/auditory-system-api/internal/calcerr"
)

// Series is a JSON object whose first key is a shared axis and whose other
// keys map to sequences of the same length, in insertion order.
type Series struct {
	axis   string
	keys   []string
	values map[string][]float64
}

func NewSeries(axis string, values []float64) *Series {
	return &Series{
		axis:   axis,
		keys:   []string{axis},
		values: map[string][]float64{axis: values},
	}
}

// Add sets key. Re-adding a key replaces its values but keeps its position.
func (s *Series) Add(key string, values []float64) *Series {
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = values
	return s
}

func (s *Series) Keys() []string { return append([]string(nil), s.keys...) }

func (s *Series) Get(key string) []float64 { return s.values[key] }

func (s *Series) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vals := s.values[k]
		if vals == nil {
			vals = []float64{}
		}
		vb, err := json.Marshal(vals)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// WriteJSON encodes v with status 200.
func WriteJSON(w http.ResponseWriter, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("encode response: %v", err)
		http.Error(w, "Response encoding error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(b)
}

// WriteError replies with the status calcerr assigns to err. Server side
// failures are logged.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := calcerr.Status(err)
	if status >= http.StatusInternalServerError {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	}
	http.Error(w, err.Error(), status)
}
