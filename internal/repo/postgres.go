package repo

import (
	"context"
	"database/sql"
	"log"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

const selectParameters = `SELECT reference_fit, m1, m2, m3, m4,
	k1, k2, k3, k4, k5, k6, k7,
	eta1, eta2, eta3, eta4, tm_area
	FROM middle_ear_parameters`

// PostgresSource reads reference fits from the middle_ear_parameters table.
type PostgresSource struct {
	db *sql.DB
}

func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) Load(ctx context.Context) (map[string]ParameterSet, error) {
	rows, err := s.db.QueryContext(ctx, selectParameters)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]ParameterSet)
	for rows.Next() {
		var (
			fit string
			v   [NumParameters]float64
		)
		dest := []any{&fit}
		for i := range v {
			dest = append(dest, &v[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		p, err := ParameterSetFromValues(v[:])
		if err != nil {
			log.Printf("skipping reference fit %q: %v", fit, err)
			continue
		}
		out[fit] = p
	}
	return out, rows.Err()
}

// OpenDB opens and pings a Postgres connection for the startup load.
func OpenDB(ctx context.Context, connStr string) (*sql.DB, error) {
	if !strings.Contains(connStr, "sslmode=") {
		if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
			connStr = connStr + "?sslmode=require"
		} else {
			connStr = connStr + " sslmode=require"
		}
	}
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
