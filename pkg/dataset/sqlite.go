// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	clerrors "github.com/NVIDIA/codelist-check/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	_ "modernc.org/sqlite"
)

// SQLiteSource serves one table per domain from a SQLite database.
type SQLiteSource struct {
	db       *sql.DB
	location string
	owned    bool
	tables   map[string]string // domain -> table name
}

// OpenSQLite opens the database file at path for reading.
func OpenSQLite(path string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec("PRAGMA query_only = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting query_only: %w", err)
	}
	src := NewSQLiteSource(db, path)
	src.owned = true
	return src, nil
}

// NewSQLiteSource wraps an open database. The caller keeps ownership of db.
func NewSQLiteSource(db *sql.DB, location string) *SQLiteSource {
	return &SQLiteSource{db: db, location: location}
}

// Location returns the database path.
func (s *SQLiteSource) Location() string { return s.location }

// Domains lists user tables, upper-cased.
func (s *SQLiteSource) Domains(ctx context.Context) ([]string, error) {
	if s.tables == nil {
		if err := s.discover(ctx); err != nil {
			return nil, err
		}
	}
	domains := make([]string, 0, len(s.tables))
	for d := range s.tables {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return domains, nil
}

func (s *SQLiteSource) discover(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return fmt.Errorf("listing tables: %w", err)
	}
	defer rows.Close()

	upper := cases.Upper(language.Und)
	tables := make(map[string]string)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("scanning table name: %w", err)
		}
		domain := upper.String(name)
		if prev, ok := tables[domain]; ok {
			slog.Warn("duplicate domain table ignored", "domain", domain, "kept", prev, "ignored", name)
			continue
		}
		tables[domain] = name
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("listing tables: %w", err)
	}
	s.tables = tables
	return nil
}

// Load reads the whole table of domain.
func (s *SQLiteSource) Load(ctx context.Context, domain string) (*Dataset, error) {
	if s.tables == nil {
		if err := s.discover(ctx); err != nil {
			return nil, err
		}
	}
	table, ok := s.tables[domain]
	if !ok {
		return nil, clerrors.NewWithContext(clerrors.ErrCodeNotFound, "no table for domain",
			map[string]any{"domain": domain, "location": s.location})
	}
	return ReadSQLiteTable(ctx, s.db, table, domain)
}

// Close closes the database when the source opened it.
func (s *SQLiteSource) Close() error {
	if s.owned {
		return s.db.Close()
	}
	return nil
}

// ReadSQLiteTable reads every row of table. Integers widen to float64.
func ReadSQLiteTable(ctx context.Context, db *sql.DB, table, domain string) (*Dataset, error) {
	query := "SELECT * FROM " + quoteIdent(table)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying table %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns of %s: %w", table, err)
	}

	ds := &Dataset{Domain: domain, Columns: columns, Rows: []Row{}}
	cells := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range cells {
		ptrs[i] = &cells[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", table, err)
		}
		row := make(Row, len(columns))
		for i, name := range columns {
			row[name] = sqlValue(cells[i])
		}
		ds.Rows = append(ds.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", table, err)
	}
	return ds, nil
}

func sqlValue(cell any) Value {
	switch c := cell.(type) {
	case nil:
		return Null()
	case int64:
		return Number(float64(c))
	case float64:
		return Number(c)
	case string:
		return String(c)
	case []byte:
		return String(string(c))
	case bool:
		if c {
			return Number(1)
		}
		return Number(0)
	case time.Time:
		return String(c.Format(time.RFC3339))
	default:
		return String(fmt.Sprint(c))
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
