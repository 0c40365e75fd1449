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
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/NVIDIA/codelist-check/pkg/defaults"
	clerrors "github.com/NVIDIA/codelist-check/pkg/errors"
	"github.com/NVIDIA/codelist-check/pkg/storage"
	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SQLiteScheme selects a SQLite source explicitly: sqlite:///srv/study.db.
const SQLiteScheme = "sqlite://"

// Dataset file extensions read by DirSource.
const (
	ExtCSV  = ".csv"
	ExtJSON = ".json"
	ExtSAS  = ".sas7bdat"
)

var dirExts = map[string]bool{ExtCSV: true, ExtJSON: true, ExtSAS: true}

var sqliteExts = map[string]bool{".db": true, ".sqlite": true, ".sqlite3": true}

// Open picks a source for location: a SQLite database by scheme or extension,
// otherwise a directory of dataset files read through fs.
func Open(ctx context.Context, fs afs.Service, location string) (Source, error) {
	if location == "" {
		return nil, clerrors.New(clerrors.ErrCodeInvalidRequest, "data location is required")
	}
	if p, ok := strings.CutPrefix(location, SQLiteScheme); ok {
		return OpenSQLite(p)
	}
	if sqliteExts[strings.ToLower(path.Ext(location))] {
		if strings.Contains(location, "://") && !strings.HasPrefix(location, "file://") {
			return nil, clerrors.NewWithContext(clerrors.ErrCodeInvalidRequest,
				"sqlite sources must be local files", map[string]any{"location": location})
		}
		return OpenSQLite(url.Path(storage.URL(location)))
	}
	return NewDirSource(fs, location), nil
}

// DirSource reads one .sas7bdat, .csv or Dataset-JSON .json file per domain from a
// directory. The domain is the upper-cased file stem: dm.csv serves DM.
type DirSource struct {
	fs    afs.Service
	url   string
	files map[string]string // domain -> object URL
}

// NewDirSource returns a source over the directory at location.
func NewDirSource(fs afs.Service, location string) *DirSource {
	return &DirSource{fs: fs, url: storage.URL(location)}
}

// Location returns the directory URL.
func (s *DirSource) Location() string { return s.url }

// Domains lists the domains with a readable dataset file.
func (s *DirSource) Domains(ctx context.Context) ([]string, error) {
	if s.files == nil {
		if err := s.discover(ctx); err != nil {
			return nil, err
		}
	}
	domains := make([]string, 0, len(s.files))
	for d := range s.files {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return domains, nil
}

func (s *DirSource) discover(ctx context.Context) error {
	objects, err := s.fs.List(ctx, s.url)
	if err != nil {
		return clerrors.WrapWithContext(clerrors.ErrCodeNotFound, "failed to list datasets", err,
			map[string]any{"url": s.url})
	}

	names := make([]string, 0, len(objects))
	byName := make(map[string]string, len(objects))
	for _, o := range objects {
		if o.IsDir() {
			continue
		}
		names = append(names, o.Name())
		byName[o.Name()] = o.URL()
	}
	sort.Strings(names)

	upper := cases.Upper(language.Und)
	files := make(map[string]string)
	for _, name := range names {
		ext := strings.ToLower(path.Ext(name))
		if !dirExts[ext] {
			continue
		}
		domain := upper.String(strings.TrimSuffix(name, path.Ext(name)))
		if prev, ok := files[domain]; ok {
			slog.Warn("duplicate domain dataset ignored", "domain", domain, "kept", storage.Base(prev), "ignored", name)
			continue
		}
		files[domain] = byName[name]
	}
	s.files = files
	return nil
}

// Load reads the dataset file of domain.
func (s *DirSource) Load(ctx context.Context, domain string) (*Dataset, error) {
	if s.files == nil {
		if err := s.discover(ctx); err != nil {
			return nil, err
		}
	}
	URL, ok := s.files[domain]
	if !ok {
		return nil, clerrors.NewWithContext(clerrors.ErrCodeNotFound, "no dataset for domain",
			map[string]any{"domain": domain, "location": s.url})
	}

	data, err := storage.ReadAll(ctx, s.fs, URL, defaults.MaxDatasetSize)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(path.Ext(URL)) {
	case ExtCSV:
		return ReadCSV(bytes.NewReader(data), domain)
	case ExtJSON:
		return ReadJSON(bytes.NewReader(data), domain)
	case ExtSAS:
		return ReadSAS7BDAT(bytes.NewReader(data), domain)
	default:
		return nil, fmt.Errorf("unsupported dataset file %s", URL)
	}
}

// Close is a no-op; afs objects are opened per load.
func (s *DirSource) Close() error { return nil }
