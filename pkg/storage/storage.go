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

// Package storage resolves user-supplied locations to afs URLs and reads
// objects with a size cap. Anything afs can address works: local paths,
// file://, mem:// and the cloud schemes linked into the binary.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	clerrors "github.com/NVIDIA/codelist-check/pkg/errors"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// NewService returns the afs service used for all metadata and dataset access.
func NewService() afs.Service {
	return afs.New()
}

// URL turns a plain path into an absolute file:// URL and leaves URLs alone.
func URL(location string) string {
	if strings.Contains(location, "://") {
		return location
	}
	if abs, err := filepath.Abs(location); err == nil {
		location = abs
	}
	return file.Scheme + "://" + filepath.ToSlash(location)
}

// Base returns the last path element of a URL.
func Base(URL string) string {
	_, name := url.Split(URL, file.Scheme)
	return name
}

// Within reports whether location lies under one of roots. Empty roots allow everything.
func Within(location string, roots []string) bool {
	if len(roots) == 0 {
		return true
	}
	location = URL(location)
	target := path.Clean(url.Path(location))
	for _, root := range roots {
		rootURL := URL(root)
		if url.Scheme(rootURL, file.Scheme) != url.Scheme(location, file.Scheme) {
			continue
		}
		base := strings.TrimSuffix(url.Path(rootURL), "/")
		if target == base || strings.HasPrefix(target, base+"/") {
			return true
		}
	}
	return false
}

// ReadAll reads the object at URL, failing when it exceeds limit bytes.
func ReadAll(ctx context.Context, fs afs.Service, URL string, limit int64) ([]byte, error) {
	reader, err := fs.OpenURL(ctx, URL)
	if err != nil {
		return nil, clerrors.WrapWithContext(clerrors.ErrCodeNotFound,
			"failed to open", err, map[string]any{"url": URL})
	}
	defer reader.Close()

	data, err := io.ReadAll(io.LimitReader(reader, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", URL, err)
	}
	if int64(len(data)) > limit {
		return nil, clerrors.NewWithContext(clerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("object exceeds %d bytes", limit), map[string]any{"url": URL})
	}
	return data, nil
}
