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

package serializer

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// IsObjectURL reports whether location addresses non-local storage
// (s3://, gs://, mem:// and other afs schemes).
func IsObjectURL(location string) bool {
	return url.Scheme(location, file.Scheme) != file.Scheme
}

// ObjectWriter serializes into memory and uploads the result to an afs URL.
// Each Serialize call replaces the object.
type ObjectWriter struct {
	format Format
	url    string
	fs     afs.Service
}

// NewObjectWriter creates a writer uploading to the given URL.
func NewObjectWriter(format Format, URL string) *ObjectWriter {
	return NewObjectWriterWithService(afs.New(), format, URL)
}

// NewObjectWriterWithService creates a writer using the supplied afs service.
func NewObjectWriterWithService(fs afs.Service, format Format, URL string) *ObjectWriter {
	return &ObjectWriter{
		format: knownOrJSON(format),
		url:    URL,
		fs:     fs,
	}
}

// Serialize encodes v and uploads it.
func (w *ObjectWriter) Serialize(ctx context.Context, v any) error {
	var buf bytes.Buffer
	if err := encode(&buf, w.format, v); err != nil {
		return err
	}

	if err := w.fs.Upload(ctx, w.url, file.DefaultFileOsMode, bytes.NewReader(buf.Bytes())); err != nil {
		return fmt.Errorf("failed to upload %s: %w", w.url, err)
	}

	slog.Debug("uploaded serialized output",
		"url", w.url,
		"format", w.format,
		"size", buf.Len())
	return nil
}

// Close is a no-op; uploads complete within Serialize.
func (w *ObjectWriter) Close() error {
	return nil
}
