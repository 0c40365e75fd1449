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

package validator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/NVIDIA/codelist-check/pkg/dataset"
	"github.com/NVIDIA/codelist-check/pkg/define"
	clerrors "github.com/NVIDIA/codelist-check/pkg/errors"
	"github.com/NVIDIA/codelist-check/pkg/report"
	"github.com/NVIDIA/codelist-check/pkg/resolver"
	"github.com/NVIDIA/codelist-check/pkg/storage"
	"github.com/viant/afs"
)

// Pipeline loads a define document, resolves it, and validates a dataset
// location against the result. Resolution always completes before any
// dataset is opened.
type Pipeline struct {
	FS        afs.Service
	Resolver  *resolver.Resolver
	Validator *Validator
}

// NewPipeline returns a pipeline with defaults for any nil component.
func NewPipeline(fs afs.Service, r *resolver.Resolver, v *Validator) *Pipeline {
	if fs == nil {
		fs = storage.NewService()
	}
	if r == nil {
		r = resolver.New()
	}
	if v == nil {
		v = New()
	}
	return &Pipeline{FS: fs, Resolver: r, Validator: v}
}

// Rules loads and resolves the define document at defineLocation.
func (p *Pipeline) Rules(ctx context.Context, defineLocation string) (*resolver.RuleTable, error) {
	doc, err := define.Load(ctx, p.FS, defineLocation)
	if err != nil {
		return nil, err
	}

	table, err := p.Resolver.Resolve(doc)
	if err != nil {
		return nil, err
	}
	table.Define = storage.URL(defineLocation)
	return table, nil
}

// Check resolves defineLocation and validates every dataset under dataLocation.
func (p *Pipeline) Check(ctx context.Context, defineLocation, dataLocation string) (*report.Report, error) {
	if dataLocation == "" {
		return nil, clerrors.New(clerrors.ErrCodeInvalidRequest, "data location is required")
	}

	table, err := p.Rules(ctx, defineLocation)
	if err != nil {
		return nil, err
	}

	src, err := dataset.Open(ctx, p.FS, dataLocation)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			slog.Warn("failed to close dataset source", "error", cerr, "location", src.Location())
		}
	}()

	rep, err := p.Validator.Validate(ctx, table, src)
	if err != nil {
		return nil, fmt.Errorf("failed to validate %s: %w", dataLocation, err)
	}
	return rep, nil
}
