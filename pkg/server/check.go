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

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/NVIDIA/codelist-check/pkg/config"
	"github.com/NVIDIA/codelist-check/pkg/defaults"
	clerrors "github.com/NVIDIA/codelist-check/pkg/errors"
	"github.com/NVIDIA/codelist-check/pkg/resolver"
	"github.com/NVIDIA/codelist-check/pkg/serializer"
	"github.com/NVIDIA/codelist-check/pkg/storage"
	"github.com/NVIDIA/codelist-check/pkg/validator"
	"github.com/viant/afs"
)

// API routes served by CheckHandler.
const (
	RouteCheck = "/v1/check"
	RouteRules = "/v1/rules"
)

// CheckRequest is the body of POST /v1/check and POST /v1/rules.
// Optional fields fall back to the service configuration.
type CheckRequest struct {
	Define            string   `json:"define"`
	Data              string   `json:"data,omitempty"`
	NumericCodes      *bool    `json:"numericCodes,omitempty"`
	ExcludedCodeLists []string `json:"excludedCodeLists,omitempty"`
	Delimiter         string   `json:"delimiter,omitempty"`
}

// CheckHandler runs checks on behalf of HTTP clients.
type CheckHandler struct {
	FS       afs.Service
	Defaults config.Config
	Version  string
	Timeout  time.Duration
}

// NewCheckHandler returns a handler using cfg for request defaults and limits.
func NewCheckHandler(fs afs.Service, cfg *config.Config, version string) *CheckHandler {
	if fs == nil {
		fs = storage.NewService()
	}
	if cfg == nil {
		cfg = config.Default()
	}
	return &CheckHandler{
		FS:       fs,
		Defaults: *cfg,
		Version:  version,
		Timeout:  defaults.CheckHandlerTimeout,
	}
}

// Routes returns the API routes for WithHandler.
func (h *CheckHandler) Routes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		RouteCheck: h.HandleCheck,
		RouteRules: h.HandleRules,
	}
}

// HandleCheck resolves the define document and validates the data location,
// responding with the report.
func (h *CheckHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	if req.Data == "" {
		WriteError(w, r, http.StatusBadRequest, clerrors.ErrCodeInvalidRequest,
			"data location is required", false, nil)
		return
	}
	if !h.allowed(w, r, req.Data) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	rep, err := h.pipeline(req).Check(ctx, req.Define, req.Data)
	if err != nil {
		h.fail(w, r, err, "check failed")
		return
	}

	checkReports.WithLabelValues(string(rep.Summary.Status)).Inc()
	checkFindings.Add(float64(rep.Summary.MissingInData + rep.Summary.MissingInMetadata))

	serializer.RespondJSON(w, http.StatusOK, rep)
}

// HandleRules resolves the define document and responds with the rule table.
func (h *CheckHandler) HandleRules(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	table, err := h.pipeline(req).Rules(ctx, req.Define)
	if err != nil {
		h.fail(w, r, err, "resolution failed")
		return
	}

	serializer.RespondJSON(w, http.StatusOK, table)
}

// Ready reports whether every allowed root is reachable through the handler's
// storage service. With no allowed roots there is nothing to reach.
func (h *CheckHandler) Ready(ctx context.Context) error {
	for _, root := range h.Defaults.Server.AllowedRoots {
		URL := storage.URL(root)
		ok, err := h.FS.Exists(ctx, URL)
		if err != nil {
			return fmt.Errorf("allowed root %s: %w", URL, err)
		}
		if !ok {
			return fmt.Errorf("allowed root %s does not exist", URL)
		}
	}
	return nil
}

// decode reads and checks the request body, writing the error response itself.
func (h *CheckHandler) decode(w http.ResponseWriter, r *http.Request) (*CheckRequest, bool) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		WriteError(w, r, http.StatusMethodNotAllowed, clerrors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{"method": r.Method})
		return nil, false
	}

	limit := h.Defaults.Server.MaxRequestBytes
	if limit <= 0 {
		limit = defaults.DefaultMaxRequestBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req CheckRequest
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, r, http.StatusRequestEntityTooLarge, clerrors.ErrCodeInvalidRequest,
				fmt.Sprintf("request body exceeds %d bytes", limit), false, nil)
			return nil, false
		}
		WriteError(w, r, http.StatusBadRequest, clerrors.ErrCodeInvalidRequest,
			"invalid request body", false, map[string]any{"error": err.Error()})
		return nil, false
	}

	if req.Define == "" {
		WriteError(w, r, http.StatusBadRequest, clerrors.ErrCodeInvalidRequest,
			"define location is required", false, nil)
		return nil, false
	}
	if !h.allowed(w, r, req.Define) {
		return nil, false
	}
	return &req, true
}

// allowed rejects locations outside the configured roots.
func (h *CheckHandler) allowed(w http.ResponseWriter, r *http.Request, location string) bool {
	URL := storage.URL(location)
	if storage.Within(URL, h.Defaults.Server.AllowedRoots) {
		return true
	}
	slog.Warn("location outside allowed roots", "url", URL)
	WriteError(w, r, http.StatusForbidden, clerrors.ErrCodeInvalidRequest,
		"location is outside the allowed roots", false, map[string]any{"location": location})
	return false
}

func (h *CheckHandler) pipeline(req *CheckRequest) *validator.Pipeline {
	excluded := h.Defaults.ExcludedCodeLists
	if req.ExcludedCodeLists != nil {
		excluded = req.ExcludedCodeLists
	}
	delimiter := h.Defaults.Delimiter
	if req.Delimiter != "" {
		delimiter = req.Delimiter
	}
	numeric := h.Defaults.NumericCodes
	if req.NumericCodes != nil {
		numeric = *req.NumericCodes
	}

	res := resolver.New(
		resolver.WithExcludedCodeLists(excluded...),
		resolver.WithDelimiter(delimiter),
		resolver.WithVersion(h.Version),
	)
	val := validator.New(
		validator.WithVersion(h.Version),
		validator.WithConcurrency(h.Defaults.Concurrency),
		validator.WithNumericCodes(numeric),
	)
	return validator.NewPipeline(h.FS, res, val)
}

func (h *CheckHandler) fail(w http.ResponseWriter, r *http.Request, err error, message string) {
	if errors.Is(err, context.DeadlineExceeded) && clerrors.CodeOf(err) == "" {
		err = clerrors.Wrap(clerrors.ErrCodeTimeout, "check timed out", err)
	}
	slog.Warn(message, "error", err, "requestID", r.Context().Value(contextKeyRequestID))
	WriteErrorFromErr(w, r, err, message, nil)
}
