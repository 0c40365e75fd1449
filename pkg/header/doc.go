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

// Package header provides the common envelope for serialized codelist-check resources.
//
// Reports and rule tables carry a Kubernetes-style header so consumers can
// recognise the document type and the schema version before decoding the body:
//
//	kind: CodelistReport
//	apiVersion: clcheck.nvidia.com/v1alpha1
//	metadata:
//	  timestamp: "2025-06-14T10:30:00Z"
//	  version: v0.3.0
//	  runId: 6f1c...
//
// Embed Header inline and call Init before serialization:
//
//	type Report struct {
//	    header.Header `json:",inline" yaml:",inline"`
//	    ...
//	}
//
//	r.Init(header.KindReport, APIVersion, version)
package header
