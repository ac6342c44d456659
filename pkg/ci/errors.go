// Copyright 2025 Arcentra Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ci

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured means the provider or the trigger payload lacks required settings.
	ErrNotConfigured = errors.New("ci: not configured")
	// ErrInvalidPayload means the trigger configuration could not be used.
	ErrInvalidPayload = errors.New("ci: invalid trigger payload")
	// ErrNoWorkflow means the pipeline has no workflow yet.
	ErrNoWorkflow = errors.New("ci: pipeline has no workflow")
)

// APIError is a non-2xx response from the provider.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ci api error: status=%d body=%s", e.StatusCode, e.Body)
}
