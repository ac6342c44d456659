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

package middleware

import (
	"github.com/arcentrix/e2epulse/pkg/http"
	"github.com/gofiber/fiber/v2"
)

const (
	// DETAIL holds the payload a handler wants wrapped in the envelope.
	DETAIL = "detail"
	// STATUS optionally overrides the success envelope, e.g. http.Created.
	STATUS = "status"
)

// ResponseMiddleware wraps c.Locals(DETAIL) in the standard envelope when the
// handler returned without writing a body.
func ResponseMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return err
		}
		if len(c.Response().Body()) > 0 {
			return nil
		}
		detail := c.Locals(DETAIL)
		rc := http.Success
		if s, ok := c.Locals(STATUS).(http.ResponseCode); ok {
			rc = s
		}
		return http.WithRepData(c, rc, detail)
	}
}
