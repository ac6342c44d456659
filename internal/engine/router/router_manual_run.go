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

package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arcentrix/e2epulse/pkg/http"
	"github.com/arcentrix/e2epulse/pkg/http/middleware"
)

func (rt *Router) manualRunRouter(r fiber.Router) {
	r.Post("/manual-runs", rt.triggerManualRun)

	app := r.Group("/applications/:id/manual-runs")
	{
		app.Get("/", rt.listManualRuns)
		app.Get("/latest", rt.getLatestRunStatus)
	}
}

func (rt *Router) triggerManualRun(c *fiber.Ctx) error {
	var req struct {
		ApplicationId uint64 `json:"applicationId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed, "", c.Path())
	}
	if req.ApplicationId == 0 {
		return http.WithRepErrMsg(c, http.BadRequest, "applicationId is required", c.Path())
	}

	run, err := rt.Services.ManualRun.TriggerManualRun(c.UserContext(), req.ApplicationId)
	if err != nil {
		return writeError(c, err)
	}
	c.Locals(middleware.STATUS, http.Created)
	c.Locals(middleware.DETAIL, run)
	return nil
}

func (rt *Router) listManualRuns(c *fiber.Ctx) error {
	appId, ok := paramId(c, "id")
	if !ok {
		return http.WithRepErrMsg(c, http.BadRequest, "invalid application id", c.Path())
	}
	from, ok := parseTimeQuery(c, "from")
	if !ok {
		return http.WithRepErrMsg(c, http.BadRequest, "invalid from", c.Path())
	}
	to, ok := parseTimeQuery(c, "to")
	if !ok {
		return http.WithRepErrMsg(c, http.BadRequest, "invalid to", c.Path())
	}

	runs, err := rt.Services.ManualRun.ListManualRuns(c.UserContext(), appId, from, to)
	if err != nil {
		return writeError(c, err)
	}
	c.Locals(middleware.DETAIL, runs)
	return nil
}

func (rt *Router) getLatestRunStatus(c *fiber.Ctx) error {
	appId, ok := paramId(c, "id")
	if !ok {
		return http.WithRepErrMsg(c, http.BadRequest, "invalid application id", c.Path())
	}
	status, err := rt.Services.ManualRun.GetLatestRunStatus(c.UserContext(), appId)
	if err != nil {
		return writeError(c, err)
	}
	c.Locals(middleware.DETAIL, status)
	return nil
}
