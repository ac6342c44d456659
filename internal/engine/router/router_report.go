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
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/arcentrix/e2epulse/pkg/http"
	"github.com/arcentrix/e2epulse/pkg/http/middleware"
)

func (rt *Router) reportRouter(r fiber.Router) {
	report := r.Group("/reports")
	{
		report.Get("/", rt.getReport)
		report.Post("/:date/regenerate", rt.regenerateReport)
		report.Delete("/:date", rt.deleteReport)
		report.Post("/:summaryId/applications/:applicationId/refresh", rt.refreshDetail)
	}
}

func (rt *Router) getReport(c *fiber.Ctx) error {
	date := strings.TrimSpace(c.Query("date"))
	if date == "" {
		return http.WithRepErrMsg(c, http.BadRequest, "date is required", c.Path())
	}

	report, err := rt.Services.Report.GetReport(c.UserContext(), date)
	if err != nil {
		return writeError(c, err)
	}
	if report.Pending() {
		c.Locals(middleware.STATUS, http.Accepted)
	}
	c.Locals(middleware.DETAIL, report)
	return nil
}

func (rt *Router) regenerateReport(c *fiber.Ctx) error {
	date := strings.TrimSpace(c.Params("date"))
	if err := rt.Services.Report.RequestGeneration(c.UserContext(), date); err != nil {
		return writeError(c, err)
	}
	c.Locals(middleware.STATUS, http.Accepted)
	c.Locals(middleware.DETAIL, fiber.Map{"date": date})
	return nil
}

func (rt *Router) deleteReport(c *fiber.Ctx) error {
	date := strings.TrimSpace(c.Params("date"))
	if err := rt.Services.Report.DeleteReport(c.UserContext(), date); err != nil {
		return writeError(c, err)
	}
	c.Locals(middleware.DETAIL, fiber.Map{"date": date})
	return nil
}

func (rt *Router) refreshDetail(c *fiber.Ctx) error {
	summaryId, ok := paramId(c, "summaryId")
	if !ok {
		return http.WithRepErrMsg(c, http.BadRequest, "invalid summary id", c.Path())
	}
	applicationId, ok := paramId(c, "applicationId")
	if !ok {
		return http.WithRepErrMsg(c, http.BadRequest, "invalid application id", c.Path())
	}

	detail, err := rt.Services.Report.RefreshDetail(c.UserContext(), summaryId, applicationId)
	if err != nil {
		return writeError(c, err)
	}
	c.Locals(middleware.DETAIL, detail)
	return nil
}
