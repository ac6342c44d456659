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
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/arcentrix/e2epulse/internal/engine/model"
	"github.com/arcentrix/e2epulse/pkg/http"
	"github.com/arcentrix/e2epulse/pkg/http/middleware"
)

func (rt *Router) applicationRouter(r fiber.Router) {
	app := r.Group("/applications")
	{
		app.Post("/", rt.createApplication)
		app.Get("/", rt.listApplications)
		app.Get("/:id", rt.getApplication)
		app.Put("/:id", rt.updateApplication)
		app.Delete("/:id", rt.deleteApplication)
	}
}

func (rt *Router) createApplication(c *fiber.Ctx) error {
	var req model.CreateApplicationReq
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed, "", c.Path())
	}
	app, err := rt.Services.Application.CreateApplication(c.UserContext(), &req)
	if err != nil {
		return writeError(c, err)
	}
	c.Locals(middleware.STATUS, http.Created)
	c.Locals(middleware.DETAIL, app)
	return nil
}

func (rt *Router) listApplications(c *fiber.Ctx) error {
	var watching *bool
	if v := c.Query("watching"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return http.WithRepErrMsg(c, http.BadRequest, "invalid watching", c.Path())
		}
		watching = &b
	}
	apps, err := rt.Services.Application.ListApplications(c.UserContext(), watching)
	if err != nil {
		return writeError(c, err)
	}
	c.Locals(middleware.DETAIL, apps)
	return nil
}

func (rt *Router) getApplication(c *fiber.Ctx) error {
	id, ok := paramId(c, "id")
	if !ok {
		return http.WithRepErrMsg(c, http.BadRequest, "invalid application id", c.Path())
	}
	app, err := rt.Services.Application.GetApplication(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Locals(middleware.DETAIL, app)
	return nil
}

func (rt *Router) updateApplication(c *fiber.Ctx) error {
	id, ok := paramId(c, "id")
	if !ok {
		return http.WithRepErrMsg(c, http.BadRequest, "invalid application id", c.Path())
	}
	var req model.UpdateApplicationReq
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed, "", c.Path())
	}
	app, err := rt.Services.Application.UpdateApplication(c.UserContext(), id, &req)
	if err != nil {
		return writeError(c, err)
	}
	c.Locals(middleware.DETAIL, app)
	return nil
}

func (rt *Router) deleteApplication(c *fiber.Ctx) error {
	id, ok := paramId(c, "id")
	if !ok {
		return http.WithRepErrMsg(c, http.BadRequest, "invalid application id", c.Path())
	}
	if err := rt.Services.Application.DeleteApplication(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	c.Locals(middleware.DETAIL, fiber.Map{"id": id})
	return nil
}
