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
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/wire"

	"github.com/arcentrix/e2epulse/internal/engine/service"
	"github.com/arcentrix/e2epulse/pkg/http"
	"github.com/arcentrix/e2epulse/pkg/http/middleware"
	"github.com/arcentrix/e2epulse/pkg/log"
	"github.com/arcentrix/e2epulse/pkg/version"
)

// ProviderSet provides the HTTP router.
var ProviderSet = wire.NewSet(NewRouter)

type Router struct {
	Http     http.Http
	Services *service.Services
}

func NewRouter(conf http.Http, services *service.Services) *Router {
	conf.SetDefaults()
	return &Router{Http: conf, Services: services}
}

// Router builds the fiber app with every route mounted.
func (rt *Router) Router() *fiber.App {
	app := fiber.New(rt.Http.FiberConfig("e2epulse"))

	app.Use(recover.New())
	app.Use(middleware.HttpMetricsMiddleware())
	if rt.Http.AccessLog {
		app.Use(middleware.AccessLogMiddleware())
	}
	if cors := middleware.CorsMiddleware(rt.Http.CorsAllowOrigins); cors != nil {
		app.Use(cors)
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return http.WithRepData(c, http.Success, fiber.Map{
			"status":  "ok",
			"version": version.Version,
		})
	})

	api := app.Group("/api/v1", middleware.ResponseMiddleware())
	rt.reportRouter(api)
	rt.manualRunRouter(api)
	rt.applicationRouter(api)

	return app
}

// writeError maps service errors onto the response taxonomy.
func writeError(c *fiber.Ctx, err error) error {
	var rc http.ResponseCode
	switch {
	case errors.Is(err, service.ErrValidation):
		rc = http.BadRequest
	case errors.Is(err, service.ErrNotFound):
		rc = http.NotFound
	case errors.Is(err, service.ErrConflict):
		rc = http.Conflict
	case errors.Is(err, service.ErrExternalService):
		rc = http.BadGateway
	default:
		log.Errorw("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		return http.WithRepErrMsg(c, http.Failed, http.Failed.Msg, c.Path())
	}
	return http.WithRepErrMsg(c, rc, err.Error(), c.Path())
}

func paramId(c *fiber.Ctx, name string) (uint64, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Params(name)), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// parseTimeQuery accepts RFC3339 or YYYY-MM-DD (midnight UTC). Empty yields the zero time.
func parseTimeQuery(c *fiber.Ctx, key string) (time.Time, bool) {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return time.Time{}, true
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(service.DateLayout, v); err == nil {
		return t, true
	}
	return time.Time{}, false
}
