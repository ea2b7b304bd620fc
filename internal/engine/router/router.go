// Copyright 2025 Steward Team
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

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/observabil/steward/internal/engine/authz"
	"github.com/observabil/steward/internal/engine/service"
	httpx "github.com/observabil/steward/pkg/http"
	"github.com/observabil/steward/pkg/http/jwt"
	"github.com/observabil/steward/pkg/http/middleware"
	"github.com/observabil/steward/pkg/version"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

/**
 * @file: router.go
 * @description: setup router
 */

type Router struct {
	Http  *httpx.Http
	rdb   *redis.Client
	admin *service.DelegatedAdminService
	auth  *service.AuthService
}

func NewRouter(httpConf *httpx.Http, rdb *redis.Client, admin *service.DelegatedAdminService, auth *service.AuthService) *Router {
	return &Router{
		Http:  httpConf,
		rdb:   rdb,
		admin: admin,
		auth:  auth,
	}
}

func (rt *Router) Router() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	if rt.Http.AccessLog {
		app.Use(middleware.AccessLog())
	}
	app.Use(middleware.UnifiedResponseMiddleware())

	if rt.Http.ExposeMetrics {
		app.Get("/metrics", func(c *fiber.Ctx) error {
			fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())(c.Context())
			return nil
		})
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	app.Get("/version", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(version.GetVersion().Json())
	})

	api := app.Group(rt.Http.ContextPath)
	auth := middleware.Authorization(rt.Http.Auth, rt.rdb)

	rt.authRouter(api, auth)
	rt.userRouter(api, auth)
	rt.teamRouter(api, auth)
	rt.invitationRouter(api, auth)
	rt.permissionRouter(api, auth)

	return app
}

// actor resolves the live acting user for an authenticated request. Role and
// status come from the user row, not the token, so demotions and disables
// bite immediately.
func (rt *Router) actor(c *fiber.Ctx) (authz.Actor, error) {
	claims, ok := c.Locals(middleware.ClaimsKey).(*jwt.AuthClaims)
	if !ok {
		return authz.Actor{}, errors.New("missing auth claims")
	}
	return rt.auth.ActorFromClaims(claims)
}

// repErr maps an engine error kind onto the unified error envelope.
func repErr(c *fiber.Ctx, err error) error {
	code := httpx.InternalError
	switch authz.Kind(err) {
	case authz.ErrTenantIsolation:
		code = httpx.TenantIsolationDenied
	case authz.ErrInactiveActor:
		code = httpx.ActorDisabled
	case authz.ErrAuthorization:
		code = httpx.PermissionDenied
	case authz.ErrValidation:
		code = httpx.ValidationFailed
	case authz.ErrConflict:
		code = httpx.Conflict
	case authz.ErrExpired:
		code = httpx.InvitationExpired
	case authz.ErrInvalidToken:
		code = httpx.InvitationTokenInvalid
	case authz.ErrNotFound:
		code = httpx.NotFound
	}
	return httpx.WithRepErrMsg(c, code.Code, err.Error(), c.Path())
}
