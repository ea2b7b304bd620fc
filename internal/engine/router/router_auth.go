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
	"github.com/observabil/steward/internal/engine/authz"
	"github.com/observabil/steward/internal/engine/constant"
	"github.com/observabil/steward/internal/engine/model"
	httpx "github.com/observabil/steward/pkg/http"
	"github.com/observabil/steward/pkg/http/jwt"
	"github.com/observabil/steward/pkg/http/middleware"
)

/**
 * @file: router_auth.go
 * @description: login/logout routes
 */

func (rt *Router) authRouter(r fiber.Router, auth fiber.Handler) {
	authGroup := r.Group("/auth")
	{
		authGroup.Post("/login", rt.login)
		authGroup.Post("/logout", auth, rt.logout)
	}
}

func (rt *Router) login(c *fiber.Ctx) error {
	var req model.Login
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	if req.Email == "" || req.Password == "" {
		return httpx.WithRepErrMsg(c, httpx.UsernameArePasswordIsRequired.Code, httpx.UsernameArePasswordIsRequired.Msg, c.Path())
	}

	resp, err := rt.auth.Login(c.Context(), &req)
	if err != nil {
		switch authz.Kind(err) {
		case authz.ErrNotFound:
			return httpx.WithRepErrMsg(c, httpx.UserNotExist.Code, httpx.UserNotExist.Msg, c.Path())
		case authz.ErrAuthorization:
			return httpx.WithRepErrMsg(c, httpx.UserIncorrectPassword.Code, httpx.UserIncorrectPassword.Msg, c.Path())
		case authz.ErrInactiveActor:
			return httpx.WithRepErrMsg(c, httpx.ActorDisabled.Code, httpx.ActorDisabled.Msg, c.Path())
		}
		return repErr(c, err)
	}

	c.Locals(constant.DETAIL, resp)
	return nil
}

func (rt *Router) logout(c *fiber.Ctx) error {
	claims, ok := c.Locals(middleware.ClaimsKey).(*jwt.AuthClaims)
	if !ok {
		return repErr(c, errors.New("missing auth claims"))
	}
	if err := rt.auth.Logout(c.Context(), claims.UserId); err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.OPERATION, "")
	return nil
}
