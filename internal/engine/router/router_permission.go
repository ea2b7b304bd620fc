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
	"github.com/gofiber/fiber/v2"
	"github.com/observabil/steward/internal/engine/constant"
	"github.com/observabil/steward/internal/engine/model"
	httpx "github.com/observabil/steward/pkg/http"
)

/**
 * @file: router_permission.go
 * @description: resource permission routes
 */

func (rt *Router) permissionRouter(r fiber.Router, auth fiber.Handler) {
	permGroup := r.Group("/permission", auth)
	{
		permGroup.Post("/grant", rt.grantPermission)
		permGroup.Post("/:permissionId/revoke", rt.revokePermission)
	}
}

func (rt *Router) grantPermission(c *fiber.Ctx) error {
	actor, err := rt.actor(c)
	if err != nil {
		return repErr(c, err)
	}
	var req model.GrantPermissionReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	resp, err := rt.admin.GrantPermission(c.Context(), actor, &req)
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.DETAIL, resp)
	return nil
}

func (rt *Router) revokePermission(c *fiber.Ctx) error {
	actor, err := rt.actor(c)
	if err != nil {
		return repErr(c, err)
	}
	if err := rt.admin.RevokePermission(c.Context(), actor, c.Params("permissionId")); err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.OPERATION, "")
	return nil
}
