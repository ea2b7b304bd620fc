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
 * @file: router_user.go
 * @description: tenant user routes
 */

func (rt *Router) userRouter(r fiber.Router, auth fiber.Handler) {
	userGroup := r.Group("/user", auth)
	{
		userGroup.Get("/list", rt.listUsers)
		userGroup.Post("/add", rt.addUser)
		userGroup.Put("/:userId/role", rt.updateUserRole)
		userGroup.Post("/:userId/enable", rt.enableUser)
		userGroup.Post("/:userId/disable", rt.disableUser)
		userGroup.Get("/:userId/permissions", rt.listUserPermissions)
	}
}

func (rt *Router) listUsers(c *fiber.Ctx) error {
	actor, err := rt.actor(c)
	if err != nil {
		return repErr(c, err)
	}
	users, err := rt.admin.GetTenantUsers(actor)
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.DETAIL, users)
	return nil
}

func (rt *Router) addUser(c *fiber.Ctx) error {
	actor, err := rt.actor(c)
	if err != nil {
		return repErr(c, err)
	}
	var req model.AddUserReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	info, err := rt.admin.AddUser(actor, &req)
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.DETAIL, info)
	return nil
}

func (rt *Router) updateUserRole(c *fiber.Ctx) error {
	actor, err := rt.actor(c)
	if err != nil {
		return repErr(c, err)
	}
	var req model.UpdateUserRoleReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	if err := rt.admin.UpdateUserRole(actor, c.Params("userId"), &req); err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.OPERATION, "")
	return nil
}

func (rt *Router) enableUser(c *fiber.Ctx) error {
	actor, err := rt.actor(c)
	if err != nil {
		return repErr(c, err)
	}
	if err := rt.admin.EnableUser(actor, c.Params("userId")); err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.OPERATION, "")
	return nil
}

func (rt *Router) disableUser(c *fiber.Ctx) error {
	actor, err := rt.actor(c)
	if err != nil {
		return repErr(c, err)
	}
	if err := rt.admin.DisableUser(actor, c.Params("userId")); err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.OPERATION, "")
	return nil
}

func (rt *Router) listUserPermissions(c *fiber.Ctx) error {
	actor, err := rt.actor(c)
	if err != nil {
		return repErr(c, err)
	}
	perms, err := rt.admin.ListEffectivePermissions(actor, c.Params("userId"))
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.DETAIL, perms)
	return nil
}
