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
 * @file: router_team.go
 * @description: team routes
 */

func (rt *Router) teamRouter(r fiber.Router, auth fiber.Handler) {
	teamGroup := r.Group("/team", auth)
	{
		teamGroup.Post("/create", rt.createTeam)
		teamGroup.Get("/list", rt.listTeams)
		teamGroup.Delete("/:teamId", rt.deleteTeam)
		teamGroup.Get("/:teamId/members", rt.listTeamMembers)
		teamGroup.Post("/:teamId/members", rt.addTeamMember)
		teamGroup.Delete("/members/:memberId", rt.removeTeamMember)
		teamGroup.Post("/:teamId/admin/:userId", rt.assignTeamAdmin)
	}
}

func (rt *Router) createTeam(c *fiber.Ctx) error {
	actor, err := rt.actor(c)
	if err != nil {
		return repErr(c, err)
	}
	var req model.CreateTeamReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	resp, err := rt.admin.CreateTeam(actor, &req)
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.DETAIL, resp)
	return nil
}

func (rt *Router) listTeams(c *fiber.Ctx) error {
	actor, err := rt.actor(c)
	if err != nil {
		return repErr(c, err)
	}
	teams, err := rt.admin.GetTeams(actor)
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.DETAIL, teams)
	return nil
}

func (rt *Router) deleteTeam(c *fiber.Ctx) error {
	actor, err := rt.actor(c)
	if err != nil {
		return repErr(c, err)
	}
	if err := rt.admin.DeleteTeam(actor, c.Params("teamId")); err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.OPERATION, "")
	return nil
}

func (rt *Router) listTeamMembers(c *fiber.Ctx) error {
	actor, err := rt.actor(c)
	if err != nil {
		return repErr(c, err)
	}
	members, err := rt.admin.GetTeamMembers(actor, c.Params("teamId"))
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.DETAIL, members)
	return nil
}

func (rt *Router) addTeamMember(c *fiber.Ctx) error {
	actor, err := rt.actor(c)
	if err != nil {
		return repErr(c, err)
	}
	var req model.AddTeamMemberReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	member, err := rt.admin.AddUserToTeam(actor, c.Params("teamId"), &req)
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.DETAIL, member)
	return nil
}

func (rt *Router) removeTeamMember(c *fiber.Ctx) error {
	actor, err := rt.actor(c)
	if err != nil {
		return repErr(c, err)
	}
	if err := rt.admin.RemoveUserFromTeam(actor, c.Params("memberId")); err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.OPERATION, "")
	return nil
}

func (rt *Router) assignTeamAdmin(c *fiber.Ctx) error {
	actor, err := rt.actor(c)
	if err != nil {
		return repErr(c, err)
	}
	if err := rt.admin.AssignTeamAdmin(actor, c.Params("teamId"), c.Params("userId")); err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.OPERATION, "")
	return nil
}
