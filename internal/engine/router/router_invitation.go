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
 * @file: router_invitation.go
 * @description: invitation routes; verify and accept are unauthenticated
 */

func (rt *Router) invitationRouter(r fiber.Router, auth fiber.Handler) {
	invGroup := r.Group("/invitation")
	{
		// token bearer endpoints, no session yet
		invGroup.Get("/verify/:token", rt.verifyInvitation)
		invGroup.Post("/accept", rt.acceptInvitation)

		// tenant admin endpoints
		invGroup.Post("/create", auth, rt.inviteUser)
		invGroup.Get("/pending", auth, rt.listPendingInvitations)
		invGroup.Post("/:invitationId/revoke", auth, rt.revokeInvitation)
	}
}

func (rt *Router) inviteUser(c *fiber.Ctx) error {
	actor, err := rt.actor(c)
	if err != nil {
		return repErr(c, err)
	}
	var req model.InviteUserReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	resp, err := rt.admin.InviteUser(c.Context(), actor, &req)
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.DETAIL, resp)
	return nil
}

func (rt *Router) verifyInvitation(c *fiber.Ctx) error {
	resp, err := rt.admin.VerifyInvitationToken(c.Params("token"))
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.DETAIL, resp)
	return nil
}

func (rt *Router) acceptInvitation(c *fiber.Ctx) error {
	var req model.AcceptInvitationReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	info, err := rt.admin.AcceptInvitation(&req)
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.DETAIL, info)
	return nil
}

func (rt *Router) listPendingInvitations(c *fiber.Ctx) error {
	actor, err := rt.actor(c)
	if err != nil {
		return repErr(c, err)
	}
	resps, err := rt.admin.GetPendingInvitations(actor)
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.DETAIL, resps)
	return nil
}

func (rt *Router) revokeInvitation(c *fiber.Ctx) error {
	actor, err := rt.actor(c)
	if err != nil {
		return repErr(c, err)
	}
	if err := rt.admin.RevokeInvitation(actor, c.Params("invitationId")); err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.OPERATION, "")
	return nil
}
