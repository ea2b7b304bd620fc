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

package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/observabil/steward/pkg/http"
	"github.com/observabil/steward/pkg/http/jwt"
	"github.com/redis/go-redis/v9"
)

// ClaimsKey is the fiber locals key holding the parsed *jwt.AuthClaims.
const ClaimsKey = "authClaims"

// Authorization parses the Bearer token and verifies the session is still
// present in redis. A logout deletes the redis entry, which invalidates the
// token before its JWT expiry.
func Authorization(auth http.Auth, rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get("Authorization")
		if token == "" {
			return http.WithRepErrMsg(c, http.AuthorizationEmpty.Code, http.AuthorizationEmpty.Msg, c.Path())
		}
		if !strings.HasPrefix(token, "Bearer ") {
			return http.WithRepErrMsg(c, http.TokenFormatIncorrect.Code, http.TokenFormatIncorrect.Msg, c.Path())
		}
		token = strings.TrimPrefix(token, "Bearer ")

		claims, err := jwt.ParseToken(token, auth.SecretKey)
		if err != nil {
			return http.WithRepErrMsg(c, http.InvalidToken.Code, http.InvalidToken.Msg, c.Path())
		}

		sessionKey := fmt.Sprintf("%s%s", auth.RedisKeyPrefix, claims.UserId)
		if err := rdb.Get(c.Context(), sessionKey).Err(); err != nil {
			return http.WithRepErrMsg(c, http.TokenExpired.Code, http.TokenExpired.Msg, c.Path())
		}

		c.Locals(ClaimsKey, claims)
		return c.Next()
	}
}
