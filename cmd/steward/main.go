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

package main

import (
	"flag"
	"time"

	"github.com/observabil/steward/internal/engine/conf"
	"github.com/observabil/steward/internal/engine/repo"
	"github.com/observabil/steward/internal/engine/router"
	"github.com/observabil/steward/internal/engine/service"
	"github.com/observabil/steward/pkg/cache"
	"github.com/observabil/steward/pkg/database"
	httpx "github.com/observabil/steward/pkg/http"
	"github.com/observabil/steward/pkg/log"
	"github.com/observabil/steward/pkg/runner"
)

/**
 * @file: main.go
 * @description: steward server
 */

var configFile string

func init() {
	flag.StringVar(&configFile, "conf", "conf.d/config.toml", "conf file path, e.g. -conf conf.d/config.toml")
}

func main() {
	flag.Parse()

	appConf := conf.NewConf(configFile)

	log.MustInit(&appConf.Log)
	log.Infow("steward starting", "hostname", runner.Hostname, "pwd", runner.Pwd)

	rdb, err := cache.NewRedis(appConf.Redis)
	if err != nil {
		log.Fatalf("connect redis: %v", err)
	}

	db, err := database.NewDatabase(appConf.Database)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}

	repos := repo.NewRepositories(database.NewGormDB(db))

	inviteTTL := time.Duration(appConf.Invite.TTLHours) * time.Hour
	users := service.NewUserService(repos)
	teams := service.NewTeamService(repos)
	invitations := service.NewInvitationService(repos, service.LogNotifier{}, inviteTTL)
	permissions := service.NewPermissionService(repos, nil)
	admin := service.NewDelegatedAdminService(users, teams, invitations, permissions)
	auth := service.NewAuthService(repos, rdb, appConf.Http.Auth)

	route := router.NewRouter(&appConf.Http, rdb, admin, auth)

	shutdown := httpx.NewHttp(appConf.Http, route.Router())
	shutdown()
}
