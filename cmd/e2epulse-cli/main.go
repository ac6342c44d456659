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

package main

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/arcentrix/e2epulse/internal/engine/service"
	"github.com/arcentrix/e2epulse/pkg/database"
	"github.com/arcentrix/e2epulse/pkg/queue"
	"github.com/arcentrix/e2epulse/pkg/version"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "e2epulse-cli",
	Short: "e2epulse cli is a command line tool",
	Long:  "e2epulse cli runs migrations, triggers manual runs and manages daily E2E reports",
	Run: func(cmd *cobra.Command, args []string) {
		err := cmd.Help()
		if err != nil {
			return
		}
	},
}

// cliApp is what every subcommand works against.
type cliApp struct {
	Services *service.Services
	DB       database.IDatabase
	Broker   queue.Broker
}

func newCliApp(services *service.Services, db database.IDatabase, broker queue.Broker) *cliApp {
	return &cliApp{Services: services, DB: db, Broker: broker}
}

// withApp builds the app, runs fn and releases every resource.
func withApp(fn func(app *cliApp) error) error {
	app, cleanup, err := initCliApp(configFile)
	if err != nil {
		return err
	}
	defer cleanup()
	return fn(app)
}

func printJSON(cmd *cobra.Command, v any) error {
	b, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "conf", "c", "conf.d/config.toml", "config file path")
	rootCmd.AddCommand(version.VersionCmd, migrateCmd, reportCmd, runCmd, detailCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
