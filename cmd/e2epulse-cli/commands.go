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
	"time"

	"github.com/spf13/cobra"

	"github.com/arcentrix/e2epulse/internal/engine/bootstrap"
	"github.com/arcentrix/e2epulse/internal/engine/service"
	"github.com/arcentrix/e2epulse/pkg/queue"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(func(app *cliApp) error {
			if err := bootstrap.AutoMigrate(app.DB); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migration completed")
			return nil
		})
	},
}

var (
	reportDate  string
	reportAsync bool
	runAppId    uint64
	detailSumId uint64
	detailAppId uint64
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Manage daily reports",
}

var reportGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the report of a date, in process or through the generation topic",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(func(app *cliApp) error {
			if reportAsync {
				if err := requireSharedBroker(app.Broker); err != nil {
					return err
				}
				if err := app.Services.Report.RequestGeneration(cmd.Context(), reportDate); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "generation of %s requested\n", reportDate)
				return nil
			}
			summary, err := app.Services.Generator.Generate(cmd.Context(), reportDate)
			if err != nil {
				return err
			}
			return printJSON(cmd, summary)
		})
	},
}

// requireSharedBroker rejects the in-process broker: nothing in this process
// consumes it, so a request published there is lost when the command exits.
func requireSharedBroker(b queue.Broker) error {
	if _, ok := b.(*queue.MemoryBroker); ok {
		return fmt.Errorf("--async needs a shared broker, messageQueue.type is %q; drop --async to generate in process", queue.TypeMemory)
	}
	return nil
}

var reportGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the report of a date",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(func(app *cliApp) error {
			report, err := app.Services.Report.GetReport(cmd.Context(), reportDate)
			if err != nil {
				return err
			}
			return printJSON(cmd, report)
		})
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Manage manual E2E runs",
}

var runTriggerCmd = &cobra.Command{
	Use:   "trigger",
	Short: "Trigger a manual E2E run of an application",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(func(app *cliApp) error {
			run, err := app.Services.ManualRun.TriggerManualRun(cmd.Context(), runAppId)
			if err != nil {
				return err
			}
			return printJSON(cmd, run)
		})
	},
}

var detailCmd = &cobra.Command{
	Use:   "detail",
	Short: "Manage report details",
}

var detailRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Overwrite one report detail with the latest source-of-truth stats",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(func(app *cliApp) error {
			detail, err := app.Services.Report.RefreshDetail(cmd.Context(), detailSumId, detailAppId)
			if err != nil {
				return err
			}
			return printJSON(cmd, detail)
		})
	},
}

func init() {
	today := time.Now().UTC().Format(service.DateLayout)
	for _, c := range []*cobra.Command{reportGenerateCmd, reportGetCmd} {
		c.Flags().StringVar(&reportDate, "date", today, "report date, YYYY-MM-DD")
	}
	reportGenerateCmd.Flags().BoolVar(&reportAsync, "async", false, "publish a generation request instead of generating in process (needs kafka or rocketmq)")
	reportCmd.AddCommand(reportGenerateCmd, reportGetCmd)

	runTriggerCmd.Flags().Uint64Var(&runAppId, "app", 0, "application id")
	_ = runTriggerCmd.MarkFlagRequired("app")
	runCmd.AddCommand(runTriggerCmd)

	detailRefreshCmd.Flags().Uint64Var(&detailSumId, "summary", 0, "report summary id")
	detailRefreshCmd.Flags().Uint64Var(&detailAppId, "app", 0, "application id")
	_ = detailRefreshCmd.MarkFlagRequired("summary")
	_ = detailRefreshCmd.MarkFlagRequired("app")
	detailCmd.AddCommand(detailRefreshCmd)
}
