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

// Package consumer runs the report generation worker on the generation topic.
package consumer

import (
	"context"
	"errors"
	"time"

	"github.com/arcentrix/e2epulse/internal/engine/config"
	"github.com/arcentrix/e2epulse/internal/engine/model"
	"github.com/arcentrix/e2epulse/internal/engine/service"
	"github.com/arcentrix/e2epulse/pkg/log"
	"github.com/arcentrix/e2epulse/pkg/mq"
	"github.com/arcentrix/e2epulse/pkg/queue"
	"github.com/arcentrix/e2epulse/pkg/safe"
)

// Generator builds the report of one date.
type Generator interface {
	Generate(ctx context.Context, date string) (*model.ReportSummary, error)
}

type ReportConsumer struct {
	broker    queue.Broker
	generator Generator
	conf      config.ReportConfig
}

func NewReportConsumer(broker queue.Broker, generator Generator, conf config.ReportConfig) *ReportConsumer {
	conf.SetDefaults()
	return &ReportConsumer{broker: broker, generator: generator, conf: conf}
}

// Start consumes until ctx is cancelled.
func (c *ReportConsumer) Start(ctx context.Context) error {
	log.Infow("report consumer started", "topic", c.conf.Topic)
	err := c.broker.Subscribe(ctx, c.conf.Topic, c.Handle)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Infow("report consumer stopped", "topic", c.conf.Topic)
	return nil
}

// Handle processes one generation request. It always returns nil: a bad or
// failing message is logged and dropped, redelivery is left to the next read.
func (c *ReportConsumer) Handle(ctx context.Context, msg *mq.Message) error {
	defer safe.Recover("report consumer")

	req, err := service.DecodeGenerateReportMessage(msg.Value)
	if err != nil {
		log.Warnw("drop malformed generate request", "key", msg.Key, "messageId", msg.Header(queue.HeaderMessageID), "error", err)
		return nil
	}
	if _, err := service.ParseDate(req.Date); err != nil {
		log.Warnw("drop generate request with invalid date", "date", req.Date, "messageId", msg.Header(queue.HeaderMessageID))
		return nil
	}

	genCtx, cancel := context.WithTimeout(ctx, c.conf.GenerateTimeout)
	defer cancel()
	start := time.Now()
	summary, err := c.generator.Generate(genCtx, req.Date)
	if err != nil {
		log.Errorw("report generation failed",
			"date", req.Date,
			"messageId", msg.Header(queue.HeaderMessageID),
			"elapsed", time.Since(start),
			"error", err)
		return nil
	}
	log.Infow("report generation finished",
		"date", req.Date,
		"summaryId", summary.Id,
		"elapsed", time.Since(start))
	return nil
}
