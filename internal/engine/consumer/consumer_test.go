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

package consumer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/arcentrix/e2epulse/internal/engine/config"
	"github.com/arcentrix/e2epulse/internal/engine/model"
	"github.com/arcentrix/e2epulse/internal/engine/service"
	"github.com/arcentrix/e2epulse/pkg/mq"
	"github.com/arcentrix/e2epulse/pkg/queue"
)

type generatorMock struct {
	mock.Mock
}

func (m *generatorMock) Generate(ctx context.Context, date string) (*model.ReportSummary, error) {
	args := m.Called(ctx, date)
	s, _ := args.Get(0).(*model.ReportSummary)
	return s, args.Error(1)
}

func TestHandleNeverFails(t *testing.T) {
	gen := &generatorMock{}
	c := NewReportConsumer(queue.NewMemoryBroker(1), gen, config.ReportConfig{})
	ctx := context.Background()

	assert.NoError(t, c.Handle(ctx, &mq.Message{Value: []byte("not json")}))
	assert.NoError(t, c.Handle(ctx, &mq.Message{Value: []byte(`{"date":"10/08/2025"}`)}))
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)

	gen.On("Generate", mock.Anything, "2025-10-08").Return(nil, errors.New("boom")).Once()
	assert.NoError(t, c.Handle(ctx, &mq.Message{Value: []byte(`{"date":"2025-10-08"}`)}))

	gen.On("Generate", mock.Anything, "2025-10-09").Run(func(mock.Arguments) { panic("unexpected") }).Return(nil, nil).Once()
	assert.NoError(t, c.Handle(ctx, &mq.Message{Value: []byte(`{"date":"2025-10-09"}`)}))
	gen.AssertExpectations(t)
}

func TestStartConsumesPublishedRequests(t *testing.T) {
	broker := queue.NewMemoryBroker(8)
	gen := &generatorMock{}
	done := make(chan struct{})
	gen.On("Generate", mock.Anything, "2025-10-08").
		Run(func(mock.Arguments) { close(done) }).
		Return(&model.ReportSummary{Date: "2025-10-08", Status: model.ReportStatusReady}, nil).Once()

	c := NewReportConsumer(broker, gen, config.ReportConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() { stopped <- c.Start(ctx) }()

	payload, err := service.EncodeGenerateReportMessage("2025-10-08")
	require.NoError(t, err)
	require.NoError(t, broker.Publish(ctx, "e2epulse.report.generate", "2025-10-08", payload, nil))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("generation request was not consumed")
	}
	cancel()
	select {
	case err := <-stopped:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop")
	}
}
