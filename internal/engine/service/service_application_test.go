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

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/arcentrix/e2epulse/internal/engine/model"
)

func TestApplicationServiceCRUD(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.svc.Application

	app, err := s.CreateApplication(ctx, &model.CreateApplicationReq{
		Code:                 "checkout",
		TriggerConfiguration: datatypes.JSON(`{"branch":"main"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "checkout", app.Name)
	assert.True(t, app.CanTrigger())

	_, err = s.CreateApplication(ctx, &model.CreateApplicationReq{Code: "checkout"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = s.CreateApplication(ctx, &model.CreateApplicationReq{Code: "  "})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.CreateApplication(ctx, &model.CreateApplicationReq{
		Code:                 "search",
		TriggerConfiguration: datatypes.JSON(`{"branch":"main","tag":"v1"}`),
	})
	assert.ErrorIs(t, err, ErrValidation)

	name := "Checkout"
	watching := true
	empty := datatypes.JSON(`{}`)
	updated, err := s.UpdateApplication(ctx, app.Id, &model.UpdateApplicationReq{
		Name:                 &name,
		Watching:             &watching,
		TriggerConfiguration: &empty,
	})
	require.NoError(t, err)
	assert.Equal(t, "Checkout", updated.Name)
	assert.Equal(t, "checkout", updated.Code)
	assert.True(t, updated.Watching)
	assert.False(t, updated.CanTrigger())

	list, err := s.ListApplications(ctx, &watching)
	require.NoError(t, err)
	require.Len(t, list, 1)

	byCode, err := s.GetApplicationByCode(ctx, "checkout")
	require.NoError(t, err)
	assert.Equal(t, app.Id, byCode.Id)

	require.NoError(t, s.DeleteApplication(ctx, app.Id))
	_, err = s.GetApplication(ctx, app.Id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteApplication(ctx, app.Id), ErrNotFound)
}
