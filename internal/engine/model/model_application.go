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

package model

import (
	"gorm.io/datatypes"

	"github.com/arcentrix/e2epulse/pkg/ci"
)

// Application is a system under test. Id and Code never change after creation.
type Application struct {
	BaseModel
	Code                 string         `gorm:"column:code;size:128;uniqueIndex:uk_application_code;not null" json:"code"`
	Name                 string         `gorm:"column:name;size:255" json:"name"`
	TriggerConfiguration datatypes.JSON `gorm:"column:trigger_configuration" json:"triggerConfiguration,omitempty"`
	Watching             bool           `gorm:"column:watching;default:false" json:"watching"`
}

func (Application) TableName() string {
	return "t_application"
}

// CanTrigger reports whether a trigger configuration is present.
func (a *Application) CanTrigger() bool {
	return a != nil && !ci.IsEmptyTriggerConfig(a.TriggerConfiguration)
}

type CreateApplicationReq struct {
	Code                 string         `json:"code"`
	Name                 string         `json:"name"`
	TriggerConfiguration datatypes.JSON `json:"triggerConfiguration,omitempty"`
	Watching             bool           `json:"watching"`
}

// UpdateApplicationReq carries optional fields; nil leaves the column untouched.
type UpdateApplicationReq struct {
	Name                 *string         `json:"name,omitempty"`
	TriggerConfiguration *datatypes.JSON `json:"triggerConfiguration,omitempty"`
	Watching             *bool           `json:"watching,omitempty"`
}
