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

package rocketmq

import (
	"fmt"

	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/arcentrix/e2epulse/pkg/mq"
)

// Config is the connection section shared by producers and consumers.
type Config struct {
	NameServers []string `mapstructure:"nameServers"`
	AccessKey   string   `mapstructure:"accessKey"`
	SecretKey   string   `mapstructure:"secretKey"`
	GroupName   string   `mapstructure:"groupName"`
	Retry       int      `mapstructure:"retry"`
}

func (c *Config) validate() error {
	if err := mq.RequireNonEmptySlice("nameServers", c.NameServers); err != nil {
		return err
	}
	return mq.RequireNonEmpty("groupName", c.GroupName)
}

// credentials returns nil when no ACL is configured.
func (c *Config) credentials() (*primitive.Credentials, error) {
	if c.AccessKey == "" && c.SecretKey == "" {
		return nil, nil
	}
	if c.AccessKey == "" || c.SecretKey == "" {
		return nil, fmt.Errorf("accessKey and secretKey are required together")
	}
	return &primitive.Credentials{AccessKey: c.AccessKey, SecretKey: c.SecretKey}, nil
}
