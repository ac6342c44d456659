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

package kafka

import (
	"fmt"
	"os"
	"strings"

	"github.com/arcentrix/e2epulse/pkg/mq"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// Config is the connection section shared by producers and consumers.
type Config struct {
	BootstrapServers string     `mapstructure:"bootstrapServers"`
	ClientID         string     `mapstructure:"clientId"`
	SecurityProtocol string     `mapstructure:"securityProtocol"`
	Sasl             SaslConfig `mapstructure:"sasl"`
	Ssl              SslConfig  `mapstructure:"ssl"`
}

type SaslConfig struct {
	Mechanism string `mapstructure:"mechanism"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
}

type SslConfig struct {
	CaFile   string `mapstructure:"caFile"`
	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`
	Password string `mapstructure:"password"`
}

// ClientOption mutates the shared Config.
type ClientOption interface {
	apply(*Config)
}

type clientOptionFunc func(*Config)

func (fn clientOptionFunc) apply(cfg *Config) {
	fn(cfg)
}

func WithClientID(clientID string) ClientOption {
	return clientOptionFunc(func(cfg *Config) {
		cfg.ClientID = clientID
	})
}

func WithSecurityProtocol(securityProtocol string) ClientOption {
	return clientOptionFunc(func(cfg *Config) {
		cfg.SecurityProtocol = securityProtocol
	})
}

// WithSasl sets mechanism and credentials in one go.
func WithSasl(mechanism, username, password string) ClientOption {
	return clientOptionFunc(func(cfg *Config) {
		cfg.Sasl = SaslConfig{Mechanism: mechanism, Username: username, Password: password}
	})
}

func WithSsl(ssl SslConfig) ClientOption {
	return clientOptionFunc(func(cfg *Config) {
		cfg.Ssl = ssl
	})
}

// FromConfig copies a whole Config, typically one loaded by viper.
func FromConfig(c Config) ClientOption {
	return clientOptionFunc(func(cfg *Config) {
		*cfg = c
	})
}

// buildBaseConfig maps Config onto librdkafka keys. Empty values are omitted
// so librdkafka keeps its own defaults.
func buildBaseConfig(cfg Config) (*kafka.ConfigMap, error) {
	if err := mq.RequireNonEmpty("bootstrapServers", cfg.BootstrapServers); err != nil {
		return nil, err
	}

	config := &kafka.ConfigMap{"bootstrap.servers": cfg.BootstrapServers}
	optional := map[string]string{
		"security.protocol":        cfg.SecurityProtocol,
		"sasl.mechanism":           cfg.Sasl.Mechanism,
		"sasl.username":            cfg.Sasl.Username,
		"sasl.password":            cfg.Sasl.Password,
		"ssl.ca.location":          cfg.Ssl.CaFile,
		"ssl.certificate.location": cfg.Ssl.CertFile,
		"ssl.key.location":         cfg.Ssl.KeyFile,
		"ssl.key.password":         cfg.Ssl.Password,
	}
	for k, v := range optional {
		if v != "" {
			_ = config.SetKey(k, v)
		}
	}
	return config, nil
}

// buildClientID derives "<ID>_CLIENT_<HOST>" so brokers can tell instances apart.
func buildClientID(clientID string) (string, error) {
	if err := mq.RequireNonEmpty("clientId", clientID); err != nil {
		return "", err
	}
	hostname, err := os.Hostname()
	if err != nil || strings.TrimSpace(hostname) == "" {
		hostname = "UNKNOWN"
	}
	return strings.ToUpper(fmt.Sprintf("%s_CLIENT_%s", clientID, hostname)), nil
}

func toHeaders(headers []kafka.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for _, h := range headers {
		out[h.Key] = string(h.Value)
	}
	return out
}

func fromHeaders(headers map[string]string) []kafka.Header {
	out := make([]kafka.Header, 0, len(headers))
	for k, v := range headers {
		out = append(out, kafka.Header{Key: k, Value: []byte(v)})
	}
	return out
}
