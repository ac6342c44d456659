package kafka

import (
	"testing"
	"time"
)

func TestNormalizeProducerConfig_Defaults(t *testing.T) {
	cfg := ProducerConfig{}
	normalizeProducerConfig(&cfg)

	if cfg.Acks != "all" || cfg.Compression != "snappy" || cfg.LingerMs != 5 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.FlushTimeout != defaultFlushTimeout {
		t.Fatalf("unexpected flush timeout %v", cfg.FlushTimeout)
	}
}

func TestNormalizeProducerConfig_IdempotentForcesAcksAll(t *testing.T) {
	cfg := ProducerConfig{Acks: "1", Idempotent: true}
	normalizeProducerConfig(&cfg)

	if cfg.Acks != "all" {
		t.Fatalf("expected acks=all with idempotence, got %s", cfg.Acks)
	}
}

func TestProducerConfigMapCarriesClientSettings(t *testing.T) {
	cfg := ProducerConfig{Config: Config{BootstrapServers: "k:9092", ClientID: "c1"}, Idempotent: true}
	normalizeProducerConfig(&cfg)

	cm, err := cfg.configMap()
	if err != nil {
		t.Fatalf("configMap: %v", err)
	}
	if v, _ := cm.Get("enable.idempotence", false); v != true {
		t.Fatalf("expected idempotence enabled, got %v", v)
	}
	if v, _ := cm.Get("acks", ""); v != "all" {
		t.Fatalf("unexpected acks %v", v)
	}
}

func TestConsumerOptionsApply(t *testing.T) {
	cfg := ConsumerConfig{}
	WithConsumerClientOptions(FromConfig(Config{BootstrapServers: "k:9092", ClientID: "c2"})).apply(&cfg)
	WithConsumerGroupID("reports").apply(&cfg)
	WithConsumerAutoOffsetReset("latest").apply(&cfg)
	WithConsumerSessionTimeoutMs(15000).apply(&cfg)
	WithConsumerMaxPollIntervalMs(600000).apply(&cfg)
	WithConsumerPollTimeout(2 * time.Second).apply(&cfg)

	if cfg.BootstrapServers != "k:9092" || cfg.ClientID != "c2" {
		t.Fatalf("expected client config to be copied, got %+v", cfg.Config)
	}
	if cfg.GroupID != "reports" || cfg.AutoOffsetReset != "latest" {
		t.Fatalf("unexpected consumer config %+v", cfg)
	}
	if cfg.SessionTimeoutMs != 15000 || cfg.MaxPollIntervalMs != 600000 || cfg.PollTimeout != 2*time.Second {
		t.Fatalf("unexpected timeouts %+v", cfg)
	}
}

func TestNormalizeConsumerConfig_Defaults(t *testing.T) {
	cfg := ConsumerConfig{}
	normalizeConsumerConfig(&cfg, " e2epulse.report.generate ")

	if cfg.GroupID != "E2EPULSE.REPORT.GENERATE_CONSUMER" {
		t.Fatalf("unexpected group id %s", cfg.GroupID)
	}
	if cfg.AutoOffsetReset != "earliest" || cfg.SessionTimeoutMs != 10000 || cfg.MaxPollIntervalMs != 300000 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.PollTimeout != time.Second {
		t.Fatalf("unexpected poll timeout %v", cfg.PollTimeout)
	}
}
