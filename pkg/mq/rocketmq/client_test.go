package rocketmq

import (
	"testing"

	"github.com/apache/rocketmq-client-go/v2/primitive"
)

func TestConfigValidate(t *testing.T) {
	if err := (&Config{GroupName: "g"}).validate(); err == nil {
		t.Fatal("expected error when nameServers is empty")
	}
	if err := (&Config{NameServers: []string{"127.0.0.1:9876"}}).validate(); err == nil {
		t.Fatal("expected error when groupName is empty")
	}
	if err := (&Config{NameServers: []string{"127.0.0.1:9876"}, GroupName: "g"}).validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConfigCredentials(t *testing.T) {
	if _, err := (&Config{AccessKey: "only"}).credentials(); err == nil {
		t.Fatal("expected error when only accessKey is set")
	}
	if _, err := (&Config{SecretKey: "only"}).credentials(); err == nil {
		t.Fatal("expected error when only secretKey is set")
	}
	cred, err := (&Config{}).credentials()
	if err != nil || cred != nil {
		t.Fatalf("expected no credentials, got %+v (err=%v)", cred, err)
	}
	cred, err = (&Config{AccessKey: "a", SecretKey: "b"}).credentials()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cred.AccessKey != "a" || cred.SecretKey != "b" {
		t.Fatalf("unexpected credentials: %+v", cred)
	}
}

func TestToMessage(t *testing.T) {
	ext := &primitive.MessageExt{Message: primitive.Message{Topic: "t", Body: []byte(`{"date":"2025-10-08"}`)}}
	ext.WithKeys([]string{"2025-10-08"})
	ext.WithProperty("messageId", "m-1")

	msg := toMessage(ext)
	if msg.Topic != "t" || msg.Key != "2025-10-08" {
		t.Fatalf("unexpected message %+v", msg)
	}
	if msg.Header("messageId") != "m-1" {
		t.Fatalf("expected messageId header, got %v", msg.Headers)
	}
}
