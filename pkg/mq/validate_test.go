package mq

import "testing"

func TestRequireNonEmpty(t *testing.T) {
	if err := RequireNonEmpty("name", "value"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := RequireNonEmpty("name", ""); err == nil {
		t.Fatal("expected error for empty value")
	}
}

func TestRequireNonEmptySlice(t *testing.T) {
	if err := RequireNonEmptySlice("items", []string{"a"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	for _, v := range [][]string{nil, {}, {""}} {
		if err := RequireNonEmptySlice("items", v); err == nil {
			t.Fatalf("expected error for %v", v)
		}
	}
}

func TestMessageHeader(t *testing.T) {
	var nilMsg *Message
	if nilMsg.Header("x") != "" {
		t.Fatal("nil message should return empty header")
	}
	m := &Message{Headers: map[string]string{"messageId": "abc"}}
	if got := m.Header("messageId"); got != "abc" {
		t.Fatalf("expected abc, got %s", got)
	}
}
