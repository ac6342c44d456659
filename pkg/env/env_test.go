package env

import (
	"reflect"
	"testing"
	"time"
)

func TestGetEnvInt(t *testing.T) {
	t.Setenv("E2EPULSE_TEST_INT", "42")
	if got := GetEnvInt("E2EPULSE_TEST_INT", 7); got != 42 {
		t.Fatalf("GetEnvInt valid value = %d, want 42", got)
	}

	t.Setenv("E2EPULSE_TEST_INT", "not-int")
	if got := GetEnvInt("E2EPULSE_TEST_INT", 7); got != 7 {
		t.Fatalf("GetEnvInt invalid value = %d, want 7", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("E2EPULSE_TEST_BOOL", "FALSE")
	if got := GetEnvBool("E2EPULSE_TEST_BOOL", true); got != false {
		t.Fatalf("GetEnvBool false = %v, want false", got)
	}

	t.Setenv("E2EPULSE_TEST_BOOL", "not-bool")
	if got := GetEnvBool("E2EPULSE_TEST_BOOL", true); got != true {
		t.Fatalf("GetEnvBool invalid = %v, want true", got)
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("E2EPULSE_TEST_DURATION", "1500ms")
	if got := GetEnvDuration("E2EPULSE_TEST_DURATION", time.Second); got != 1500*time.Millisecond {
		t.Fatalf("GetEnvDuration = %v, want 1.5s", got)
	}
}

func TestGetEnvStringSlice(t *testing.T) {
	t.Setenv("E2EPULSE_TEST_SLICE", "a, b,,c")
	got := GetEnvStringSlice("E2EPULSE_TEST_SLICE", nil)
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("GetEnvStringSlice = %v, want %v", got, want)
	}
}

func TestPrefixed(t *testing.T) {
	t.Setenv("E2EPULSE_CI_TOKEN", "secret")
	if got := Prefixed("ci_token", "fallback"); got != "secret" {
		t.Fatalf("Prefixed = %q, want secret", got)
	}
	if got := Prefixed("missing_key", "fallback"); got != "fallback" {
		t.Fatalf("Prefixed missing = %q, want fallback", got)
	}
}
