package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/kbukum/cascade/errors"
)

type settings struct {
	Description string        `mapstructure:"action_description" validate:"notblank"`
	Parallelism int           `mapstructure:"parallelism" validate:"gt=0"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Hosts       []string      `mapstructure:"hosts" validate:"required,min=1,dive,notblank"`
	Method      string        `mapstructure:"method" validate:"oneof=GET POST"`
}

func validSettings() settings {
	return settings{
		Description: "flush",
		Parallelism: 2,
		Timeout:     time.Second,
		Hosts:       []string{"http://nodeA:8080"},
		Method:      "POST",
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := Validate(validSettings()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*settings)
		want   string
	}{
		{"blank description", func(s *settings) { s.Description = "   " }, "action_description: is required"},
		{"zero parallelism", func(s *settings) { s.Parallelism = 0 }, "parallelism: must be greater than 0"},
		{"zero timeout", func(s *settings) { s.Timeout = 0 }, "timeout: must be greater than 0"},
		{"no hosts", func(s *settings) { s.Hosts = nil }, "hosts: is required"},
		{"blank host", func(s *settings) { s.Hosts = []string{"a", " "} }, "hosts[1]: is required"},
		{"bad method", func(s *settings) { s.Method = "FETCH" }, "method: must be one of: GET POST"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := validSettings()
			tc.mutate(&s)
			err := Validate(s)
			if err == nil {
				t.Fatal("expected validation error")
			}
			appErr, ok := errors.AsAppError(err)
			if !ok {
				t.Fatalf("expected AppError, got %T", err)
			}
			if appErr.Code != errors.ErrCodeInvalidInput {
				t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
			}
			if !strings.Contains(appErr.Message, tc.want) {
				t.Errorf("expected message containing %q, got %q", tc.want, appErr.Message)
			}
		})
	}
}

func TestValidator_Programmatic(t *testing.T) {
	v := New()
	v.Required("path", "/cascade")
	v.OneOf("output", "table", []string{"table", "json"})
	v.Custom(true, "x", "never")
	if v.HasErrors() {
		t.Fatalf("expected no errors, got %v", v.Errors())
	}
	if v.Validate() != nil {
		t.Error("expected nil AppError")
	}

	v2 := New()
	v2.Required("path", "  ")
	v2.OneOf("output", "xml", []string{"table", "json"})
	v2.Custom(false, "data", "must be valid JSON")
	if len(v2.Errors()) != 3 {
		t.Fatalf("expected 3 errors, got %d", len(v2.Errors()))
	}
	appErr := v2.Validate()
	if appErr == nil || !strings.Contains(appErr.Message, "output: must be one of: table, json") {
		t.Errorf("unexpected error %v", appErr)
	}
}

func TestToSnakeCase(t *testing.T) {
	if got := toSnakeCase("CascadeFalseParam"); got != "cascade_false_param" {
		t.Errorf("got %q", got)
	}
}
