package sl

import (
	"errors"
	"testing"
)

func TestSecret(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"", ""},
		{"abc", "***"},
		{"abcdefghijk", "abcde*****"},
	}
	for _, tt := range tests {
		got := Secret("token", tt.value).Value.String()
		if got != tt.want {
			t.Errorf("Secret(%q) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestErr(t *testing.T) {
	if got := Err(errors.New("boom")).Value.String(); got != "boom" {
		t.Errorf("Err = %q", got)
	}
	if got := Err(nil).Value.String(); got != "" {
		t.Errorf("Err(nil) = %q", got)
	}
}
