package errors

import (
	"strings"
	"testing"
)

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"simple", "card", false},
		{"empty", "", false},
		{"unicode", "卡片-1", false},
		{"control char", "a\nb", true},
		{"null byte", "a\x00b", true},
		{"too long", strings.Repeat("x", 257), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidTree) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidTree)
			}
		})
	}
}

func TestValidateThreshold(t *testing.T) {
	for _, n := range []int{0, 1, 3, 100} {
		if err := ValidateThreshold(n); err != nil {
			t.Errorf("ValidateThreshold(%d) = %v, want nil", n, err)
		}
	}
	if err := ValidateThreshold(-1); !Is(err, ErrCodeInvalidInput) {
		t.Errorf("ValidateThreshold(-1) = %v, want INVALID_INPUT", err)
	}
}

func TestValidateFormat(t *testing.T) {
	allowed := []string{"json", "yaml"}

	if err := ValidateFormat("json", allowed); err != nil {
		t.Errorf("ValidateFormat(json) = %v", err)
	}
	for _, f := range []string{"", "xml", "JSON"} {
		if err := ValidateFormat(f, allowed); !Is(err, ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) = %v, want INVALID_FORMAT", f, err)
		}
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		schemes []string
		wantErr bool
	}{
		{"redis", "redis://localhost:6379/0", []string{"redis", "rediss"}, false},
		{"mongo srv", "mongodb+srv://cluster.example.com", []string{"mongodb", "mongodb+srv"}, false},
		{"any scheme", "http://example.com", nil, false},
		{"empty", "", nil, true},
		{"no scheme", "localhost:6379", nil, true},
		{"wrong scheme", "http://localhost", []string{"redis"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url, tt.schemes...)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}
