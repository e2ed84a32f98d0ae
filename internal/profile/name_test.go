package profile_test

import (
	"testing"

	"github.com/hbjs97/cprof/internal/profile"
	"github.com/stretchr/testify/assert"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		allowSpace bool
		wantErr    bool
	}{
		{name: "simple", input: "work"},
		{name: "dots dashes underscores", input: "a.b-c_d"},
		{name: "digit first", input: "2024"},
		{name: "empty", input: "", wantErr: true},
		{name: "slash", input: "a/b", wantErr: true},
		{name: "parent", input: "..", wantErr: true},
		{name: "leading dot", input: ".x", wantErr: true},
		{name: "leading dash", input: "-x", wantErr: true},
		{name: "space strict", input: "my work", wantErr: true},
		{name: "space display", input: "my work", allowSpace: true},
		{name: "leading space display", input: " x", allowSpace: true, wantErr: true},
		{name: "backslash", input: `a\b`, allowSpace: true, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := profile.ValidateName(tt.input, tt.allowSpace)
			if tt.wantErr {
				assert.ErrorIs(t, err, profile.ErrInvalidName)
				return
			}
			assert.NoError(t, err)
		})
	}
}
