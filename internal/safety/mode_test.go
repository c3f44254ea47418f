package safety

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeEnforce, false},
		{"enforce", ModeEnforce, false},
		{"ENFORCE", ModeEnforce, false},
		{"dry-run", ModeDryRun, false},
		{"dryrun", ModeDryRun, false},
		{" monitor ", ModeDryRun, false},
		{"yolo", ModeEnforce, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModeStrings(t *testing.T) {
	assert.Equal(t, "enforce", ModeEnforce.String())
	assert.Equal(t, "dry-run", ModeDryRun.String())
	assert.Equal(t, "unknown", Mode(9).String())
	assert.NotEqual(t, ModeEnforce.Description(), ModeDryRun.Description())
	assert.Equal(t, "Unknown", Mode(9).Description())
}
