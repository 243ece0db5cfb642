package version

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateBuildID(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		expected int
		wantErr  error
	}{
		{name: "epoch date", date: "2025-12-04", expected: 0},
		{name: "next day after epoch", date: "2025-12-05", expected: 1},
		{name: "one year later", date: "2026-12-04", expected: 365},
		{name: "date with leap years included", date: "2032-12-04", expected: 2557},
		{name: "invalid format", date: "invalid", wantErr: ErrBadBuildDate},
		{name: "empty date", date: "", wantErr: ErrNoBuildDate},
		{name: "before epoch", date: "2025-12-03", wantErr: ErrBeforeEpoch},
	}

	// BuildDate - глобальная переменная, поэтому подтесты идут последовательно
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			old := BuildDate
			defer func() { BuildDate = old }()
			BuildDate = tt.date

			got, err := CalculateBuildID()
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "id=%d err=%v", got, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestInfoAndString(t *testing.T) {
	oldDate, oldCommit := BuildDate, BuildCommit
	defer func() { BuildDate, BuildCommit = oldDate, oldCommit }()

	BuildDate, BuildCommit = "", ""
	info := Info()
	assert.False(t, info.Calculated)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, String(), "build unknown")

	BuildDate, BuildCommit = "2025-12-06", "abc123"
	info = Info()
	assert.True(t, info.Calculated)
	assert.Equal(t, 2, info.BuildID)
	assert.Equal(t, "crawler-server build 2 (2025-12-06) commit[abc123] branch[unknown] ci[local]", String())
}
