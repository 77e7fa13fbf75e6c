package billing

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestTrialEndTimestamp(t *testing.T) {
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	day := int64(24 * 60 * 60)

	tests := []struct {
		name     string
		days     *int64
		expected *int64
	}{
		{name: "absent", days: nil, expected: nil},
		{name: "zero", days: lo.ToPtr(int64(0)), expected: nil},
		{name: "one day is below the minimum", days: lo.ToPtr(int64(1)), expected: nil},
		{name: "negative", days: lo.ToPtr(int64(-5)), expected: nil},
		{name: "minimum", days: lo.ToPtr(int64(2)), expected: lo.ToPtr(now.Unix() + 3*day)},
		{name: "two weeks", days: lo.ToPtr(int64(14)), expected: lo.ToPtr(now.Unix() + 15*day)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrialEndTimestamp(tt.days, now)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			if assert.NotNil(t, got) {
				assert.Equal(t, *tt.expected, *got)
			}
		})
	}
}
