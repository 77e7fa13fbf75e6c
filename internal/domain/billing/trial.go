package billing

import (
	"time"
)

// MinTrialPeriodDays is the shortest trial the provider accepts, in days
const MinTrialPeriodDays = 2

// TrialEndTimestamp returns the Unix time, in seconds, at which a trial of
// trialPeriodDays starting at now should end, or nil when no trial applies.
// The end lands one day past trialPeriodDays.
func TrialEndTimestamp(trialPeriodDays *int64, now time.Time) *int64 {
	if trialPeriodDays == nil || *trialPeriodDays < MinTrialPeriodDays {
		return nil
	}

	end := now.Add(time.Duration(*trialPeriodDays+1) * 24 * time.Hour).Unix()
	return &end
}
