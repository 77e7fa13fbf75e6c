package types

import "time"

// ToDateTime converts provider Unix seconds to a UTC time
func ToDateTime(secs int64) time.Time {
	return time.Unix(secs, 0).UTC()
}

// ToDateTimePtr is ToDateTime for optional timestamps; zero maps to nil
func ToDateTimePtr(secs int64) *time.Time {
	if secs == 0 {
		return nil
	}
	t := ToDateTime(secs)
	return &t
}
