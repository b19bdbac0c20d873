package core

import "time"

// unixEpochOrdinal is the ordinal of 1970-01-01 when 0001-01-01 is day 1.
const unixEpochOrdinal = 719163

const secondsPerDay = 24 * 60 * 60

// OrdinalToTime converts an ordinal day number to midnight UTC of that day.
func OrdinalToTime(ord int) time.Time {
	return time.Unix(int64(ord-unixEpochOrdinal)*secondsPerDay, 0).UTC()
}

// TimeToOrdinal converts a time to the ordinal day number of its UTC date.
func TimeToOrdinal(t time.Time) int {
	t = t.UTC()
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(midnight.Unix()/secondsPerDay) + unixEpochOrdinal
}

// OrdinalToDOY converts an ordinal day number to a yyyyddd date.
func OrdinalToDOY(ord int) int {
	t := OrdinalToTime(ord)
	return t.Year()*1000 + t.YearDay()
}

// DOYToOrdinal converts a yyyyddd date to an ordinal day number.
func DOYToOrdinal(yyyyddd int) int {
	year, doy := SplitDOY(yyyyddd)
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return TimeToOrdinal(jan1) + doy - 1
}

// SplitDOY splits a yyyyddd date into year and day-of-year.
func SplitDOY(yyyyddd int) (year, doy int) {
	return yyyyddd / 1000, yyyyddd % 1000
}
