package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// tzAliases maps regional shorthand names onto IANA zones.
var tzAliases = map[string]string{
	"WIB":  "Asia/Jakarta",
	"WITA": "Asia/Makassar",
	"WIT":  "Asia/Jayapura",
}

// LoadTimezone resolves an IANA name, a fixed "+HH:MM"/"-HH:MM" offset, or a
// regional alias (e.g. "WIB") into a *time.Location.
func LoadTimezone(tz string) (*time.Location, error) {
	if tz == "" {
		return nil, NewValidationError("timezone", "timezone is required")
	}
	if alias, ok := tzAliases[strings.ToUpper(tz)]; ok {
		tz = alias
	}
	if strings.HasPrefix(tz, "+") || strings.HasPrefix(tz, "-") {
		offset, err := parseFixedOffset(tz)
		if err != nil {
			return nil, err
		}
		return time.FixedZone("UTC"+tz, offset), nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, NewValidationError("timezone", fmt.Sprintf("unknown timezone %q", tz))
	}
	return loc, nil
}

// parseFixedOffset parses "+HH:MM" / "-HH:MM" into an offset in seconds.
func parseFixedOffset(s string) (int, error) {
	sign := 1
	if s[0] == '-' {
		sign = -1
	}
	parts := strings.Split(s[1:], ":")
	if len(parts) != 2 {
		return 0, NewValidationError("timezone", fmt.Sprintf("malformed offset %q", s))
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 14 {
		return 0, NewValidationError("timezone", fmt.Sprintf("malformed offset %q", s))
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, NewValidationError("timezone", fmt.Sprintf("malformed offset %q", s))
	}
	return sign * (hours*3600 + minutes*60), nil
}

// parseClock splits "HH:MM" or "HH:MM:SS" into its fields.
func parseClock(clock string) (hour, minute, second int, err error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, 0, 0, NewValidationError("time", fmt.Sprintf("malformed time %q", clock))
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, 0, NewValidationError("time", fmt.Sprintf("malformed time %q", clock))
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, 0, NewValidationError("time", fmt.Sprintf("malformed time %q", clock))
	}
	if len(parts) == 3 {
		second, err = strconv.Atoi(parts[2])
		if err != nil || second < 0 || second > 59 {
			return 0, 0, 0, NewValidationError("time", fmt.Sprintf("malformed time %q", clock))
		}
	}
	return hour, minute, second, nil
}

// NormalizeClock validates a wall-clock time and pads it to "HH:MM:SS".
// Zero-padded clock strings order correctly under plain string comparison,
// which is what the slot-coverage checks rely on.
func NormalizeClock(clock string) (string, error) {
	h, m, s, err := parseClock(clock)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s), nil
}

// LocalToUTC converts a local calendar date plus wall-clock time in tz to a
// UTC instant.
func LocalToUTC(date, clock, tz string) (time.Time, error) {
	loc, err := LoadTimezone(tz)
	if err != nil {
		return time.Time{}, err
	}
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, NewValidationError("date", fmt.Sprintf("malformed date %q", date))
	}
	h, m, s, err := parseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	local := time.Date(day.Year(), day.Month(), day.Day(), h, m, s, 0, loc)
	return local.UTC(), nil
}

// LocalDayOfWeek returns the day of week (Sunday = 0) of the LOCAL calendar
// date. The instant is anchored at local noon so DST shifts around midnight
// cannot move the date into the neighboring day.
func LocalDayOfWeek(date, tz string) (int, error) {
	loc, err := LoadTimezone(tz)
	if err != nil {
		return 0, err
	}
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return 0, NewValidationError("date", fmt.Sprintf("malformed date %q", date))
	}
	noon := time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, loc)
	return int(noon.Weekday()), nil
}

// UTCOffset reports the current offset of tz from UTC as "+HH:MM".
func UTCOffset(tz string) (string, error) {
	loc, err := LoadTimezone(tz)
	if err != nil {
		return "", err
	}
	_, offset := time.Now().In(loc).Zone()
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	return fmt.Sprintf("%s%02d:%02d", sign, offset/3600, (offset%3600)/60), nil
}
