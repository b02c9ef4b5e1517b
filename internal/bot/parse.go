package bot

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// dateRe accepts dates like 2025/5/3 or 2025/05/03.
var dateRe = regexp.MustCompile(`^\d{4}/\d{1,2}/\d{1,2}$`)

// ParseReleasesArgs parses the optional date and region arguments of
// the releases command. An empty date means today in loc; the region
// is lowercased and defaults to defaultRegion.
func ParseReleasesArgs(args string, loc *time.Location, defaultRegion string) (time.Time, string, error) {
	region := defaultRegion

	fields := strings.Fields(args)
	switch len(fields) {
	case 0:
		now := time.Now().In(loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc), region, nil
	case 2:
		region = strings.ToLower(fields[1])
		fallthrough
	case 1:
		date, err := ParseDateArg(fields[0], loc)
		if err != nil {
			return time.Time{}, "", err
		}
		return date, region, nil
	default:
		return time.Time{}, "", fmt.Errorf("too many arguments")
	}
}

// ParseDateArg parses a YYYY/M/D date string in loc.
func ParseDateArg(s string, loc *time.Location) (time.Time, error) {
	if !dateRe.MatchString(s) {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	date, err := time.ParseInLocation("2006/1/2", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return date, nil
}

// ParseArtistArg validates an artist name argument.
func ParseArtistArg(args string) (string, error) {
	name := strings.TrimSpace(args)
	if name == "" {
		return "", fmt.Errorf("artist name is required")
	}
	return name, nil
}
