package mysql

import (
	"fmt"
	"strings"
	"time"
)

// textTimeLayouts covers what the two drivers hand back for DATETIME columns
// when they do not convert to time.Time themselves.
var textTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
	"2006-01-02 15:04:05.999999999 -0700 MST", // time.Time.String
}

// flexTime scans a nullable DATETIME from either driver. Zone-less text is UTC.
type flexTime struct {
	Time  time.Time
	Valid bool
}

func (f *flexTime) Scan(src any) error {
	f.Time, f.Valid = time.Time{}, false
	var s string
	switch v := src.(type) {
	case nil:
		return nil
	case time.Time:
		f.Time, f.Valid = v.UTC(), true
		return nil
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("flexTime: unsupported type %T", src)
	}
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "0000-00-00") {
		return nil
	}
	for _, layout := range textTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			f.Time, f.Valid = t.UTC(), true
			return nil
		}
	}
	return fmt.Errorf("flexTime: cannot parse %q", s)
}

func (f flexTime) ptr() *time.Time {
	if !f.Valid {
		return nil
	}
	t := f.Time
	return &t
}
