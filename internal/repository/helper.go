package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ParseTime parses a stored timestamp in RFC3339 (with or without
// fractional seconds) or "2006-01-02" format.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse(time.RFC3339Nano, str)
	if err != nil {
		returnTime, err = time.Parse("2006-01-02", str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}
	return returnTime.UTC(), nil
}

// nullTime converts an optional timestamp to a nullable column value.
func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339Nano), Valid: true}
}

// parseNullTime is the inverse of nullTime.
func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := ParseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// nullExtra stores the catalog keys without a column as a JSON object.
func nullExtra(extra map[string]json.RawMessage) (sql.NullString, error) {
	if len(extra) == 0 {
		return sql.NullString{}, nil
	}
	var buf strings.Builder
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(extra); err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: strings.TrimSuffix(buf.String(), "\n"), Valid: true}, nil
}

// parseExtra is the inverse of nullExtra.
func parseExtra(s sql.NullString) (map[string]json.RawMessage, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	var extra map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s.String), &extra); err != nil {
		return nil, fmt.Errorf("failed to parse extra keys: %w", err)
	}
	return extra, nil
}
