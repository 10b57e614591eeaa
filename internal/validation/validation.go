// Package validation checks catalog entries before they are sent upstream.
package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/athtracker/athtracker-backend/internal/apperrors"
	"github.com/athtracker/athtracker-backend/internal/model"
)

// Error collects field-level problems of one asset.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		keys = append(keys, field)
	}
	slices.Sort(keys)

	msgs := make([]string, 0, len(keys))
	for _, field := range keys {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return strings.Join(msgs, "; ")
}

func (e *Error) Unwrap() error {
	return apperrors.ErrValidation
}

// ValidateAsset reports descriptor fields no adapter can work with. The
// source kind is only checked for presence; routing decides whether it is
// known.
func ValidateAsset(asset model.Asset) error {
	errs := make(map[string]string)

	if strings.TrimSpace(asset.Symbol) == "" {
		errs["name"] = "is required"
	}
	if asset.Source == "" {
		errs["api_source"] = "is required"
	}

	if len(errs) > 0 {
		return &Error{Fields: errs}
	}
	return nil
}
