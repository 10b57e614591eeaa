package service

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/athtracker/athtracker-backend/internal/apperrors"
	"github.com/athtracker/athtracker-backend/internal/model"
)

// sortKeys are the fields a catalog listing can be ordered by. Refreshed
// catalogs come back in completion order, so listings sort explicitly.
var sortKeys = map[string]func(a, b model.Asset) int{
	"name": func(a, b model.Asset) int { return strings.Compare(a.Symbol, b.Symbol) },
	"label": func(a, b model.Asset) int {
		return strings.Compare(strings.ToLower(a.Label), strings.ToLower(b.Label))
	},
	"currentPrice": func(a, b model.Asset) int { return a.CurrentPrice.Cmp(b.CurrentPrice) },
	"ath":          func(a, b model.Asset) int { return a.ATH.Cmp(b.ATH) },
	"percentBelow": func(a, b model.Asset) int { return a.PercentBelow.Cmp(b.PercentBelow) },
}

// SortAssets orders assets in place by key; ties keep their current order.
// An empty key sorts by name.
func SortAssets(assets []model.Asset, key string, desc bool) error {
	if key == "" {
		key = "name"
	}
	compare, ok := sortKeys[key]
	if !ok {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidSortKey, key)
	}

	slices.SortStableFunc(assets, func(a, b model.Asset) int {
		c := compare(a, b)
		if desc {
			return cmp.Compare(0, c)
		}
		return c
	})
	return nil
}
