// Package domain holds the data shapes exchanged with the search backend.
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// GameRecord is one searchable item as returned by the search backend.
// Records are decoded from the backend response and never mutated afterwards.
type GameRecord struct {
	ID                int64        `json:"id"`
	Name              string       `json:"name"`
	Description       string       `json:"description"`
	Price             float64      `json:"price"` // 0 means free
	Image             string       `json:"image"`
	Link              string       `json:"link"`
	PCRequirements    Requirements `json:"pc_requirements"`
	MacRequirements   Requirements `json:"mac_requirements"`
	LinuxRequirements Requirements `json:"linux_requirements"`
	Genres            []string     `json:"genres"`
	Categories        []string     `json:"categories"`
}

// Requirements maps a requirement tier ("minimum", "recommended") to its text.
//
// Backends disagree on the shape. The Steam storefront sends an object per platform and
// encodes an empty block as []; flattening backends send one plain-text string. Strings
// decode under the "minimum" tier, null, blank strings and [] decode to an empty mapping,
// and any other shape degrades to an empty mapping so one odd record never fails a page.
type Requirements map[string]string

// SingleTier is the tier a plain-text requirements string is stored under.
const SingleTier = "minimum"

// UnmarshalJSON implements json.Unmarshaler.
func (r *Requirements) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	*r = Requirements{}

	if len(trimmed) == 0 {
		return nil
	}

	switch trimmed[0] {
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return fmt.Errorf("decode requirements: %w", err)
		}
		if strings.TrimSpace(text) != "" {
			(*r)[SingleTier] = text
		}
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return fmt.Errorf("decode requirements: %w", err)
		}
		for tier, raw := range fields {
			var text string
			if json.Unmarshal(raw, &text) == nil && text != "" {
				(*r)[tier] = text
			}
		}
	}
	return nil
}

// Keys returns the requirement tiers in a stable order: minimum, recommended, then the rest sorted.
func (r Requirements) Keys() []string {
	keys := slices.Sorted(maps.Keys(r))
	slices.SortStableFunc(keys, func(a, b string) int {
		return tierRank(a) - tierRank(b)
	})
	return keys
}

func tierRank(key string) int {
	switch key {
	case "minimum":
		return 0
	case "recommended":
		return 1
	default:
		return 2
	}
}
