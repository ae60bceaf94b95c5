package extraction

import (
	"encoding/json"
	"strings"
)

// ItemExtraction is one menu item as returned by the language model. Optional
// fields stay nil when the menu does not state them.
type ItemExtraction struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Currency    *string  `json:"currency"`
}

// rawItem matches the model's JSON schema strictly. A wrong-typed field fails
// the decode instead of being coerced.
type rawItem struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Currency    *string  `json:"currency"`
}

// parseItems decodes a model reply into extractions. The reply must be a JSON
// array of objects; anything else counts as malformed.
func parseItems(raw string) ([]ItemExtraction, error) {
	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.DisallowUnknownFields()

	var parsed []rawItem
	if err := decoder.Decode(&parsed); err != nil {
		return nil, &MalformedResponseError{Raw: raw, Reason: err.Error()}
	}

	items := make([]ItemExtraction, 0, len(parsed))
	for _, entry := range parsed {
		item := ItemExtraction{
			Description: entry.Description,
			Price:       entry.Price,
			Currency:    entry.Currency,
		}
		if entry.Name != nil {
			item.Name = strings.TrimSpace(*entry.Name)
		}
		items = append(items, item)
	}
	return items, nil
}
