package menu

// ProcessedItem is one menu item in the upload response, images attached.
type ProcessedItem struct {
	ItemName    string   `json:"item_name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Currency    *string  `json:"currency"`
	Images      []string `json:"images"`
}

// ProcessedMenuResponse is the payload returned after a successful upload.
type ProcessedMenuResponse struct {
	MenuID           string          `json:"menu_id"`
	Items            []ProcessedItem `json:"items"`
	CreditsRemaining int             `json:"credits_remaining"`
}
