package models

import "time"

// Menu processing statuses. Menus are created once per upload and never
// mutated afterwards.
const (
	MenuStatusCompleted = "completed"
	MenuStatusFailed    = "failed"
)

// MenuModel is one processed menu upload.
type MenuModel struct {
	Base
	UserID      string          `json:"user_id"      gorm:"index;not null"`
	Title       string          `json:"title"`
	Status      string          `json:"status"       gorm:"not null"`
	PhotoURL    string          `json:"photo_url"`
	ProcessedAt time.Time       `json:"processed_at"`
	Items       []MenuItemModel `json:"items,omitempty" gorm:"foreignKey:MenuID"`
}

func (MenuModel) TableName() string { return "menus" }

// MenuItemModel is a single extracted item belonging to a menu.
type MenuItemModel struct {
	Base
	MenuID      string           `json:"menu_id"     gorm:"index;not null"`
	ItemName    string           `json:"item_name"   gorm:"not null"`
	Description *string          `json:"description"`
	Price       *float64         `json:"price"`
	Currency    *string          `json:"currency"`
	OrderIndex  int              `json:"order_index"`
	Images      []ItemImageModel `json:"images,omitempty" gorm:"foreignKey:MenuItemID"`
}

func (MenuItemModel) TableName() string { return "menu_items" }

// ItemImageModel is one illustrative image found for a menu item.
type ItemImageModel struct {
	Base
	MenuItemID string `json:"menu_item_id" gorm:"index;not null"`
	ImageURL   string `json:"image_url"    gorm:"type:text;not null"`
	Source     string `json:"source"`
	IsPrimary  bool   `json:"is_primary"`
}

func (ItemImageModel) TableName() string { return "item_images" }
