// Package translate renders extracted menu items into another language with
// the configured language model.
package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/menulens/core/internal/config"
	"github.com/menulens/core/internal/models"
	"github.com/menulens/core/internal/pkg/llm"
	"gorm.io/gorm"
)

const maxTranslationTokens = 1000

const systemPrompt = "You are a culinary translator. Translate menu items accurately, keeping dish names natural for the target language. Respond with JSON only."

// ErrItemNotFound covers both unknown item ids and items belonging to another
// user's menu.
var ErrItemNotFound = errors.New("menu item not found")

// Input is one menu item to translate.
type Input struct {
	ItemName       string  `json:"item_name" binding:"required"`
	Description    *string `json:"description"`
	TargetLanguage string  `json:"target_language" binding:"required"`
}

// Result is the translated item.
type Result struct {
	ItemName    string  `json:"item_name"`
	Description *string `json:"description"`
}

type Service struct {
	cfg config.AIConfig
	db  *gorm.DB
}

func NewService(cfg config.AIConfig, db *gorm.DB) *Service {
	return &Service{cfg: cfg, db: db}
}

// TranslateStoredItem looks up a persisted menu item, owner-checked through
// its menu, and translates it.
func (s *Service) TranslateStoredItem(ctx context.Context, userID, itemID, targetLanguage string) (*Result, error) {
	var item models.MenuItemModel
	err := s.db.WithContext(ctx).
		Joins("JOIN menus ON menus.id = menu_items.menu_id").
		Where("menu_items.id = ? AND menus.user_id = ?", itemID, userID).
		Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}

	return s.TranslateItem(ctx, Input{
		ItemName:       item.ItemName,
		Description:    item.Description,
		TargetLanguage: targetLanguage,
	})
}

// TranslateItem translates a single item name and optional description.
func (s *Service) TranslateItem(ctx context.Context, in Input) (*Result, error) {
	provider := llm.SelectProvider(s.cfg, s.cfg.TranslationModel)
	if provider == nil {
		return nil, errors.New("no enabled language-model provider for translation")
	}

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Translate this menu item to %s.\n", in.TargetLanguage)
	fmt.Fprintf(&prompt, "Name: %s\n", in.ItemName)
	if in.Description != nil && strings.TrimSpace(*in.Description) != "" {
		fmt.Fprintf(&prompt, "Description: %s\n", *in.Description)
	}
	prompt.WriteString(`Return a JSON object with 'item_name' and 'description' fields. Set 'description' to null if there is none.`)

	reply, err := llm.GenerateText(ctx, provider, systemPrompt, prompt.String(), maxTranslationTokens)
	if err != nil {
		return nil, err
	}

	var result Result
	if err := json.Unmarshal([]byte(llm.StripFences(reply)), &result); err != nil {
		return nil, fmt.Errorf("malformed translation response: %w", err)
	}
	if strings.TrimSpace(result.ItemName) == "" {
		return nil, errors.New("translation response is missing the item name")
	}
	return &result, nil
}
