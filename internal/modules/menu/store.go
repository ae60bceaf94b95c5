package menu

import (
	"context"
	"errors"
	"time"

	"github.com/menulens/core/internal/models"
	"github.com/menulens/core/internal/modules/enrichment"
	"gorm.io/gorm"
)

// Store persists processed menus. All writes for one upload happen in a
// single transaction so a menu, its items, its images, and the credit debit
// are committed or rolled back together.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// SaveInput is everything needed to persist one processed upload.
type SaveInput struct {
	UserID   string
	Title    string
	PhotoURL string
	Items    []ProcessedItem
	Cost     int
}

// SaveMenu writes the menu, its items, one batched image insert across all
// items, and debits the user, atomically. The debit is conditional on the
// balance still covering the cost, so concurrent uploads cannot drive the
// balance negative.
func (s *Store) SaveMenu(ctx context.Context, in SaveInput) (string, int, error) {
	var (
		menuID           string
		creditsRemaining int
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		debit := tx.Model(&models.UserModel{}).
			Where("id = ? AND credits >= ?", in.UserID, in.Cost).
			UpdateColumn("credits", gorm.Expr("credits - ?", in.Cost))
		if debit.Error != nil {
			return debit.Error
		}
		if debit.RowsAffected == 0 {
			return ErrInsufficientCredits
		}

		menuRow := models.MenuModel{
			UserID:      in.UserID,
			Title:       in.Title,
			Status:      models.MenuStatusCompleted,
			PhotoURL:    in.PhotoURL,
			ProcessedAt: time.Now(),
		}
		if err := tx.Create(&menuRow).Error; err != nil {
			return err
		}
		menuID = menuRow.ID

		if len(in.Items) > 0 {
			itemRows := make([]models.MenuItemModel, len(in.Items))
			for i, item := range in.Items {
				itemRows[i] = models.MenuItemModel{
					MenuID:      menuID,
					ItemName:    item.ItemName,
					Description: item.Description,
					Price:       item.Price,
					Currency:    item.Currency,
					OrderIndex:  i,
				}
			}
			if err := tx.Create(&itemRows).Error; err != nil {
				return err
			}

			var imageRows []models.ItemImageModel
			for i, item := range in.Items {
				for j, url := range item.Images {
					imageRows = append(imageRows, models.ItemImageModel{
						MenuItemID: itemRows[i].ID,
						ImageURL:   url,
						Source:     enrichment.SourceGoogleCSE,
						IsPrimary:  j == 0,
					})
				}
			}
			if len(imageRows) > 0 {
				if err := tx.Create(&imageRows).Error; err != nil {
					return err
				}
			}
		}

		var balance struct{ Credits int }
		if err := tx.Model(&models.UserModel{}).
			Select("credits").
			Where("id = ?", in.UserID).
			Take(&balance).Error; err != nil {
			return err
		}
		creditsRemaining = balance.Credits
		return nil
	})
	if err != nil {
		return "", 0, err
	}
	return menuID, creditsRemaining, nil
}

// CreditsOf returns the user's current balance.
func (s *Store) CreditsOf(ctx context.Context, userID string) (int, error) {
	var balance struct{ Credits int }
	err := s.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Select("credits").
		Where("id = ?", userID).
		Take(&balance).Error
	if err != nil {
		return 0, err
	}
	return balance.Credits, nil
}

// GetByID loads a menu with its items and images, owner-checked. An id owned
// by another user reads the same as a missing one.
func (s *Store) GetByID(ctx context.Context, userID, menuID string) (*models.MenuModel, error) {
	var menuRow models.MenuModel
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("menu_items.order_index ASC")
		}).
		Preload("Items.Images").
		Where("id = ? AND user_id = ?", menuID, userID).
		Take(&menuRow).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMenuNotFound
	}
	if err != nil {
		return nil, err
	}
	return &menuRow, nil
}

// ListByUser returns the user's menus, newest first, without item payloads.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]models.MenuModel, error) {
	var menus []models.MenuModel
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&menus).Error
	return menus, err
}
