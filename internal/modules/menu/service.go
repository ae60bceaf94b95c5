// Package menu implements the menu processing pipeline: extract items from a
// photo, enrich them with food images, and persist everything against the
// user's credit balance.
package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/menulens/core/internal/models"
	"github.com/menulens/core/internal/modules/extraction"
	"github.com/menulens/core/internal/pkg/progress"
	"go.uber.org/zap"
)

// CostPerMenu is the credit price of one processing run.
const CostPerMenu = 10

// UnknownItemName labels extracted records that carried no name. They are
// stored for completeness but never enriched.
const UnknownItemName = "Unknown Item"

// Extractor turns a menu photo into structured items.
type Extractor interface {
	Extract(ctx context.Context, image []byte) ([]extraction.ItemExtraction, error)
}

// Enricher finds image URLs per item name, positionally.
type Enricher interface {
	EnrichItems(ctx context.Context, names []string) [][]string
}

// PhotoArchiver stores the original upload in object storage and returns its
// public URL.
type PhotoArchiver interface {
	Archive(ctx context.Context, key string, data []byte) (string, error)
}

// Storage is the persistence surface the service depends on.
type Storage interface {
	SaveMenu(ctx context.Context, in SaveInput) (string, int, error)
	CreditsOf(ctx context.Context, userID string) (int, error)
	GetByID(ctx context.Context, userID, menuID string) (*models.MenuModel, error)
	ListByUser(ctx context.Context, userID string) ([]models.MenuModel, error)
}

// Service runs uploads through the pipeline. Tracker and archiver are
// optional; processing works the same without them.
type Service struct {
	store     Storage
	extractor Extractor
	enricher  Enricher
	tracker   *progress.Tracker
	archiver  PhotoArchiver
	logger    *zap.Logger
}

func NewService(store Storage, extractor Extractor, enricher Enricher, tracker *progress.Tracker, archiver PhotoArchiver, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     store,
		extractor: extractor,
		enricher:  enricher,
		tracker:   tracker,
		archiver:  archiver,
		logger:    logger,
	}
}

// ProcessUpload runs the full pipeline for one photo and returns the saved
// menu plus the upload's progress id. The caller is only charged when the
// save transaction commits.
func (s *Service) ProcessUpload(ctx context.Context, userID string, image []byte) (*ProcessedMenuResponse, string, error) {
	balance, err := s.store.CreditsOf(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if balance < CostPerMenu {
		return nil, "", ErrInsufficientCredits
	}

	uploadID := s.begin(ctx, userID)

	s.advance(ctx, uploadID, progress.StageExtracting)
	extracted, err := s.extractor.Extract(ctx, image)
	if err != nil {
		s.fail(ctx, uploadID, "extraction")
		return nil, uploadID, &ExtractionError{Err: err}
	}

	s.advance(ctx, uploadID, progress.StageEnriching)
	items := s.enrich(ctx, extracted)

	s.advance(ctx, uploadID, progress.StagePersisting)
	photoURL := s.archivePhoto(ctx, uploadID, image)

	menuID, remaining, err := s.store.SaveMenu(ctx, SaveInput{
		UserID:   userID,
		Title:    deriveTitle(items),
		PhotoURL: photoURL,
		Items:    items,
		Cost:     CostPerMenu,
	})
	if errors.Is(err, ErrInsufficientCredits) {
		s.fail(ctx, uploadID, "insufficient_credits")
		return nil, uploadID, err
	}
	if err != nil {
		s.fail(ctx, uploadID, "persistence")
		return nil, uploadID, &PersistenceError{Err: err}
	}

	s.complete(ctx, uploadID, menuID)
	s.logger.Info("menu processed",
		zap.String("menu_id", menuID),
		zap.String("user_id", userID),
		zap.Int("items", len(items)),
	)

	return &ProcessedMenuResponse{
		MenuID:           menuID,
		Items:            items,
		CreditsRemaining: remaining,
	}, uploadID, nil
}

// enrich searches images for every named item and attaches them by position.
// Nameless records become "Unknown Item" with no images. Extraction order is
// preserved.
func (s *Service) enrich(ctx context.Context, extracted []extraction.ItemExtraction) []ProcessedItem {
	items := make([]ProcessedItem, len(extracted))
	names := make([]string, 0, len(extracted))
	namedSlots := make([]int, 0, len(extracted))

	for i, entry := range extracted {
		name := strings.TrimSpace(entry.Name)
		items[i] = ProcessedItem{
			ItemName:    name,
			Description: entry.Description,
			Price:       entry.Price,
			Currency:    entry.Currency,
			Images:      []string{},
		}
		if name == "" {
			items[i].ItemName = UnknownItemName
			continue
		}
		names = append(names, name)
		namedSlots = append(namedSlots, i)
	}

	results := s.enricher.EnrichItems(ctx, names)
	for j, slot := range namedSlots {
		if results[j] != nil {
			items[slot].Images = results[j]
		}
	}
	return items
}

func (s *Service) archivePhoto(ctx context.Context, uploadID string, image []byte) string {
	if s.archiver == nil {
		return ""
	}
	key := "menus/" + uploadID + ".jpg"
	url, err := s.archiver.Archive(ctx, key, image)
	if err != nil {
		// Archival is best-effort; the pipeline continues without the photo.
		s.logger.Warn("photo archival failed", zap.String("upload_id", uploadID), zap.Error(err))
		return ""
	}
	return url
}

// GetMenu loads one of the user's menus with items and images.
func (s *Service) GetMenu(ctx context.Context, userID, menuID string) (*models.MenuModel, error) {
	return s.store.GetByID(ctx, userID, menuID)
}

// ListMenus returns the user's menus, newest first.
func (s *Service) ListMenus(ctx context.Context, userID string) ([]models.MenuModel, error) {
	return s.store.ListByUser(ctx, userID)
}

// ListUploads returns the caller's recent uploads with their processing
// stages, newest first.
func (s *Service) ListUploads(ctx context.Context, userID string) ([]*progress.Upload, error) {
	if s.tracker == nil {
		return nil, fmt.Errorf("progress tracking is not enabled")
	}
	return s.tracker.ListByUser(ctx, userID)
}

// UploadProgress returns the progress record for an upload, owner-checked.
func (s *Service) UploadProgress(ctx context.Context, userID, uploadID string) (*progress.Upload, error) {
	if s.tracker == nil {
		return nil, fmt.Errorf("progress tracking is not enabled")
	}
	up, err := s.tracker.GetByID(ctx, uploadID)
	if err != nil {
		return nil, err
	}
	if up == nil || up.UserID != userID {
		return nil, nil
	}
	return up, nil
}

func deriveTitle(items []ProcessedItem) string {
	for _, item := range items {
		if item.ItemName != "" && item.ItemName != UnknownItemName {
			return item.ItemName
		}
	}
	return "Untitled Menu"
}

func (s *Service) begin(ctx context.Context, userID string) string {
	if s.tracker == nil {
		return ""
	}
	up, err := s.tracker.Begin(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to start progress tracking", zap.Error(err))
		return ""
	}
	return up.ID
}

func (s *Service) advance(ctx context.Context, uploadID string, stage progress.Stage) {
	if s.tracker == nil || uploadID == "" {
		return
	}
	if err := s.tracker.Advance(ctx, uploadID, stage); err != nil {
		s.logger.Warn("failed to advance upload progress", zap.String("upload_id", uploadID), zap.Error(err))
	}
}

func (s *Service) complete(ctx context.Context, uploadID, menuID string) {
	if s.tracker == nil || uploadID == "" {
		return
	}
	if err := s.tracker.Complete(ctx, uploadID, menuID); err != nil {
		s.logger.Warn("failed to complete upload progress", zap.String("upload_id", uploadID), zap.Error(err))
	}
}

func (s *Service) fail(ctx context.Context, uploadID, kind string) {
	if s.tracker == nil || uploadID == "" {
		return
	}
	if err := s.tracker.Fail(ctx, uploadID, kind); err != nil {
		s.logger.Warn("failed to mark upload failed", zap.String("upload_id", uploadID), zap.Error(err))
	}
}
