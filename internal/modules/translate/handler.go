package translate

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/menulens/core/internal/middleware"
	"github.com/menulens/core/internal/pkg/response"
	"go.uber.org/zap"
)

type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	grp := r.Group("/translate", middleware.Auth())
	grp.POST("/menu-item", h.TranslateMenuItem)
}

// TranslateMenuItem translates a stored item by id, or an inline name when
// the client has not persisted the item yet.
func (h *Handler) TranslateMenuItem(c *gin.Context) {
	var in struct {
		ItemID         string  `json:"item_id"`
		ItemName       string  `json:"item_name"`
		Description    *string `json:"description"`
		TargetLanguage string  `json:"target_language" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "invalid translation payload: "+err.Error())
		return
	}

	ctx := c.Request.Context()

	var (
		result *Result
		err    error
	)
	switch {
	case in.ItemID != "":
		result, err = h.service.TranslateStoredItem(ctx, middleware.CurrentUserID(c), in.ItemID, in.TargetLanguage)
	case in.ItemName != "":
		result, err = h.service.TranslateItem(ctx, Input{
			ItemName:       in.ItemName,
			Description:    in.Description,
			TargetLanguage: in.TargetLanguage,
		})
	default:
		response.BadRequest(c, "either item_id or item_name is required")
		return
	}

	if errors.Is(err, ErrItemNotFound) {
		response.NotFoundMsg(c, "menu item not found")
		return
	}
	if err != nil {
		h.logger.Error("menu item translation failed", zap.Error(err))
		response.InternalErrorMsg(c, "failed to translate menu item")
		return
	}
	response.OK(c, result)
}
