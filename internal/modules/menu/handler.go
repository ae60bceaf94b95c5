package menu

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/menulens/core/internal/middleware"
	"github.com/menulens/core/internal/pkg/response"
	"go.uber.org/zap"
)

// 10 MB request cap keeps oversized photos out of the pipeline.
const maxUploadBytes = 10 << 20

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
	grp := r.Group("/menu", middleware.Auth())
	grp.POST("/upload", h.Upload)
	grp.GET("/user", h.ListMenus)
	grp.GET("/uploads", h.ListUploads)
	grp.GET("/upload/progress/:id", h.UploadProgress)
	grp.GET("/:id", h.GetMenu)
}

// Upload accepts a multipart "file" field with the menu photo, runs the
// pipeline, and returns the saved menu.
func (h *Handler) Upload(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "missing file upload")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		response.BadRequest(c, "uploaded file is too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "unreadable file upload")
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		response.BadRequest(c, "unreadable file upload")
		return
	}
	if len(image) == 0 {
		response.BadRequest(c, "uploaded file is empty")
		return
	}

	result, uploadID, err := h.service.ProcessUpload(c.Request.Context(), userID, image)
	if uploadID != "" {
		c.Header("X-Upload-Id", uploadID)
	}
	if err != nil {
		h.renderUploadError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *Handler) renderUploadError(c *gin.Context, err error) {
	var (
		extractionErr  *ExtractionError
		persistenceErr *PersistenceError
	)
	switch {
	case errors.Is(err, ErrInsufficientCredits):
		response.PaymentRequired(c, "Insufficient credits.")
	case errors.As(err, &extractionErr):
		h.logger.Error("menu extraction failed", zap.Error(err))
		response.InternalErrorMsg(c, "Failed to extract menu items.")
	case errors.As(err, &persistenceErr):
		h.logger.Error("menu persistence failed", zap.Error(err))
		response.InternalErrorMsg(c, "Failed to save menu data.")
	default:
		h.logger.Error("menu upload failed", zap.Error(err))
		response.InternalError(c, err)
	}
}

// GetMenu returns one menu with its items and images.
func (h *Handler) GetMenu(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	menuRow, err := h.service.GetMenu(c.Request.Context(), userID, c.Param("id"))
	if errors.Is(err, ErrMenuNotFound) {
		response.NotFoundMsg(c, "menu not found")
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, menuRow)
}

// ListMenus returns the caller's menus, newest first.
func (h *Handler) ListMenus(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	menus, err := h.service.ListMenus(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, menus)
}

// ListUploads returns the caller's recent uploads with their processing
// stages.
func (h *Handler) ListUploads(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	uploads, err := h.service.ListUploads(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, uploads)
}

// UploadProgress reports the processing stage of an in-flight or recent
// upload.
func (h *Handler) UploadProgress(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	up, err := h.service.UploadProgress(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if up == nil {
		response.NotFoundMsg(c, "upload not found")
		return
	}
	c.JSON(http.StatusOK, up)
}
