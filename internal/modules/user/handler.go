// Package user serves the authenticated account's profile and credit
// balance.
package user

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/menulens/core/internal/middleware"
	"github.com/menulens/core/internal/models"
	"github.com/menulens/core/internal/pkg/response"
	"gorm.io/gorm"
)

type Profile struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Birthday  string `json:"birthday"`
	Gender    string `json:"gender"`
	Credits   int    `json:"credits"`
}

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	grp := r.Group("/user", middleware.Auth())
	grp.GET("/profile", h.Profile)
	grp.POST("/profile", h.Profile)
	grp.PUT("/profile", h.UpdateProfile)
	grp.GET("/credits", h.Credits)
	grp.PUT("/credits", h.TopUpCredits)
}

func (h *Handler) load(ctx context.Context, userID string) (*models.UserModel, error) {
	var user models.UserModel
	err := h.db.WithContext(ctx).Where("id = ?", userID).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Profile returns the caller's profile. Registered for both GET and POST to
// stay compatible with older clients that posted here.
func (h *Handler) Profile(c *gin.Context) {
	user, err := h.load(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if user == nil {
		response.Unauthorized(c)
		return
	}

	response.OK(c, Profile{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Birthday:  user.Birthday,
		Gender:    user.Gender,
		Credits:   user.Credits,
	})
}

// UpdateProfile changes the caller's editable profile fields. Email, password
// and credits are not editable here.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var in struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Birthday  *string `json:"birthday"`
		Gender    *string `json:"gender"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "invalid profile payload")
		return
	}

	updates := map[string]interface{}{}
	if in.FirstName != nil {
		updates["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		updates["last_name"] = *in.LastName
	}
	if in.Birthday != nil {
		updates["birthday"] = *in.Birthday
	}
	if in.Gender != nil {
		updates["gender"] = *in.Gender
	}
	if len(updates) == 0 {
		response.BadRequest(c, "no profile fields to update")
		return
	}

	userID := middleware.CurrentUserID(c)
	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.UserModel{}).
		Where("id = ?", userID).
		Updates(updates).Error; err != nil {
		response.InternalError(c, err)
		return
	}

	h.Profile(c)
}

// TopUpCredits adds credits to the caller's balance. Payment processing is
// out of scope; this is the hook the purchase flow will call.
func (h *Handler) TopUpCredits(c *gin.Context) {
	var in struct {
		Amount int `json:"amount" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "amount must be a positive integer")
		return
	}

	userID := middleware.CurrentUserID(c)
	res := h.db.WithContext(c.Request.Context()).
		Model(&models.UserModel{}).
		Where("id = ?", userID).
		UpdateColumn("credits", gorm.Expr("credits + ?", in.Amount))
	if res.Error != nil {
		response.InternalError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		response.Unauthorized(c)
		return
	}

	h.Credits(c)
}

// Credits returns the caller's balance only, for cheap polling after an
// upload.
func (h *Handler) Credits(c *gin.Context) {
	user, err := h.load(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if user == nil {
		response.Unauthorized(c)
		return
	}
	response.OK(c, gin.H{"credits": user.Credits})
}
