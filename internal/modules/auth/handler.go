package auth

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
	grp := r.Group("/auth")
	grp.POST("/signup", h.Signup)
	grp.POST("/login", h.Login)
	grp.GET("/verify", middleware.Auth(), h.Verify)
}

type sessionResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        interface{} `json:"user"`
}

func (h *Handler) Signup(c *gin.Context) {
	var in SignupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "invalid signup payload: "+err.Error())
		return
	}

	user, token, err := h.service.Signup(c.Request.Context(), in)
	if errors.Is(err, ErrEmailTaken) {
		response.Conflict(c, "email is already registered")
		return
	}
	if err != nil {
		h.logger.Error("signup failed", zap.Error(err))
		response.InternalErrorMsg(c, "failed to create account")
		return
	}

	response.Created(c, sessionResponse{AccessToken: token, TokenType: "bearer", User: user})
}

func (h *Handler) Login(c *gin.Context) {
	var in struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "invalid login payload")
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), in.Email, in.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		response.Unauthorized(c)
		return
	}
	if err != nil {
		h.logger.Error("login failed", zap.Error(err))
		response.InternalErrorMsg(c, "failed to log in")
		return
	}

	response.OK(c, sessionResponse{AccessToken: token, TokenType: "bearer", User: user})
}

// Verify confirms the bearer token still maps to a live account.
func (h *Handler) Verify(c *gin.Context) {
	user, err := h.service.UserByID(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if user == nil {
		response.Unauthorized(c)
		return
	}
	response.OK(c, user)
}
