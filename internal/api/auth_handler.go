package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MdFayaz7/portfolio1/internal/api/middleware"
	"github.com/MdFayaz7/portfolio1/internal/auth"
	"github.com/MdFayaz7/portfolio1/internal/database"
)

// AuthHandler 处理登录、首次注册与令牌自检。
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler 构造认证处理器。
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type credentialsRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=6,max=72"`
}

var credentialsMessages = map[string]fieldMessage{
	"Email":    {field: "email", message: "Valid email is required"},
	"Password": {field: "password", message: "Password must be at least 6 characters"},
}

type userView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func viewOf(u *database.User) userView {
	return userView{ID: u.ID, Email: u.Email, Role: u.Role}
}

// Login 校验口令并签发令牌。
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := bind(c, &req, credentialsMessages); err != nil {
		fail(c, err)
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		middleware.LoggerFromContext(c).Info("login rejected", slog.Any("error", err))
		fail(c, err)
		return
	}

	ok(c, http.StatusOK, "Login successful", gin.H{"token": token, "user": viewOf(user)})
}

// Register 创建首个管理员账号，仅在持有 setup token 时可用。
func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := bind(c, &req, credentialsMessages); err != nil {
		fail(c, err)
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	middleware.LoggerFromContext(c).Info("admin registered", slog.String("user_id", user.ID))
	ok(c, http.StatusCreated, "Admin user created successfully", gin.H{"token": token, "user": viewOf(user)})
}

// Me 返回当前令牌对应的用户。
func (h *AuthHandler) Me(c *gin.Context) {
	ok(c, http.StatusOK, "", gin.H{"user": viewOf(middleware.CurrentUser(c))})
}

// Verify 确认令牌有效。
func (h *AuthHandler) Verify(c *gin.Context) {
	ok(c, http.StatusOK, "Token is valid", gin.H{"user": viewOf(middleware.CurrentUser(c))})
}
