package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"DewanRaja/internal/account/app"
	"DewanRaja/internal/account/repo"
	"DewanRaja/internal/shared/security"
	"DewanRaja/internal/shared/utils"
	"DewanRaja/modules/kit/logx"
)

type Account struct {
	userService *app.UserService
	log         logx.Logger
}

func NewAccount(db *gorm.DB, log logx.Logger) *Account {
	return &Account{
		userService: app.NewUserService(repo.NewUserRepo(db), security.Password, utils.RandSeq),
		log:         log,
	}
}

func (a *Account) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/api/login", a.Login)
	r.POST("/api/register", a.Register)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (a *Account) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	resp, err := a.userService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		a.reject(c, "login", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"uid":      resp.UId,
		"username": resp.Username,
		"token":    resp.Token,
	})
}

func (a *Account) Register(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	if err := a.userService.Register(c.Request.Context(), req.Username, req.Password); err != nil {
		a.reject(c, "register", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// reject maps service errors to HTTP statuses without leaking internals.
func (a *Account) reject(c *gin.Context, action string, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
	case errors.Is(err, app.ErrUserDisabled):
		c.JSON(http.StatusForbidden, gin.H{"error": "account is disabled"})
	case errors.Is(err, app.ErrUserExist):
		c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
	default:
		if a.log != nil {
			el := logx.BuildErrorLog(err)
			a.log.WithContext(c.Request.Context()).Error(action+" failed",
				zap.String("error", el.Error),
				zap.String("code", el.Code),
			)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
