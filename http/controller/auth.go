package controller

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/aperturelog/aperture/entity"
	"github.com/aperturelog/aperture/http/controller/dto"
	"github.com/aperturelog/aperture/utils"
)

const sessionKeyPrefix = "session:"

type sessionRecord struct {
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (ctrl *Controller) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid registration payload: "+err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Auth] Failed to hash password")
		utils.JSON500(c, "Failed to register")
		return
	}

	user := &entity.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
	}
	if err := ctrl.Repository.UserRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.JSON409(c, "Email already registered")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Auth] Failed to create user")
		utils.JSON500(c, "Failed to register")
		return
	}

	utils.JSON201(c, user)
}

// Login verifies credentials, creates a server-side session in redis and
// sets the session-bound access token as a cookie. Sessions expire together
// with the token.
func (ctrl *Controller) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid login payload: "+err.Error())
		return
	}

	user, err := ctrl.Repository.UserRepo.FindByEmail(req.Email)
	if err != nil {
		utils.JSON401(c, "Invalid email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		utils.JSON401(c, "Invalid email or password")
		return
	}

	sessionID := uuid.New()
	ttl := time.Duration(ctrl.Config.EnvConfig.JWT.Expire) * time.Second
	record := sessionRecord{UserID: user.ID.String(), CreatedAt: time.Now()}
	if err := ctrl.Infra.Redis.Set(ctx, sessionKeyPrefix+sessionID.String(), record, ttl); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Auth] Failed to store session")
		utils.JSON500(c, "Failed to log in")
		return
	}

	token, err := utils.GenerateToken(user.ID, sessionID, ctrl.Config.EnvConfig)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Auth] Failed to sign token")
		utils.JSON500(c, "Failed to log in")
		return
	}

	c.SetCookie("access_token", token, ctrl.Config.EnvConfig.JWT.Expire, "/", "", false, true)
	utils.JSON200(c, gin.H{
		"access_token": token,
		"user":         user,
	})
}

// Logout revokes the server-side session; the token is dead from this point
// even though it has not expired yet.
func (ctrl *Controller) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	sessionID := c.GetString("session_id")
	if sessionID != "" {
		if err := ctrl.Infra.Redis.Delete(ctx, sessionKeyPrefix+sessionID); err != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Auth] Failed to revoke session %s", sessionID)
			utils.JSON500(c, "Failed to log out")
			return
		}
	}

	c.SetCookie("access_token", "", -1, "/", "", false, true)
	utils.JSON200(c, gin.H{"message": "Logged out"})
}

func (ctrl *Controller) Me(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized")
		return
	}

	user, err := ctrl.Repository.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSON404(c, "User not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(c.Request.Context(), err, "[Auth] Failed to load user %s", userID)
		utils.JSON500(c, "Failed to load user")
		return
	}

	utils.JSON200(c, user)
}
