package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sentinela-gov/sentinela/internal/apiserver/middleware"
	"github.com/sentinela-gov/sentinela/internal/common/cnst"
	"github.com/sentinela-gov/sentinela/internal/common/dto"
	"github.com/sentinela-gov/sentinela/internal/common/errorx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Login authenticates by email and password and issues a token. Wrong
// email and wrong password are indistinguishable in the response.
func (h *Handler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorx.Respond(c, errorx.ValidationFailure("error.validation.body").WithDetail("cause", err.Error()))
		return
	}

	user, err := h.store.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		errorx.Respond(c, errorx.AuthenticationFailure("error.auth.invalid_credentials"))
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		errorx.Respond(c, errorx.AuthenticationFailure("error.auth.invalid_credentials"))
		return
	}
	if !user.Active {
		errorx.Respond(c, errorx.AuthenticationFailure("error.auth.inactive_user"))
		return
	}

	token, err := h.jwt.GenerateToken(user.ID, user.Email, user.Role, user.EntityID)
	if err != nil {
		h.logger.Error("token generation failed", zap.Error(err))
		errorx.Respond(c, errorx.Internal())
		return
	}

	now := time.Now().UTC()
	user.LastLogin = &now
	if err := h.store.UpdateUser(c.Request.Context(), user); err != nil {
		h.logger.Warn("last login stamp failed", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	h.audit.Record(c.Request.Context(), middleware.Entry{
		Principal: principalOf(user),
		Action:    cnst.ActionLogin,
		Table:     "usuarios",
		RecordID:  &user.ID,
		EntityID:  user.EntityID,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})

	c.JSON(http.StatusOK, dto.LoginResponse{Token: token, User: user})
}

// Me returns the authenticated user.
func (h *Handler) Me(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	user, err := h.store.GetUserByID(c.Request.Context(), p.ID)
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ChangePassword replaces the caller's own password after verifying the
// current one.
func (h *Handler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorx.Respond(c, errorx.ValidationFailure("error.validation.body").WithDetail("cause", err.Error()))
		return
	}

	p := middleware.PrincipalFrom(c)
	user, err := h.store.GetUserByID(c.Request.Context(), p.ID)
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		errorx.Respond(c, errorx.AuthenticationFailure("error.auth.invalid_credentials"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		errorx.Respond(c, errorx.Internal())
		return
	}
	user.PasswordHash = string(hash)
	if err := h.store.UpdateUser(c.Request.Context(), user); err != nil {
		errorx.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
