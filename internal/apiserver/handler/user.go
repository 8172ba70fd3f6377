package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sentinela-gov/sentinela/internal/apiserver/database"
	"github.com/sentinela-gov/sentinela/internal/apiserver/guard"
	"github.com/sentinela-gov/sentinela/internal/apiserver/middleware"
	"github.com/sentinela-gov/sentinela/internal/common/cnst"
	"github.com/sentinela-gov/sentinela/internal/common/dto"
	"github.com/sentinela-gov/sentinela/internal/common/errorx"
	"github.com/sentinela-gov/sentinela/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

// CreateUser registers a user inside the caller's entity. Only ROOT may
// place a user in another entity or mint another ROOT.
func (h *Handler) CreateUser(c *gin.Context) {
	p, ok := h.requireRole(c, cnst.GestorOrRoot)
	if !ok {
		return
	}

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorx.Respond(c, errorx.ValidationFailure("error.validation.body").WithDetail("cause", err.Error()))
		return
	}

	role := cnst.Role(req.Role)
	if !role.Valid() {
		errorx.Respond(c, errorx.ValidationFailure("error.validation.role").WithDetail("role", req.Role))
		return
	}
	if role == cnst.RoleRoot && !p.IsRoot() {
		errorx.Respond(c, errorx.AccessDenied("error.access_denied.role"))
		return
	}

	entityID, err := guard.AssignTenant(p, req.EntityID)
	if err != nil {
		errorx.Respond(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		errorx.Respond(c, errorx.Internal())
		return
	}
	user := &database.User{
		EntityID:     &entityID,
		Name:         req.Name,
		CPF:          utils.StripNonDigits(req.CPF),
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	if err := h.store.CreateUser(c.Request.Context(), user); err != nil {
		errorx.Respond(c, err)
		return
	}

	h.recordAudit(c, p, cnst.ActionCreate, "usuarios", user.ID, user.EntityID, nil, user)
	c.JSON(http.StatusCreated, user)
}

// ListUsers lists the users visible to the caller.
func (h *Handler) ListUsers(c *gin.Context) {
	p, ok := h.requireRole(c, cnst.GestorOrRoot)
	if !ok {
		return
	}
	scope, err := guard.ListScope(p)
	if err != nil {
		errorx.Respond(c, err)
		return
	}

	users, err := h.store.ListUsers(c.Request.Context(), database.UserFilter{
		Tenant:     scope,
		Role:       c.Query("role"),
		Pagination: pagination(c),
	})
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser returns one user within the caller's tenant.
func (h *Handler) GetUser(c *gin.Context) {
	p, ok := h.requireRole(c, cnst.GestorOrRoot)
	if !ok {
		return
	}
	id, err := parseID(c)
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	user, err := h.store.GetUserByID(c.Request.Context(), id)
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	if !h.checkTenant(c, p, user) {
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser applies a partial update to a user.
func (h *Handler) UpdateUser(c *gin.Context) {
	p, ok := h.requireRole(c, cnst.GestorOrRoot)
	if !ok {
		return
	}
	id, err := parseID(c)
	if err != nil {
		errorx.Respond(c, err)
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorx.Respond(c, errorx.ValidationFailure("error.validation.body").WithDetail("cause", err.Error()))
		return
	}

	user, err := h.store.GetUserByID(c.Request.Context(), id)
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	if !h.checkTenant(c, p, user) {
		return
	}
	before, _ := json.Marshal(user)

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			errorx.Respond(c, errorx.Internal())
			return
		}
		user.PasswordHash = string(hash)
	}
	if req.Role != nil {
		role := cnst.Role(*req.Role)
		if !role.Valid() {
			errorx.Respond(c, errorx.ValidationFailure("error.validation.role").WithDetail("role", *req.Role))
			return
		}
		if role == cnst.RoleRoot && !p.IsRoot() {
			errorx.Respond(c, errorx.AccessDenied("error.access_denied.role"))
			return
		}
		user.Role = role
	}
	if req.Active != nil {
		user.Active = *req.Active
	}

	if err := h.store.UpdateUser(c.Request.Context(), user); err != nil {
		errorx.Respond(c, err)
		return
	}
	h.recordAudit(c, p, cnst.ActionUpdate, "usuarios", user.ID, user.EntityID, before, user)
	c.JSON(http.StatusOK, user)
}

// DeactivateUser flips the user inactive. Users are never hard-deleted.
func (h *Handler) DeactivateUser(c *gin.Context) {
	p, ok := h.requireRole(c, cnst.GestorOrRoot)
	if !ok {
		return
	}
	id, err := parseID(c)
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	user, err := h.store.GetUserByID(c.Request.Context(), id)
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	if !h.checkTenant(c, p, user) {
		return
	}
	before, _ := json.Marshal(user)

	user.Active = false
	if err := h.store.UpdateUser(c.Request.Context(), user); err != nil {
		errorx.Respond(c, err)
		return
	}
	h.recordAudit(c, p, cnst.ActionDeactivate, "usuarios", user.ID, user.EntityID, before, user)
	c.JSON(http.StatusOK, user)
}

// recordAudit marshals the before/after snapshots and appends a trail
// record for the request.
func (h *Handler) recordAudit(c *gin.Context, p guard.Principal, action cnst.ActionType, table string, recordID uint, entityID *uint, before []byte, after any) {
	afterJSON, _ := json.Marshal(after)
	h.audit.Record(c.Request.Context(), middleware.Entry{
		Principal: p,
		Action:    action,
		Table:     table,
		RecordID:  &recordID,
		EntityID:  entityID,
		Before:    string(before),
		After:     string(afterJSON),
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
}
