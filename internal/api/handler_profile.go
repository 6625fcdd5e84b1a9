package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parksystem-backend/internal/i18n"
	"parksystem-backend/internal/model"
	"parksystem-backend/internal/mw"
)

type profileResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Plan     string `json:"plan"`
	PlanCode string `json:"plan_code"`
	PlanName string `json:"plan_name"`
	Usage    int    `json:"usage"`
	Limit    int    `json:"limit"`
	Language string `json:"language"`
}

func newProfileResponse(u *model.User) profileResponse {
	lang := u.Profile.Language
	if lang == "" {
		lang = i18n.Match().String()
	}
	return profileResponse{
		Username: u.Username,
		Email:    u.Email,
		Plan:     u.Profile.Plan,
		PlanCode: u.Profile.Plan,
		PlanName: model.PlanName(u.Profile.Plan),
		Usage:    u.Profile.Usage,
		Limit:    u.Profile.Limit(),
		Language: lang,
	}
}

// GetProfile returns the caller's plan and usage.
func (h *Handler) GetProfile(c *gin.Context) {
	u, err := h.store.UserByID(c.Request.Context(), mw.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, newProfileResponse(u))
}

type setPlanRequest struct {
	PlanCode string `json:"plan_code" binding:"required"`
}

// SetPlan switches the caller's plan.
func (h *Handler) SetPlan(c *gin.Context) {
	var req setPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !model.ValidPlan(req.PlanCode) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown plan_code"})
		return
	}

	profile, err := h.store.SetPlan(c.Request.Context(), mw.UserID(c), req.PlanCode)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"plan_code": profile.Plan,
		"plan_name": model.PlanName(profile.Plan),
		"limit":     profile.Limit(),
	})
}

type setLanguageRequest struct {
	Language string `json:"language" binding:"required"`
}

// SetLanguage stores the caller's language for notifications.
func (h *Handler) SetLanguage(c *gin.Context) {
	var req setLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !i18n.Valid(req.Language) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported language"})
		return
	}

	if err := h.store.SetLanguage(c.Request.Context(), mw.UserID(c), req.Language); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"language": req.Language})
}
