package restapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sentrix/internal/app/port"
	"sentrix/internal/domain/entity"
)

type SecurityHandler struct {
	security port.SecurityService
	logger   port.Logger
}

func NewSecurityHandler(s port.SecurityService, l port.Logger) *SecurityHandler {
	return &SecurityHandler{security: s, logger: l}
}

// TrackLogin handles POST /security/logins. Missing IP and user agent are taken from the request.
func (h *SecurityHandler) TrackLogin(c *gin.Context) {
	var info entity.LoginInfo
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&info); err != nil {
			respondError(c, h.logger, entity.Validationf("track login", "invalid request body"))
			return
		}
	}
	if info.IP == "" {
		info.IP = c.ClientIP()
	}
	if info.UserAgent == "" {
		info.UserAgent = c.Request.UserAgent()
	}

	session, err := h.security.TrackLogin(c.Request.Context(), info)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": session})
}

func (h *SecurityHandler) ListAlerts(c *gin.Context) {
	limit, offset, err := pageParams(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	alerts, err := h.security.ListAlerts(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

func (h *SecurityHandler) MarkAlertRead(c *gin.Context) {
	if err := h.security.MarkAlertRead(c.Request.Context(), c.Param("alertId")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
