package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-manager/internal/dto"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/httpresp"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

// List filters by action, entity and an inclusive from/to date range on
// created_at, newest first.
func (h *AuditLogsHandler) List(c *gin.Context) {
	from, ok := optionalDate(c, "from")
	if !ok {
		return
	}
	to, ok := optionalDate(c, "to")
	if !ok {
		return
	}
	actorID, ok := optionalUint(c, "actor_id")
	if !ok {
		return
	}

	page, limit := pageParams(c)
	lq := dto.ListQuery{Page: page, Limit: limit}
	lq.Normalize()

	q := h.db.WithContext(c.Request.Context()).Model(&models.AuditLog{})
	if action := strings.TrimSpace(c.Query("action")); action != "" {
		q = q.Where("action = ?", action)
	}
	if entity := strings.TrimSpace(c.Query("entity")); entity != "" {
		q = q.Where("entity = ?", entity)
	}
	if actorID != nil {
		q = q.Where("actor_id = ?", *actorID)
	}
	if from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("created_at < ?", to.Add(24*time.Hour))
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Respond(c, httperr.FromStorage(err, "", ""))
		return
	}

	var logs []models.AuditLog
	if err := q.Order("created_at DESC, id DESC").Limit(lq.Limit).Offset(lq.Offset()).Find(&logs).Error; err != nil {
		httperr.Respond(c, httperr.FromStorage(err, "", ""))
		return
	}

	httpresp.List(c, logs, dto.NewPagination(lq.Page, lq.Limit, total))
}
