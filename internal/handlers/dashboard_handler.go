package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/httpresp"
	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/timezone"
)

type DashboardHandler struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDashboardHandler takes a now function in the business timezone.
func NewDashboardHandler(db *gorm.DB, now func() time.Time) *DashboardHandler {
	return &DashboardHandler{db: db, now: now}
}

type DashboardSummary struct {
	Date         string           `json:"date"`
	Today        int64            `json:"today"`
	Upcoming     int64            `json:"upcoming"`
	MonthRevenue float64          `json:"month_revenue"`
	MonthStatus  map[string]int64 `json:"month_status"`
}

func (h *DashboardHandler) Summary(c *gin.Context) {
	now := h.now()
	today := timezone.Today(now)
	nowMinute := now.Hour()*60 + now.Minute()
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	occupying := []string{string(domain.StatusScheduled), string(domain.StatusConfirmed), string(domain.StatusCompleted)}
	pending := []string{string(domain.StatusScheduled), string(domain.StatusConfirmed)}

	db := h.db.WithContext(c.Request.Context())
	out := DashboardSummary{Date: domain.FormatDate(today), MonthStatus: map[string]int64{}}

	err := db.Model(&models.Appointment{}).
		Where("date = ? AND status IN ?", today, occupying).
		Count(&out.Today).Error
	if err == nil {
		err = db.Model(&models.Appointment{}).
			Where("status IN ?", pending).
			Where("date > ? OR (date = ? AND start_minute >= ?)", today, today, nowMinute).
			Count(&out.Upcoming).Error
	}
	if err == nil {
		err = db.Model(&models.Appointment{}).
			Select("COALESCE(SUM(price), 0)").
			Where("status = ? AND date >= ? AND date < ?", string(domain.StatusCompleted), monthStart, monthEnd).
			Scan(&out.MonthRevenue).Error
	}
	if err == nil {
		var rows []struct {
			Status string
			Total  int64
		}
		err = db.Model(&models.Appointment{}).
			Select("status, COUNT(*) AS total").
			Where("date >= ? AND date < ?", monthStart, monthEnd).
			Group("status").
			Scan(&rows).Error
		for _, r := range rows {
			out.MonthStatus[r.Status] = r.Total
		}
	}
	if err != nil {
		httperr.Respond(c, httperr.FromStorage(err, "", ""))
		return
	}

	httpresp.OK(c, out)
}
