package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	domain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/httpresp"
	"github.com/BruksfildServices01/salon-manager/internal/middleware"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

type WorkingHoursHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewWorkingHoursHandler(db *gorm.DB, audit *audit.Dispatcher) *WorkingHoursHandler {
	return &WorkingHoursHandler{db: db, audit: audit}
}

type WorkingDayConfig struct {
	Weekday    int    `json:"weekday" binding:"min=0,max=6"`
	Active     bool   `json:"active"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	LunchStart string `json:"lunch_start"`
	LunchEnd   string `json:"lunch_end"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required,max=7,dive"`
}

func (d WorkingDayConfig) model(professionalID uint) models.WorkingHours {
	return models.WorkingHours{
		ProfessionalID: professionalID,
		Weekday:        d.Weekday,
		Active:         d.Active,
		StartTime:      d.StartTime,
		EndTime:        d.EndTime,
		LunchStart:     d.LunchStart,
		LunchEnd:       d.LunchEnd,
	}
}

// validate runs the day through the same conversion availability uses, so
// anything stored here can be turned into a window later.
func (d WorkingDayConfig) validate() error {
	if !d.Active {
		return nil
	}
	wh := d.model(0)
	w, _, err := domain.WindowFromWorkingHours(domain.Window{StepMinutes: 1}, &wh)
	if err != nil {
		return err
	}
	if (d.LunchStart == "") != (d.LunchEnd == "") {
		return httperr.ErrValidation(httperr.CodeInvalidTime, "Lunch needs both start and end")
	}
	for _, b := range w.Breaks {
		if b.Start < w.Start || b.End > w.End {
			return httperr.ErrValidation(httperr.CodeInvalidTime, "Lunch must be inside working hours")
		}
	}
	return nil
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	db := h.db.WithContext(c.Request.Context())

	if err := db.Select("id").First(&models.Professional{}, id).Error; err != nil {
		httperr.Respond(c, httperr.FromStorage(err, httperr.CodeProfessionalMissing, "Professional not found"))
		return
	}

	var hours []models.WorkingHours
	if err := db.Where("professional_id = ?", id).Order("weekday ASC").Find(&hours).Error; err != nil {
		httperr.Respond(c, httperr.FromStorage(err, "", ""))
		return
	}
	httpresp.OK(c, hours)
}

// Update replaces the professional's whole week.
func (h *WorkingHoursHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req WorkingHoursUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	seen := make(map[int]bool, len(req.Days))
	toCreate := make([]models.WorkingHours, 0, len(req.Days))
	for _, d := range req.Days {
		if seen[d.Weekday] {
			httperr.BadRequest(c, httperr.CodeValidation, "Duplicate weekday in request")
			return
		}
		seen[d.Weekday] = true
		if err := d.validate(); err != nil {
			httperr.Respond(c, err)
			return
		}
		toCreate = append(toCreate, d.model(id))
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Professional{}, id).Error; err != nil {
			return err
		}
		if err := tx.Where("professional_id = ?", id).Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}
		if len(toCreate) == 0 {
			return nil
		}
		return tx.Create(&toCreate).Error
	})
	if err != nil {
		httperr.Respond(c, httperr.FromStorage(err, httperr.CodeProfessionalMissing, "Professional not found"))
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID: middleware.ActorID(c), Action: "working_hours_updated", Entity: "professional", EntityID: &id,
	})
	httpresp.OK(c, toCreate)
}
