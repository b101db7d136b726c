package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-manager/internal/dto"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/httpresp"
	"github.com/BruksfildServices01/salon-manager/internal/metrics"
	"github.com/BruksfildServices01/salon-manager/internal/middleware"
	apptuc "github.com/BruksfildServices01/salon-manager/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	availability *apptuc.GetAvailability
	create       *apptuc.CreateAppointment
	reschedule   *apptuc.RescheduleAppointment
	transition   *apptuc.TransitionAppointment
	list         *apptuc.ListAppointments
	metrics      *metrics.Collector
}

type AppointmentUseCases struct {
	Availability *apptuc.GetAvailability
	Create       *apptuc.CreateAppointment
	Reschedule   *apptuc.RescheduleAppointment
	Transition   *apptuc.TransitionAppointment
	List         *apptuc.ListAppointments
}

func NewAppointmentHandler(uc AppointmentUseCases, m *metrics.Collector) *AppointmentHandler {
	return &AppointmentHandler{
		availability: uc.Availability,
		create:       uc.Create,
		reschedule:   uc.Reschedule,
		transition:   uc.Transition,
		list:         uc.List,
		metrics:      m,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ClientID       uint   `json:"client_id" binding:"required"`
	ServiceID      uint   `json:"service_id" binding:"required"`
	ProfessionalID *uint  `json:"professional_id"`
	Date           string `json:"date" binding:"required"`
	Time           string `json:"time" binding:"required"`
	Notes          string `json:"notes" binding:"max=500"`
}

type RescheduleAppointmentRequest struct {
	Date              string `json:"date" binding:"required"`
	Time              string `json:"time" binding:"required"`
	ProfessionalID    *uint  `json:"professional_id"`
	ClearProfessional bool   `json:"clear_professional"`
	ServiceID         uint   `json:"service_id"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ======================================================
// AVAILABLE SLOTS
// ======================================================

func (h *AppointmentHandler) availableSlots(c *gin.Context) ([]domain.TimeOfDay, bool) {
	dateStr := strings.TrimSpace(c.Query("date"))
	serviceStr := strings.TrimSpace(c.Query("service_id"))
	if dateStr == "" || serviceStr == "" {
		httperr.BadRequest(c, httperr.CodeValidation, "date and service_id are required")
		return nil, false
	}

	date, err := domain.ParseDate(dateStr)
	if err != nil {
		httperr.Respond(c, err)
		return nil, false
	}
	serviceID, err := strconv.ParseUint(serviceStr, 10, 64)
	if err != nil || serviceID == 0 {
		httperr.BadRequest(c, httperr.CodeValidation, "Invalid service_id")
		return nil, false
	}
	professionalID, ok := optionalUint(c, "professional_id")
	if !ok {
		return nil, false
	}

	slots, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		Date:       date,
		ResourceID: professionalID,
		ServiceID:  uint(serviceID),
	})
	if err != nil {
		httperr.RespondWithNotFound(c, err, http.StatusBadRequest)
		return nil, false
	}

	h.metrics.AvailabilityQueries.Inc()
	return slots, true
}

// AvailableSlots answers with a bare array of "HH:MM" strings.
func (h *AppointmentHandler) AvailableSlots(c *gin.Context) {
	slots, ok := h.availableSlots(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, domain.FormatSlots(slots))
}

// AvailableSlotsV2 answers with {time, available} objects.
func (h *AppointmentHandler) AvailableSlotsV2(c *gin.Context) {
	slots, ok := h.availableSlots(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, domain.SlotObjects(slots))
}

// ======================================================
// CREATE / RESCHEDULE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.create.Execute(c.Request.Context(), apptuc.CreateAppointmentInput{
		ClientID:       req.ClientID,
		ServiceID:      req.ServiceID,
		ProfessionalID: req.ProfessionalID,
		Date:           req.Date,
		Time:           req.Time,
		Notes:          strings.TrimSpace(req.Notes),
		ActorID:        middleware.ActorID(c),
	})
	if err != nil {
		h.countRejection(err)
		respondWriteError(c, err)
		return
	}

	h.metrics.AppointmentsCreated.Inc()
	httpresp.Created(c, view)
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req RescheduleAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.reschedule.Execute(c.Request.Context(), apptuc.RescheduleInput{
		AppointmentID:     id,
		Date:              req.Date,
		Time:              req.Time,
		ProfessionalID:    req.ProfessionalID,
		ClearProfessional: req.ClearProfessional,
		ServiceID:         req.ServiceID,
		ActorID:           middleware.ActorID(c),
	})
	if err != nil {
		h.countRejection(err)
		respondWriteError(c, err)
		return
	}

	httpresp.OK(c, view)
}

// respondWriteError answers unknown references in a request body (client,
// service, professional) with 400. Only the appointment named in the path
// is a 404.
func respondWriteError(c *gin.Context, err error) {
	if httperr.IsBusiness(err, httperr.CodeAppointmentNotFound) {
		httperr.Respond(c, err)
		return
	}
	httperr.RespondWithNotFound(c, err, http.StatusBadRequest)
}

func (h *AppointmentHandler) countRejection(err error) {
	if httperr.IsBusiness(err, httperr.CodeScheduleConflict) {
		h.metrics.AdmissionRejected.Inc()
	}
}

// ======================================================
// STATUS
// ======================================================

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	h.applyStatus(c, status)
}

// TransitionTo is the handler of the /confirm, /complete, /cancel and
// /no-show shortcuts.
func (h *AppointmentHandler) TransitionTo(status domain.Status) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.applyStatus(c, status)
	}
}

func (h *AppointmentHandler) applyStatus(c *gin.Context, status domain.Status) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	view, err := h.transition.Execute(c.Request.Context(), id, status, middleware.ActorID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.metrics.StatusTransitions.WithLabelValues(string(status)).Inc()
	httpresp.OK(c, view)
}

// ======================================================
// READ
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	f := dto.AppointmentFilter{Status: strings.TrimSpace(c.Query("status"))}
	f.Page, f.Limit = pageParams(c)

	var ok bool
	if f.Date, ok = optionalDate(c, "date"); !ok {
		return
	}
	if f.From, ok = optionalDate(c, "from"); !ok {
		return
	}
	if f.To, ok = optionalDate(c, "to"); !ok {
		return
	}
	if f.ProfessionalID, ok = optionalUint(c, "professional_id"); !ok {
		return
	}
	if f.ClientID, ok = optionalUint(c, "client_id"); !ok {
		return
	}

	items, page, err := h.list.Execute(c.Request.Context(), f)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, items, page)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	view, err := h.list.Get(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, view)
}
