package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/httpresp"
	"github.com/BruksfildServices01/salon-manager/internal/middleware"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

type ProfessionalHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewProfessionalHandler(db *gorm.DB, audit *audit.Dispatcher) *ProfessionalHandler {
	return &ProfessionalHandler{db: db, audit: audit}
}

type CreateProfessionalRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	Email     string `json:"email" binding:"omitempty,email,max=100"`
	Phone     string `json:"phone" binding:"max=20"`
	Specialty string `json:"specialty" binding:"max=100"`
}

type UpdateProfessionalRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=100"`
	Email     *string `json:"email" binding:"omitempty,email,max=100"`
	Phone     *string `json:"phone" binding:"omitempty,max=20"`
	Specialty *string `json:"specialty" binding:"omitempty,max=100"`
	Active    *bool   `json:"active"`
}

func (h *ProfessionalHandler) List(c *gin.Context) {
	searchList[models.Professional](c,
		h.db.WithContext(c.Request.Context()).Model(&models.Professional{}),
		listQuery(c),
		[]string{"name", "specialty", "email"},
		"name ASC",
	)
}

func (h *ProfessionalHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var p models.Professional
	if err := h.db.WithContext(c.Request.Context()).First(&p, id).Error; err != nil {
		httperr.Respond(c, httperr.FromStorage(err, httperr.CodeProfessionalMissing, "Professional not found"))
		return
	}
	httpresp.OK(c, p)
}

func (h *ProfessionalHandler) Create(c *gin.Context) {
	var req CreateProfessionalRequest
	if !bindJSON(c, &req) {
		return
	}

	p := models.Professional{
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     strings.TrimSpace(req.Phone),
		Specialty: strings.TrimSpace(req.Specialty),
		Active:    true,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&p).Error; err != nil {
		httperr.Respond(c, httperr.FromStorage(err, "", ""))
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID: middleware.ActorID(c), Action: "professional_created", Entity: "professional", EntityID: &p.ID,
	})
	httpresp.Created(c, p)
}

func (h *ProfessionalHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req UpdateProfessionalRequest
	if !bindJSON(c, &req) {
		return
	}

	db := h.db.WithContext(c.Request.Context())
	var p models.Professional
	if err := db.First(&p, id).Error; err != nil {
		httperr.Respond(c, httperr.FromStorage(err, httperr.CodeProfessionalMissing, "Professional not found"))
		return
	}

	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		p.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		p.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Specialty != nil {
		p.Specialty = strings.TrimSpace(*req.Specialty)
	}
	if req.Active != nil {
		p.Active = *req.Active
	}

	if err := db.Save(&p).Error; err != nil {
		httperr.Respond(c, httperr.FromStorage(err, "", ""))
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID: middleware.ActorID(c), Action: "professional_updated", Entity: "professional", EntityID: &p.ID,
	})
	httpresp.OK(c, p)
}

func (h *ProfessionalHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	deleteUnreferenced(c, h.db, h.audit, &models.Professional{}, id, "professional_id",
		httperr.CodeProfessionalMissing, "Professional not found", "professional")
}
