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
	"github.com/BruksfildServices01/salon-manager/internal/validators"
)

type ClientHandler struct {
	db     *gorm.DB
	audit  *audit.Dispatcher
	emails *validators.EmailDomainChecker
}

// NewClientHandler builds the handler. A nil emails checker skips the
// domain lookup.
func NewClientHandler(db *gorm.DB, audit *audit.Dispatcher, emails *validators.EmailDomainChecker) *ClientHandler {
	return &ClientHandler{db: db, audit: audit, emails: emails}
}

// --------- Requests ---------

type CreateClientRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Phone string `json:"phone" binding:"max=20"`
	Email string `json:"email" binding:"omitempty,email,max=100"`
	Notes string `json:"notes"`
}

type UpdateClientRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=100"`
	Phone *string `json:"phone" binding:"omitempty,max=20"`
	Email *string `json:"email" binding:"omitempty,email,max=100"`
	Notes *string `json:"notes"`
}

// --------- Handlers ---------

func (h *ClientHandler) List(c *gin.Context) {
	lq := listQuery(c)
	lq.Active = nil
	searchList[models.Client](c,
		h.db.WithContext(c.Request.Context()).Model(&models.Client{}),
		lq,
		[]string{"name", "phone", "email"},
		"name ASC",
	)
}

func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var client models.Client
	if err := h.db.WithContext(c.Request.Context()).First(&client, id).Error; err != nil {
		httperr.Respond(c, httperr.FromStorage(err, httperr.CodeClientNotFound, "Client not found"))
		return
	}
	httpresp.OK(c, client)
}

func (h *ClientHandler) Create(c *gin.Context) {
	var req CreateClientRequest
	if !bindJSON(c, &req) {
		return
	}

	phone, email, ok := h.contact(c, req.Phone, req.Email)
	if !ok {
		return
	}

	client := models.Client{
		Name:  strings.TrimSpace(req.Name),
		Phone: phone,
		Email: email,
		Notes: req.Notes,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&client).Error; err != nil {
		httperr.Respond(c, httperr.FromStorage(err, "", ""))
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID: middleware.ActorID(c), Action: "client_created", Entity: "client", EntityID: &client.ID,
	})
	httpresp.Created(c, client)
}

func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req UpdateClientRequest
	if !bindJSON(c, &req) {
		return
	}

	db := h.db.WithContext(c.Request.Context())
	var client models.Client
	if err := db.First(&client, id).Error; err != nil {
		httperr.Respond(c, httperr.FromStorage(err, httperr.CodeClientNotFound, "Client not found"))
		return
	}

	if req.Name != nil {
		client.Name = strings.TrimSpace(*req.Name)
	}
	phone, email := client.Phone, client.Email
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.Email != nil {
		email = *req.Email
	}
	if client.Phone, client.Email, ok = h.contact(c, phone, email); !ok {
		return
	}
	if req.Notes != nil {
		client.Notes = *req.Notes
	}

	if err := db.Save(&client).Error; err != nil {
		httperr.Respond(c, httperr.FromStorage(err, "", ""))
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID: middleware.ActorID(c), Action: "client_updated", Entity: "client", EntityID: &client.ID,
	})
	httpresp.OK(c, client)
}

func (h *ClientHandler) contact(c *gin.Context, phone, email string) (string, string, bool) {
	phone, ok := validators.NormalizePhone(phone)
	if !ok {
		httperr.BadRequest(c, httperr.CodeValidation, "Invalid phone number")
		return "", "", false
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" && h.emails != nil && !h.emails.Valid(c.Request.Context(), email) {
		httperr.BadRequest(c, "INVALID_EMAIL_DOMAIN", "E-mail domain does not accept mail")
		return "", "", false
	}
	return phone, email, true
}

// Delete refuses clients that still have appointments.
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	deleteUnreferenced(c, h.db, h.audit, &models.Client{}, id, "client_id",
		httperr.CodeClientNotFound, "Client not found", "client")
}

// deleteUnreferenced removes the row with id unless an appointment points
// at it through column.
func deleteUnreferenced(
	c *gin.Context,
	db *gorm.DB,
	dispatcher *audit.Dispatcher,
	model any,
	id uint,
	column, notFoundCode, notFoundMsg, entity string,
) {
	var deleted bool
	err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&models.Appointment{}).Where(column+" = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return httperr.ErrValidation(httperr.CodeInUse, "Cannot delete a "+entity+" that has appointments")
		}
		res := tx.Delete(model, id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		httperr.Respond(c, httperr.FromStorage(err, "", ""))
		return
	}
	if !deleted {
		httperr.Respond(c, httperr.ErrNotFound(notFoundCode, notFoundMsg))
		return
	}

	dispatcher.Dispatch(audit.Event{
		ActorID: middleware.ActorID(c), Action: entity + "_deleted", Entity: entity, EntityID: &id,
	})
	httpresp.OK(c, map[string]uint{"id": id})
}
