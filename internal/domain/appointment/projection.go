package appointment

import (
	"github.com/BruksfildServices01/salon-manager/internal/dto"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

// NewView attaches display names to an appointment row.
func NewView(ap *models.Appointment, clientName, serviceName, professionalName string) dto.AppointmentView {
	start := TimeOfDay(ap.StartMinute)
	return dto.AppointmentView{
		ID:               ap.ID,
		ClientID:         ap.ClientID,
		ClientName:       clientName,
		ServiceID:        ap.ServiceID,
		ServiceName:      serviceName,
		ProfessionalID:   ap.ProfessionalID,
		ProfessionalName: professionalName,
		Date:             FormatDate(ap.Date),
		Time:             start.String(),
		EndTime:          start.Add(ap.DurationMin).String(),
		Duration:         ap.DurationMin,
		Status:           ap.Status,
		Price:            ap.Price,
		Notes:            ap.Notes,
		CreatedAt:        ap.CreatedAt,
		UpdatedAt:        ap.UpdatedAt,
	}
}
