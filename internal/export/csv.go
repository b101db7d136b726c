package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/BruksfildServices01/salon-manager/internal/dto"
)

var appointmentHeader = []string{
	"id", "date", "time", "end_time", "duration", "status",
	"client", "service", "professional", "price", "notes",
}

func WriteAppointmentsCSV(w io.Writer, rows []dto.AppointmentView) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(appointmentHeader); err != nil {
		return err
	}
	for _, a := range rows {
		record := []string{
			strconv.FormatUint(uint64(a.ID), 10),
			a.Date,
			a.Time,
			a.EndTime,
			strconv.Itoa(a.Duration),
			a.Status,
			a.ClientName,
			a.ServiceName,
			a.ProfessionalName,
			strconv.FormatFloat(a.Price, 'f', 2, 64),
			a.Notes,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
