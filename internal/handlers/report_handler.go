package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/httpresp"
	"github.com/BruksfildServices01/salon-manager/internal/metrics"
	"github.com/BruksfildServices01/salon-manager/internal/usecase/report"
)

type ReportHandler struct {
	export  *report.ExportAppointments
	metrics *metrics.Collector
}

func NewReportHandler(export *report.ExportAppointments, m *metrics.Collector) *ReportHandler {
	return &ReportHandler{export: export, metrics: m}
}

// ExportAppointments handles POST /api/reports/appointments/export?from=&to=.
func (h *ReportHandler) ExportAppointments(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")
	if from == "" || to == "" {
		httperr.BadRequest(c, httperr.CodeInvalidDate, "Parameters 'from' and 'to' are required")
		return
	}

	res, err := h.export.Execute(c.Request.Context(), from, to)
	if err != nil {
		h.count("error")
		httperr.Respond(c, err)
		return
	}

	h.count("ok")
	httpresp.Created(c, res)
}

func (h *ReportHandler) count(result string) {
	if h.metrics != nil {
		h.metrics.ReportExportsTotal.WithLabelValues(result).Inc()
	}
}
