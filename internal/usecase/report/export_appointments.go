package report

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-manager/internal/dto"
	"github.com/BruksfildServices01/salon-manager/internal/export"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
)

const maxExportDays = 366

type ExportResult struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Rows int    `json:"rows"`
}

// ExportAppointments renders the appointments of a date range as CSV and
// uploads it.
type ExportAppointments struct {
	repo     domain.Repository
	uploader export.Uploader
	prefix   string
	now      func() time.Time
}

func NewExportAppointments(
	repo domain.Repository,
	uploader export.Uploader,
	prefix string,
	now func() time.Time,
) *ExportAppointments {
	if now == nil {
		now = time.Now
	}
	return &ExportAppointments{repo: repo, uploader: uploader, prefix: prefix, now: now}
}

func (uc *ExportAppointments) Execute(ctx context.Context, fromStr, toStr string) (*ExportResult, error) {
	from, err := domain.ParseDate(fromStr)
	if err != nil {
		return nil, err
	}
	to, err := domain.ParseDate(toStr)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, httperr.ErrValidation(httperr.CodeInvalidDate, "'to' must not be before 'from'")
	}
	if to.Sub(from) > maxExportDays*24*time.Hour {
		return nil, httperr.ErrValidation(httperr.CodeInvalidDate, fmt.Sprintf("Export range is limited to %d days", maxExportDays))
	}

	var rows []dto.AppointmentView
	f := dto.AppointmentFilter{From: &from, To: &to, Page: 1, Limit: dto.MaxPageSize}
	for {
		page, total, err := uc.repo.ListAppointments(ctx, f)
		if err != nil {
			return nil, err
		}
		rows = append(rows, page...)
		if len(page) == 0 || int64(len(rows)) >= total {
			break
		}
		f.Page++
	}

	var buf bytes.Buffer
	if err := export.WriteAppointmentsCSV(&buf, rows); err != nil {
		return nil, fmt.Errorf("render csv: %w", err)
	}

	key := path.Join(uc.prefix, fmt.Sprintf(
		"appointments_%s_%s_%s_%s.csv",
		fromStr, toStr, uc.now().UTC().Format("20060102T150405"), uuid.NewString()[:8],
	))

	url, err := uc.uploader.Upload(ctx, key, "text/csv", buf.Bytes())
	if err != nil {
		return nil, err
	}

	return &ExportResult{Key: key, URL: url, Rows: len(rows)}, nil
}
