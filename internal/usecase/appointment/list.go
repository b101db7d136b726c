package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-manager/internal/dto"
)

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	f dto.AppointmentFilter,
) ([]dto.AppointmentView, dto.Pagination, error) {

	f.Normalize()

	if f.Status != "" {
		if _, err := domain.ParseStatus(f.Status); err != nil {
			return nil, dto.Pagination{}, err
		}
	}

	items, total, err := uc.repo.ListAppointments(ctx, f)
	if err != nil {
		return nil, dto.Pagination{}, err
	}
	return items, dto.NewPagination(f.Page, f.Limit, total), nil
}

func (uc *ListAppointments) Get(ctx context.Context, id uint) (*dto.AppointmentView, error) {
	return uc.repo.GetAppointmentView(ctx, id)
}
