package contract

import (
	"context"

	"clinic-assist-be/internal/entity"
	"clinic-assist-be/internal/repository/specification"

	"github.com/google/uuid"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	Update(ctx context.Context, appointment *entity.Appointment) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Appointment, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Appointment, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	SetStatus(ctx context.Context, id uuid.UUID, status entity.AppointmentStatus) error
}
