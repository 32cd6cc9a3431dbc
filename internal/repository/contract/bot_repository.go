package contract

import (
	"context"

	"clinic-assist-be/internal/entity"
	"clinic-assist-be/internal/repository/specification"

	"github.com/google/uuid"
)

type BotRepository interface {
	Create(ctx context.Context, bot *entity.Bot) error
	Update(ctx context.Context, bot *entity.Bot) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Bot, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Bot, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
