package implementation

import (
	"context"
	"errors"

	"clinic-assist-be/internal/entity"
	"clinic-assist-be/internal/mapper"
	"clinic-assist-be/internal/model"
	"clinic-assist-be/internal/repository/contract"
	"clinic-assist-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BotRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BotMapper
}

func NewBotRepository(db *gorm.DB) contract.BotRepository {
	return &BotRepositoryImpl{
		db:     db,
		mapper: mapper.NewBotMapper(),
	}
}

func (r *BotRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *BotRepositoryImpl) Create(ctx context.Context, bot *entity.Bot) error {
	m := r.mapper.ToModel(bot)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*bot = *r.mapper.ToEntity(m)
	return nil
}

func (r *BotRepositoryImpl) Update(ctx context.Context, bot *entity.Bot) error {
	m := r.mapper.ToModel(bot)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*bot = *r.mapper.ToEntity(m)
	return nil
}

func (r *BotRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Bot{}, id).Error
}

func (r *BotRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Bot, error) {
	var m model.Bot
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *BotRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Bot, error) {
	var models []*model.Bot
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Bot, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *BotRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Bot{}).Count(&count).Error
	return count, err
}
