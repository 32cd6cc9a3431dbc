package mapper

import (
	"clinic-assist-be/internal/entity"
	"clinic-assist-be/internal/model"

	"gorm.io/datatypes"
)

type BotMapper struct{}

func NewBotMapper() *BotMapper {
	return &BotMapper{}
}

func (m *BotMapper) ToEntity(b *model.Bot) *entity.Bot {
	if b == nil {
		return nil
	}
	return &entity.Bot{
		Id:               b.Id,
		UserId:           b.UserId,
		Name:             b.Name,
		Greeting:         b.Greeting,
		ClinicAddress:    b.ClinicAddress,
		ClinicPhone:      b.ClinicPhone,
		ClinicEmail:      b.ClinicEmail,
		ClinicHours:      b.ClinicHours,
		ClinicParking:    b.ClinicParking,
		ClinicTransit:    b.ClinicTransit,
		WhatsAppNumber:   b.WhatsAppNumber,
		SchedulerBaseURL: b.SchedulerBaseURL,
		Widget:           map[string]interface{}(b.Widget),
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

func (m *BotMapper) ToModel(b *entity.Bot) *model.Bot {
	if b == nil {
		return nil
	}
	return &model.Bot{
		Id:               b.Id,
		UserId:           b.UserId,
		Name:             b.Name,
		Greeting:         b.Greeting,
		ClinicAddress:    b.ClinicAddress,
		ClinicPhone:      b.ClinicPhone,
		ClinicEmail:      b.ClinicEmail,
		ClinicHours:      b.ClinicHours,
		ClinicParking:    b.ClinicParking,
		ClinicTransit:    b.ClinicTransit,
		WhatsAppNumber:   b.WhatsAppNumber,
		SchedulerBaseURL: b.SchedulerBaseURL,
		Widget:           datatypes.JSONMap(b.Widget),
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}
