package mapper

import (
	"clinic-assist-be/internal/entity"
	"clinic-assist-be/internal/model"
)

type AppointmentMapper struct{}

func NewAppointmentMapper() *AppointmentMapper {
	return &AppointmentMapper{}
}

func (m *AppointmentMapper) ToEntity(a *model.Appointment) *entity.Appointment {
	if a == nil {
		return nil
	}
	return &entity.Appointment{
		Id:              a.Id,
		BotId:           a.BotId,
		ConversationId:  a.ConversationId,
		PatientName:     a.PatientName,
		Date:            a.Date,
		Time:            a.Time,
		DurationMinutes: a.DurationMinutes,
		Reference:       a.Reference,
		Status:          entity.AppointmentStatus(a.Status),
		CreatedAt:       a.CreatedAt,
	}
}

func (m *AppointmentMapper) ToModel(a *entity.Appointment) *model.Appointment {
	if a == nil {
		return nil
	}
	return &model.Appointment{
		Id:              a.Id,
		BotId:           a.BotId,
		ConversationId:  a.ConversationId,
		PatientName:     a.PatientName,
		Date:            a.Date,
		Time:            a.Time,
		DurationMinutes: a.DurationMinutes,
		Reference:       a.Reference,
		Status:          string(a.Status),
		CreatedAt:       a.CreatedAt,
	}
}
