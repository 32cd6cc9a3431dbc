package service

import (
	"context"
	"fmt"

	"clinic-assist-be/internal/dto"
	"clinic-assist-be/internal/entity"
	"clinic-assist-be/internal/repository/specification"
	"clinic-assist-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IAppointmentService interface {
	GetAppointments(ctx context.Context, userId uuid.UUID, botId uuid.UUID) ([]*dto.AppointmentResponse, error)
	CancelAppointment(ctx context.Context, userId uuid.UUID, appointmentId uuid.UUID) error
}

type appointmentService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewAppointmentService(uowFactory unitofwork.RepositoryFactory) IAppointmentService {
	return &appointmentService{
		uowFactory: uowFactory,
	}
}

func (s *appointmentService) GetAppointments(ctx context.Context, userId uuid.UUID, botId uuid.UUID) ([]*dto.AppointmentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	bot, err := uow.BotRepository().FindOne(ctx,
		specification.ByID{ID: botId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if bot == nil {
		return nil, fmt.Errorf("bot not found or access denied")
	}

	appointments, err := uow.AppointmentRepository().FindAll(ctx,
		specification.ByBotID{BotID: botId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.AppointmentResponse, 0, len(appointments))
	for _, a := range appointments {
		res = append(res, &dto.AppointmentResponse{
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
		})
	}
	return res, nil
}

func (s *appointmentService) CancelAppointment(ctx context.Context, userId uuid.UUID, appointmentId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	apt, err := uow.AppointmentRepository().FindOne(ctx, specification.ByID{ID: appointmentId})
	if err != nil {
		return err
	}
	if apt == nil {
		return fmt.Errorf("appointment not found")
	}

	bot, err := uow.BotRepository().FindOne(ctx,
		specification.ByID{ID: apt.BotId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if bot == nil {
		return fmt.Errorf("appointment not found or access denied")
	}

	return uow.AppointmentRepository().SetStatus(ctx, apt.Id, entity.AppointmentStatusCancelled)
}
