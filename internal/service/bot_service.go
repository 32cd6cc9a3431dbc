package service

import (
	"context"
	"fmt"
	"time"

	"clinic-assist-be/internal/dto"
	"clinic-assist-be/internal/entity"
	"clinic-assist-be/internal/repository/specification"
	"clinic-assist-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IBotService interface {
	CreateBot(ctx context.Context, userId uuid.UUID, req *dto.CreateBotRequest) (*dto.BotResponse, error)
	GetBots(ctx context.Context, userId uuid.UUID) ([]*dto.BotResponse, error)
	GetBot(ctx context.Context, userId uuid.UUID, botId uuid.UUID) (*dto.BotResponse, error)
	UpdateBot(ctx context.Context, userId uuid.UUID, botId uuid.UUID, req *dto.UpdateBotRequest) (*dto.BotResponse, error)
	DeleteBot(ctx context.Context, userId uuid.UUID, botId uuid.UUID) error

	// GetWidgetConfig serves the public widget bootstrap payload; no auth.
	GetWidgetConfig(ctx context.Context, botId uuid.UUID) (*dto.WidgetConfigResponse, error)
}

type botService struct {
	uowFactory  unitofwork.RepositoryFactory
	chatService IChatService
}

func NewBotService(uowFactory unitofwork.RepositoryFactory, chatService IChatService) IBotService {
	return &botService{
		uowFactory:  uowFactory,
		chatService: chatService,
	}
}

func toBotResponse(b *entity.Bot) *dto.BotResponse {
	return &dto.BotResponse{
		Id:               b.Id,
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
		Widget:           b.Widget,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

func (s *botService) CreateBot(ctx context.Context, userId uuid.UUID, req *dto.CreateBotRequest) (*dto.BotResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	bot := &entity.Bot{
		Id:               uuid.New(),
		UserId:           userId,
		Name:             req.Name,
		Greeting:         req.Greeting,
		ClinicAddress:    req.ClinicAddress,
		ClinicPhone:      req.ClinicPhone,
		ClinicEmail:      req.ClinicEmail,
		ClinicHours:      req.ClinicHours,
		ClinicParking:    req.ClinicParking,
		ClinicTransit:    req.ClinicTransit,
		WhatsAppNumber:   req.WhatsAppNumber,
		SchedulerBaseURL: req.SchedulerBaseURL,
		Widget:           req.Widget,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := uow.BotRepository().Create(ctx, bot); err != nil {
		return nil, err
	}

	return toBotResponse(bot), nil
}

func (s *botService) GetBots(ctx context.Context, userId uuid.UUID) ([]*dto.BotResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	bots, err := uow.BotRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.BotResponse, 0, len(bots))
	for _, b := range bots {
		res = append(res, toBotResponse(b))
	}
	return res, nil
}

func (s *botService) GetBot(ctx context.Context, userId uuid.UUID, botId uuid.UUID) (*dto.BotResponse, error) {
	bot, err := s.findOwnedBot(ctx, userId, botId)
	if err != nil {
		return nil, err
	}
	return toBotResponse(bot), nil
}

func (s *botService) UpdateBot(ctx context.Context, userId uuid.UUID, botId uuid.UUID, req *dto.UpdateBotRequest) (*dto.BotResponse, error) {
	bot, err := s.findOwnedBot(ctx, userId, botId)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		bot.Name = req.Name
	}
	bot.Greeting = req.Greeting
	bot.ClinicAddress = req.ClinicAddress
	bot.ClinicPhone = req.ClinicPhone
	bot.ClinicEmail = req.ClinicEmail
	bot.ClinicHours = req.ClinicHours
	bot.ClinicParking = req.ClinicParking
	bot.ClinicTransit = req.ClinicTransit
	bot.WhatsAppNumber = req.WhatsAppNumber
	bot.SchedulerBaseURL = req.SchedulerBaseURL
	if req.Widget != nil {
		bot.Widget = req.Widget
	}
	bot.UpdatedAt = time.Now()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.BotRepository().Update(ctx, bot); err != nil {
		return nil, err
	}

	// The running engine still carries the old contact details.
	s.chatService.InvalidateEngine(bot.Id)

	return toBotResponse(bot), nil
}

func (s *botService) DeleteBot(ctx context.Context, userId uuid.UUID, botId uuid.UUID) error {
	if _, err := s.findOwnedBot(ctx, userId, botId); err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.BotRepository().Delete(ctx, botId); err != nil {
		return err
	}

	s.chatService.InvalidateEngine(botId)
	return nil
}

func (s *botService) GetWidgetConfig(ctx context.Context, botId uuid.UUID) (*dto.WidgetConfigResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	bot, err := uow.BotRepository().FindOne(ctx, specification.ByID{ID: botId})
	if err != nil {
		return nil, err
	}
	if bot == nil {
		return nil, fmt.Errorf("bot not found")
	}

	return &dto.WidgetConfigResponse{
		BotId:    bot.Id,
		Name:     bot.Name,
		Greeting: bot.Greeting,
		Widget:   bot.Widget,
	}, nil
}

func (s *botService) findOwnedBot(ctx context.Context, userId uuid.UUID, botId uuid.UUID) (*entity.Bot, error) {
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
	return bot, nil
}
