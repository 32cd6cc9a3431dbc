package service

import (
	"context"
	"errors"
	"time"

	"clinic-assist-be/internal/repository/specification"
	"clinic-assist-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type UserProfile struct {
	Id       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Role     string    `json:"role"`
}

type IUserService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*UserProfile, error)
	UpdateFullName(ctx context.Context, userId uuid.UUID, fullName string) error
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewUserService(uowFactory unitofwork.RepositoryFactory) IUserService {
	return &userService{
		uowFactory: uowFactory,
	}
}

func (s *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*UserProfile, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	return &UserProfile{
		Id:       user.Id,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     string(user.Role),
	}, nil
}

func (s *userService) UpdateFullName(ctx context.Context, userId uuid.UUID, fullName string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New("user not found")
	}

	user.FullName = fullName
	user.UpdatedAt = time.Now()
	return uow.UserRepository().Update(ctx, user)
}
