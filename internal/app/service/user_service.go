package service

import (
	"context"
	"fmt"

	"mesto_backend/internal/common"
	"mesto_backend/internal/domain/model"
	"mesto_backend/internal/domain/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

type UpdateProfileRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=30"`
	About string `json:"about" validate:"required,min=2,max=30"`
}

type UpdateAvatarRequest struct {
	Avatar string `json:"avatar" validate:"required,weburl"`
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, common.Internal(fmt.Errorf("failed to list users: %w", err))
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, userLookupError(err)
	}
	return user, nil
}

// Me returns the record of the authenticated caller.
func (s *UserService) Me(ctx context.Context, callerID string) (*model.User, error) {
	return s.Get(ctx, callerID)
}

// UpdateProfile changes name and about of the caller's own record only.
func (s *UserService) UpdateProfile(ctx context.Context, callerID string, req UpdateProfileRequest) (*model.User, error) {
	return s.update(ctx, callerID, model.UserUpdate{Name: &req.Name, About: &req.About})
}

func (s *UserService) UpdateAvatar(ctx context.Context, callerID string, req UpdateAvatarRequest) (*model.User, error) {
	return s.update(ctx, callerID, model.UserUpdate{Avatar: &req.Avatar})
}

func (s *UserService) update(ctx context.Context, callerID string, update model.UserUpdate) (*model.User, error) {
	user, err := s.userRepo.Update(ctx, callerID, update)
	if err != nil {
		if repository.OutcomeOf(err) == repository.OutcomeInvalid {
			return nil, common.BadRequest(MsgInvalidData).WithCause(err)
		}
		return nil, userLookupError(err)
	}
	return user, nil
}

func userLookupError(err error) error {
	switch repository.OutcomeOf(err) {
	case repository.OutcomeNotFound:
		return common.NotFound(MsgUserNotFound).WithCause(err)
	case repository.OutcomeInvalid:
		return common.BadRequest(MsgInvalidData).WithCause(err)
	default:
		return common.Internal(fmt.Errorf("failed to load user: %w", err))
	}
}
