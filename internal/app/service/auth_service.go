package service

import (
	"context"
	"errors"
	"fmt"

	"mesto_backend/internal/common"
	"mesto_backend/internal/common/security"
	"mesto_backend/internal/domain/model"
	"mesto_backend/internal/domain/repository"
)

type AuthService struct {
	userRepo repository.UserRepository
	tokens   *security.TokenIssuer
}

func NewAuthService(userRepo repository.UserRepository, tokens *security.TokenIssuer) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens}
}

type SignupRequest struct {
	Name     *string `json:"name" validate:"omitnil,min=2,max=30"`
	About    *string `json:"about" validate:"omitnil,min=2,max=30"`
	Avatar   *string `json:"avatar" validate:"omitnil,weburl"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SigninResponse struct {
	Token string `json:"token"`
}

// Signup stores a new user and returns it without the password hash.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*model.User, error) {
	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooLong) {
			return nil, common.BadRequest(MsgPasswordTooLong)
		}
		return nil, common.Internal(fmt.Errorf("failed to hash password: %w", err))
	}

	user := model.NewUser(model.NewUserParams{
		Name:         req.Name,
		About:        req.About,
		Avatar:       req.Avatar,
		Email:        req.Email,
		PasswordHash: hashedPassword,
	})

	if err := s.userRepo.Create(ctx, user); err != nil {
		switch repository.OutcomeOf(err) {
		case repository.OutcomeDuplicate:
			return nil, common.Conflict(MsgUserExists).WithCause(err)
		case repository.OutcomeInvalid:
			return nil, common.BadRequest(MsgFieldValidation).WithCause(err)
		default:
			return nil, common.Internal(fmt.Errorf("failed to create user: %w", err))
		}
	}

	user.Password = "" // Clear password before returning
	return user, nil
}

// Signin checks credentials and issues a signed token for the user.
func (s *AuthService) Signin(ctx context.Context, req SigninRequest) (*SigninResponse, error) {
	user, err := s.userRepo.FindByEmailWithPassword(ctx, req.Email)
	if err != nil {
		if repository.OutcomeOf(err) == repository.OutcomeNotFound {
			return nil, common.Unauthorized(MsgWrongCredentials)
		}
		return nil, common.Internal(fmt.Errorf("failed to find user: %w", err))
	}

	if !security.CheckPasswordHash(req.Password, user.Password) {
		return nil, common.Unauthorized(MsgWrongCredentials)
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, common.Internal(fmt.Errorf("failed to generate token: %w", err))
	}
	return &SigninResponse{Token: token}, nil
}
