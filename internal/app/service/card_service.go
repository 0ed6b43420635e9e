package service

import (
	"context"
	"fmt"
	"log"

	"mesto_backend/internal/common"
	"mesto_backend/internal/domain/model"
	"mesto_backend/internal/domain/repository"
)

type CardService struct {
	cardRepo repository.CardRepository
}

func NewCardService(cardRepo repository.CardRepository) *CardService {
	return &CardService{cardRepo: cardRepo}
}

type CreateCardRequest struct {
	Name string `json:"name" validate:"required,min=2,max=30"`
	Link string `json:"link" validate:"required,weburl"`
}

type DeleteCardResponse struct {
	Message string `json:"message"`
}

func (s *CardService) List(ctx context.Context) ([]model.Card, error) {
	cards, err := s.cardRepo.FindAll(ctx)
	if err != nil {
		return nil, common.Internal(fmt.Errorf("failed to list cards: %w", err))
	}
	return cards, nil
}

// Create stores a card owned by the caller.
func (s *CardService) Create(ctx context.Context, callerID string, req CreateCardRequest) (*model.Card, error) {
	card := model.NewCard(req.Name, req.Link, callerID)
	if err := s.cardRepo.Create(ctx, card); err != nil {
		if repository.OutcomeOf(err) == repository.OutcomeInvalid {
			return nil, common.BadRequest(MsgFieldValidation).WithCause(err)
		}
		return nil, common.Internal(fmt.Errorf("failed to create card: %w", err))
	}
	return card, nil
}

// Delete removes the card if the caller owns it. A missing card is
// NotFound, a foreign card is Forbidden.
func (s *CardService) Delete(ctx context.Context, callerID, cardID string) (*DeleteCardResponse, error) {
	card, err := s.cardRepo.FindByID(ctx, cardID)
	if err != nil {
		return nil, cardLookupError(err)
	}
	if !card.IsOwnedBy(callerID) {
		return nil, common.Forbidden(MsgNotCardOwner)
	}
	if err := s.cardRepo.DeleteByID(ctx, cardID); err != nil {
		return nil, cardLookupError(err)
	}
	log.Printf("Card %s deleted by user %s", cardID, callerID)
	return &DeleteCardResponse{Message: MsgCardDeleted}, nil
}

// Like adds the caller to the card's likes. Liking twice is a no-op.
func (s *CardService) Like(ctx context.Context, callerID, cardID string) (*model.Card, error) {
	card, err := s.cardRepo.AddLike(ctx, cardID, callerID)
	if err != nil {
		return nil, cardLookupError(err)
	}
	return card, nil
}

// Unlike removes the caller from the card's likes. Unliking a card the
// caller never liked succeeds without change.
func (s *CardService) Unlike(ctx context.Context, callerID, cardID string) (*model.Card, error) {
	card, err := s.cardRepo.RemoveLike(ctx, cardID, callerID)
	if err != nil {
		return nil, cardLookupError(err)
	}
	return card, nil
}

func cardLookupError(err error) error {
	switch repository.OutcomeOf(err) {
	case repository.OutcomeNotFound:
		return common.NotFound(MsgCardNotFound).WithCause(err)
	case repository.OutcomeInvalid:
		return common.BadRequest(MsgInvalidData).WithCause(err)
	default:
		return common.Internal(fmt.Errorf("card storage: %w", err))
	}
}
