package handler

import (
	"net/http"

	"mesto_backend/internal/api/validation"
	"mesto_backend/internal/app/service"
	"mesto_backend/internal/common"

	"github.com/go-chi/chi/v5"
)

type CardHandler struct {
	cardService *service.CardService
}

func NewCardHandler(cs *service.CardService) *CardHandler {
	return &CardHandler{cardService: cs}
}

// RegisterRoutes expects the caller to have mounted the auth gate already.
func (h *CardHandler) RegisterRoutes(r chi.Router) {
	r.Method(http.MethodGet, "/", appHandler(h.listCards))
	r.With(validation.Body[service.CreateCardRequest]).
		Method(http.MethodPost, "/", appHandler(h.createCard))

	r.Group(func(byID chi.Router) {
		byID.Use(validation.ObjectIDParam("cardId"))
		byID.Method(http.MethodDelete, "/{cardId}", appHandler(h.deleteCard))
		byID.Method(http.MethodPut, "/{cardId}/likes", appHandler(h.likeCard))
		byID.Method(http.MethodDelete, "/{cardId}/likes", appHandler(h.unlikeCard))
	})
}

func (h *CardHandler) listCards(w http.ResponseWriter, r *http.Request) error {
	cards, err := h.cardService.List(r.Context())
	if err != nil {
		return err
	}
	common.RespondWithJSON(w, http.StatusOK, cards)
	return nil
}

func (h *CardHandler) createCard(w http.ResponseWriter, r *http.Request) error {
	userID, err := callerID(r.Context())
	if err != nil {
		return err
	}
	req, err := body[service.CreateCardRequest](r.Context())
	if err != nil {
		return err
	}
	card, err := h.cardService.Create(r.Context(), userID, *req)
	if err != nil {
		return err
	}
	common.RespondWithJSON(w, http.StatusCreated, card)
	return nil
}

func (h *CardHandler) deleteCard(w http.ResponseWriter, r *http.Request) error {
	userID, err := callerID(r.Context())
	if err != nil {
		return err
	}
	resp, err := h.cardService.Delete(r.Context(), userID, chi.URLParam(r, "cardId"))
	if err != nil {
		return err
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
	return nil
}

func (h *CardHandler) likeCard(w http.ResponseWriter, r *http.Request) error {
	userID, err := callerID(r.Context())
	if err != nil {
		return err
	}
	card, err := h.cardService.Like(r.Context(), userID, chi.URLParam(r, "cardId"))
	if err != nil {
		return err
	}
	common.RespondWithJSON(w, http.StatusOK, card)
	return nil
}

func (h *CardHandler) unlikeCard(w http.ResponseWriter, r *http.Request) error {
	userID, err := callerID(r.Context())
	if err != nil {
		return err
	}
	card, err := h.cardService.Unlike(r.Context(), userID, chi.URLParam(r, "cardId"))
	if err != nil {
		return err
	}
	common.RespondWithJSON(w, http.StatusOK, card)
	return nil
}
