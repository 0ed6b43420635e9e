package handler

import (
	"net/http"

	"mesto_backend/internal/api/validation"
	"mesto_backend/internal/app/service"
	"mesto_backend/internal/common"

	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.With(validation.Body[service.SignupRequest]).Method(http.MethodPost, "/signup", appHandler(h.signup))
	r.With(validation.Body[service.SigninRequest]).Method(http.MethodPost, "/signin", appHandler(h.signin))
}

func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request) error {
	req, err := body[service.SignupRequest](r.Context())
	if err != nil {
		return err
	}
	user, err := h.authService.Signup(r.Context(), *req)
	if err != nil {
		return err
	}
	common.RespondWithJSON(w, http.StatusCreated, user)
	return nil
}

func (h *AuthHandler) signin(w http.ResponseWriter, r *http.Request) error {
	req, err := body[service.SigninRequest](r.Context())
	if err != nil {
		return err
	}
	resp, err := h.authService.Signin(r.Context(), *req)
	if err != nil {
		return err
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
	return nil
}
