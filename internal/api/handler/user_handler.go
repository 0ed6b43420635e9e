package handler

import (
	"net/http"

	"mesto_backend/internal/api/validation"
	"mesto_backend/internal/app/service"
	"mesto_backend/internal/common"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(us *service.UserService) *UserHandler {
	return &UserHandler{userService: us}
}

// RegisterRoutes expects the caller to have mounted the auth gate already.
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Method(http.MethodGet, "/", appHandler(h.listUsers))
	r.Method(http.MethodGet, "/me", appHandler(h.getMe))
	r.With(validation.ObjectIDParam("userId")).
		Method(http.MethodGet, "/{userId}", appHandler(h.getUser))
	r.With(validation.Body[service.UpdateProfileRequest]).
		Method(http.MethodPatch, "/me", appHandler(h.updateProfile))
	r.With(validation.Body[service.UpdateAvatarRequest]).
		Method(http.MethodPatch, "/me/avatar", appHandler(h.updateAvatar))
}

func (h *UserHandler) listUsers(w http.ResponseWriter, r *http.Request) error {
	users, err := h.userService.List(r.Context())
	if err != nil {
		return err
	}
	common.RespondWithJSON(w, http.StatusOK, users)
	return nil
}

func (h *UserHandler) getMe(w http.ResponseWriter, r *http.Request) error {
	userID, err := callerID(r.Context())
	if err != nil {
		return err
	}
	user, err := h.userService.Me(r.Context(), userID)
	if err != nil {
		return err
	}
	common.RespondWithJSON(w, http.StatusOK, user)
	return nil
}

func (h *UserHandler) getUser(w http.ResponseWriter, r *http.Request) error {
	user, err := h.userService.Get(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		return err
	}
	common.RespondWithJSON(w, http.StatusOK, user)
	return nil
}

func (h *UserHandler) updateProfile(w http.ResponseWriter, r *http.Request) error {
	userID, err := callerID(r.Context())
	if err != nil {
		return err
	}
	req, err := body[service.UpdateProfileRequest](r.Context())
	if err != nil {
		return err
	}
	user, err := h.userService.UpdateProfile(r.Context(), userID, *req)
	if err != nil {
		return err
	}
	common.RespondWithJSON(w, http.StatusOK, user)
	return nil
}

func (h *UserHandler) updateAvatar(w http.ResponseWriter, r *http.Request) error {
	userID, err := callerID(r.Context())
	if err != nil {
		return err
	}
	req, err := body[service.UpdateAvatarRequest](r.Context())
	if err != nil {
		return err
	}
	user, err := h.userService.UpdateAvatar(r.Context(), userID, *req)
	if err != nil {
		return err
	}
	common.RespondWithJSON(w, http.StatusOK, user)
	return nil
}
