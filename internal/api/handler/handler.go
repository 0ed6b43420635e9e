package handler

import (
	"context"
	"net/http"

	"mesto_backend/internal/api/middleware"
	"mesto_backend/internal/api/validation"
	"mesto_backend/internal/common"
)

// appHandler returns its failure instead of writing it; ServeHTTP hands the
// error to the shared translator.
type appHandler func(w http.ResponseWriter, r *http.Request) error

func (fn appHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := fn(w, r); err != nil {
		common.RespondWithAppError(w, r, err)
	}
}

func callerID(ctx context.Context) (string, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return "", common.Unauthorized(middleware.MsgAuthorizationRequired)
	}
	return userID, nil
}

func body[T any](ctx context.Context) (*T, error) {
	payload, ok := validation.BodyFrom[T](ctx)
	if !ok {
		return nil, common.BadRequest("invalid request body")
	}
	return payload, nil
}

// NotFound answers every route nobody registered.
func NotFound(w http.ResponseWriter, r *http.Request) {
	common.RespondWithAppError(w, r, common.NotFound("page not found"))
}
