// Package validation runs request schemas before handlers. A request that
// fails any rule is answered with 400 and never reaches the handler.
package validation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"slices"
	"strings"

	"mesto_backend/internal/common"
	"mesto_backend/internal/common/validate"

	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

const msgInvalidBody = "invalid request body"

type bodyCtxKey struct{}

// Body decodes the JSON body into T, rejects unknown keys and runs T's
// validate tags. The validated value is stored in the request context.
func Body[T any](next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload T
		if err := decodeStrict(w, r, &payload); err != nil {
			common.RespondWithAppError(w, r, err)
			return
		}
		if err := validate.Struct(&payload); err != nil {
			common.RespondWithAppError(w, r, badRequest(err))
			return
		}
		ctx := context.WithValue(r.Context(), bodyCtxKey{}, &payload)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// BodyFrom returns the payload stored by Body[T].
func BodyFrom[T any](ctx context.Context) (*T, bool) {
	payload, ok := ctx.Value(bodyCtxKey{}).(*T)
	return payload, ok
}

// ObjectIDParam checks that the named path parameter is a 24-hex id.
func ObjectIDParam(name string) func(http.Handler) http.Handler {
	return Param(name, "required,"+validate.ObjectIDTag)
}

// Param checks a chi path parameter against a tag expression.
func Param(name, tag string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := validate.Var(name, chi.URLParam(r, name), tag); err != nil {
				common.RespondWithAppError(w, r, badRequest(err))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func decodeStrict(w http.ResponseWriter, r *http.Request, dst any) error {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return common.BadRequest(msgInvalidBody).WithCause(err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return common.BadRequest(msgInvalidBody + ": body is empty")
		}
		return common.BadRequest(msgInvalidBody).WithCause(err)
	}
	if dec.More() {
		return common.BadRequest(msgInvalidBody + ": unexpected data after JSON object")
	}
	return rejectNulls(raw)
}

// rejectNulls refuses a null body and null top-level fields. A field is
// either left out or carries a value of its declared type.
func rejectNulls(raw []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return common.BadRequest(msgInvalidBody).WithCause(err)
	}
	if fields == nil {
		return common.BadRequest(msgInvalidBody + ": expected a JSON object")
	}
	var nulls []string
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		if fields[key] == nil {
			nulls = append(nulls, fmt.Sprintf("%q must not be null", key))
		}
	}
	if len(nulls) > 0 {
		return common.BadRequest(strings.Join(nulls, "; "))
	}
	return nil
}

func badRequest(err error) error {
	var vErr *validate.Error
	if errors.As(err, &vErr) {
		return common.BadRequest(vErr.Error())
	}
	return common.BadRequest("validation failed").WithCause(err)
}
