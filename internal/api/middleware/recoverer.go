package middleware

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"

	"mesto_backend/internal/common"
)

// Recoverer turns a panic into a logged Internal error so the client still
// gets a {message} body.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}
			log.Printf("PANIC: %s %s: %v\n%s", r.Method, r.URL.Path, rvr, debug.Stack())
			err, ok := rvr.(error)
			if !ok {
				err = fmt.Errorf("%v", rvr)
			}
			common.RespondWithAppError(w, r, common.Internal(errors.Join(errors.New("panic"), err)))
		}()
		next.ServeHTTP(w, r)
	})
}
