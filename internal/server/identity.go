package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// User is the verified identity of the acting caller.
type User struct {
	ID   string
	Name string
}

var errNoIdentity = errors.New("no verified identity")

// IdentityProvider resolves the caller's identity. Authentication itself
// happens outside this service; the provider only reads its result.
type IdentityProvider interface {
	Identify(r *http.Request) (User, error)
}

// HeaderIdentity trusts the X-User-Id and X-User-Name headers set by the
// authenticating frontend in front of this API.
type HeaderIdentity struct{}

func (HeaderIdentity) Identify(r *http.Request) (User, error) {
	id := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if id == "" {
		return User{}, errNoIdentity
	}
	name := strings.TrimSpace(r.Header.Get("X-User-Name"))
	if name == "" {
		name = id
	}
	return User{ID: id, Name: name}, nil
}

type ctxKey int

const ctxKeyUser ctxKey = iota

// identityMiddleware rejects unidentified requests before any store access
// and puts the resolved user on the request context.
func identityMiddleware(idp IdentityProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := idp.Identify(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func userFrom(r *http.Request) User {
	return r.Context().Value(ctxKeyUser).(User)
}
