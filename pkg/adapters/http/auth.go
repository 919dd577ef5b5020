package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// ErrUnauthenticated is returned by an Authenticator that cannot identify the caller.
var ErrUnauthenticated = errors.New("unauthenticated")

// Authenticator resolves the calling user of a request.
type Authenticator interface {
	Authenticate(r *http.Request) (string, error)
}

// AuthenticatorFunc adapts a function to Authenticator.
type AuthenticatorFunc func(r *http.Request) (string, error)

func (f AuthenticatorFunc) Authenticate(r *http.Request) (string, error) { return f(r) }

// HeaderUserIDHeader carries the user id for HeaderAuthenticator.
const HeaderUserIDHeader = "X-User-ID"

// HeaderAuthenticator trusts the X-User-ID header. Use it only behind a
// gateway that sets the header itself.
func HeaderAuthenticator() Authenticator {
	return AuthenticatorFunc(func(r *http.Request) (string, error) {
		user := strings.TrimSpace(r.Header.Get(HeaderUserIDHeader))
		if user == "" {
			return "", ErrUnauthenticated
		}
		return user, nil
	})
}

// TokenAuthenticator maps bearer tokens to user ids.
func TokenAuthenticator(tokens map[string]string) Authenticator {
	return AuthenticatorFunc(func(r *http.Request) (string, error) {
		scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return "", ErrUnauthenticated
		}
		user, found := tokens[strings.TrimSpace(token)]
		if !found {
			return "", ErrUnauthenticated
		}
		return user, nil
	})
}

type userKey struct{}

// UserFromContext returns the user set by the authentication middleware.
func UserFromContext(ctx context.Context) (string, bool) {
	user, ok := ctx.Value(userKey{}).(string)
	return user, ok && user != ""
}

func requireUser(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := auth.Authenticate(r)
			if err != nil || user == "" {
				writeError(w, http.StatusUnauthorized, ErrUnauthenticated)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, user)))
		})
	}
}
