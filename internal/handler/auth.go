package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/verbstore/backoffice/internal/domain/colleague"
)

type authKey struct{}

// ColleagueFromContext extracts the authenticated colleague, if any.
func ColleagueFromContext(ctx context.Context) *colleague.Colleague {
	c, _ := ctx.Value(authKey{}).(*colleague.Colleague)
	return c
}

// authenticate resolves an optional bearer token to a colleague account by
// computing the HMAC-SHA256 of the token, looking it up, and performing a
// constant-time comparison to prevent timing attacks. Requests without a
// token continue unauthenticated; a token that fails to resolve is a 401.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		mac := hmac.New(sha256.New, h.cfg.TokenPepper)
		mac.Write([]byte(token))
		hash := mac.Sum(nil)

		info, err := h.tokens.FindByHash(r.Context(), hex.EncodeToString(hash))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		storedBytes, err := hex.DecodeString(info.TokenHash)
		if err != nil || subtle.ConstantTimeCompare(hash, storedBytes) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		c, err := h.colleagues.GetByID(r.Context(), info.ColleagueID)
		if err != nil || !c.IsActive {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), authKey{}, c)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireStaff gates a route on an authenticated staff account.
func (h *Handler) requireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := ColleagueFromContext(r.Context())
		if c == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if !c.IsStaff && !c.IsAdmin {
			writeError(w, http.StatusForbidden, "staff access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return auth[len(prefix):], true
	}
	return "", false
}
