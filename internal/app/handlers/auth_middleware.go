package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/learnhub-dev/learnhub/internal/app/entity"
	"github.com/learnhub-dev/learnhub/internal/app/logger"
)

type key string

const (
	cookieName          = "session"
	cookiePath          = "/"
	userIDKey       key = "userID"
	userRoleKey     key = "userRole"
	signatureLength     = 32
	invalidCookie       = "Invalid cookie"
	invalidCredentials  = "Invalid credentials"
)

// createSession signs "userID:role" with an hmac so the role claim cannot be
// forged client-side.
func createSession(userID int64, role string, secretKey string) string {
	payload := []byte(fmt.Sprintf("%d:%s", userID, role))

	k := sha256.Sum256([]byte(secretKey))
	h := hmac.New(sha256.New, k[:])
	h.Write(payload)
	sign := h.Sum(nil)

	return hex.EncodeToString(append(payload, sign...))
}

func checkSignature(cookieValue string, secretKey []byte) (int64, string, error) {
	session, err := hex.DecodeString(cookieValue)
	if err != nil {
		return 0, "", err
	}

	if len(session) <= signatureLength {
		return 0, "", fmt.Errorf("invalid cookie length")
	}

	payloadLength := len(session) - signatureLength
	payload := session[:payloadLength]

	k := sha256.Sum256(secretKey)
	h := hmac.New(sha256.New, k[:])
	h.Write(payload)
	sign := h.Sum(nil)

	if !hmac.Equal(sign, session[payloadLength:]) {
		return 0, "", fmt.Errorf("invalid signature")
	}

	parts := strings.SplitN(string(payload), ":", 2)
	if len(parts) != 2 {
		return 0, "", fmt.Errorf("invalid session payload")
	}
	userID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, "", err
	}

	return userID, parts[1], nil
}

func authHandle(secretKey string) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionCookie, err := r.Cookie(cookieName)
			if err != nil {
				if errors.Is(err, http.ErrNoCookie) {
					http.Error(w, invalidCredentials, http.StatusUnauthorized)
					return
				}
				http.Error(w, invalidCookie, http.StatusBadRequest)
				return
			}

			userID, role, err := checkSignature(sessionCookie.Value, []byte(secretKey))
			if err != nil {
				http.Error(w, invalidCookie, http.StatusUnauthorized)
				logger.Logger.Err(err).Msg("session check")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			ctx = context.WithValue(ctx, userRoleKey, role)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func adminOnly(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sessionRole(r) != entity.RoleAdmin {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		h.ServeHTTP(w, r)
	})
}

func sessionUserID(r *http.Request) int64 {
	userID, _ := r.Context().Value(userIDKey).(int64)
	return userID
}

func sessionRole(r *http.Request) string {
	role, _ := r.Context().Value(userRoleKey).(string)
	return role
}
