// Package auth implements cookie sessions: an HMAC-signed token carrying
// the user id and an expiry, verified by middleware on every request.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	CookieName      = "disha_session"
	sessionLifetime = 30 * 24 * time.Hour
)

// Sessions signs and verifies session tokens with a shared secret.
type Sessions struct {
	secret []byte
}

func NewSessions(secret string) *Sessions {
	return &Sessions{secret: []byte(secret)}
}

// Issue returns a signed token for the user, valid for the session
// lifetime. Format: userID|expiresUnix|hex(hmac).
func (s *Sessions) Issue(userID string) string {
	expires := time.Now().Add(sessionLifetime).Unix()
	payload := fmt.Sprintf("%s|%d", userID, expires)
	return payload + "|" + s.sign(payload)
}

// Verify checks the token's signature and expiry, returning the user id.
func (s *Sessions) Verify(token string) (string, bool) {
	parts := strings.Split(token, "|")
	if len(parts) != 3 {
		return "", false
	}
	payload := parts[0] + "|" + parts[1]
	if !hmac.Equal([]byte(s.sign(payload)), []byte(parts[2])) {
		return "", false
	}
	expires, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || time.Now().Unix() > expires {
		return "", false
	}
	return parts[0], true
}

func (s *Sessions) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// SetCookie writes the session cookie on a login or registration response.
func (s *Sessions) SetCookie(c *gin.Context, userID string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, s.Issue(userID), int(sessionLifetime.Seconds()), "/", "", false, true)
}

// ClearCookie logs the client out.
func (s *Sessions) ClearCookie(c *gin.Context) {
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
}

// Middleware rejects unauthenticated requests and stores user_id in the
// request context for handlers and the event push.
func (s *Sessions) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(CookieName)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		userID, ok := s.Verify(token)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}
		c.Set("user_id", userID)
		c.Next()
	}
}
