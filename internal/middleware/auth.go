package middleware

import (
	"net/http"
	"strings"
	"time"

	"longevityhub/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const sessionKey = "session"

// IssueToken signs a session token carrying identity, role and timezone.
func IssueToken(secret []byte, u *model.User, ttl time.Duration) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":  u.ID,
		"role": u.Role,
		"tz":   u.Timezone,
		"exp":  time.Now().Add(ttl).Unix(),
	}).SignedString(secret)
}

// SessionAuth reads the session cookie (or a Bearer header as fallback for
// non-browser clients), validates it and stores a model.Session in the
// context. Tokens with less than a day left are transparently renewed.
func SessionAuth(secret []byte, cookieName string, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(cookieName)
		if err != nil {
			if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				raw = auth[7:]
			}
		}
		if raw == "" {
			abortUnauthorized(c)
			return
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c)
			return
		}
		uid, ok := claims["uid"].(float64)
		if !ok {
			abortUnauthorized(c)
			return
		}
		role, _ := claims["role"].(string)
		tz, _ := claims["tz"].(string)

		c.Set(sessionKey, model.Session{UserID: int(uid), Role: role, Timezone: tz})

		if exp, ok := claims["exp"].(float64); ok {
			if time.Until(time.Unix(int64(exp), 0)) < 24*time.Hour {
				renewed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
					"uid": claims["uid"], "role": role, "tz": tz,
					"exp": time.Now().Add(7 * 24 * time.Hour).Unix(),
				}).SignedString(secret)
				if err == nil {
					c.SetCookie(cookieName, renewed, int((7 * 24 * time.Hour).Seconds()), "/", "", secure, true)
				}
			}
		}

		c.Next()
	}
}

// RequireAdmin gates admin routes. Runs after SessionAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetSession(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"ok": false, "error": "forbidden"})
		}
	}
}

// GetSession returns the authenticated session. Panics if called on a route
// not behind SessionAuth, which is a wiring bug, not a runtime condition.
func GetSession(c *gin.Context) model.Session {
	return c.MustGet(sessionKey).(model.Session)
}

// RequestID tags each request for log correlation.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unauthorized"})
}
