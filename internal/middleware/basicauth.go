package middleware

import (
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/alumni-reunion/backend/config"
	"github.com/alumni-reunion/backend/pkg/response"
)

// BasicAuth gates admin endpoints with HTTP Basic auth. The configured
// password may be a bcrypt hash; otherwise a constant-time plaintext compare
// is used. An empty configured password disables access entirely.
func BasicAuth(cfg config.AdminConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, pass, ok := parseBasicAuth(c.GetHeader("Authorization"))
		if !ok || cfg.Password == "" || !credentialsMatch(cfg, user, pass) {
			c.Header("WWW-Authenticate", `Basic realm="Registrations"`)
			response.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func credentialsMatch(cfg config.AdminConfig, user, pass string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(cfg.User)) == 1
	var passOK bool
	if strings.HasPrefix(cfg.Password, "$2a$") || strings.HasPrefix(cfg.Password, "$2b$") || strings.HasPrefix(cfg.Password, "$2y$") {
		passOK = bcrypt.CompareHashAndPassword([]byte(cfg.Password), []byte(pass)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(pass), []byte(cfg.Password)) == 1
	}
	return userOK && passOK
}

func parseBasicAuth(header string) (user, pass string, ok bool) {
	if !strings.HasPrefix(header, "Basic ") {
		return "", "", false
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, "Basic "))
	if err != nil {
		return "", "", false
	}
	creds := string(raw)
	idx := strings.IndexByte(creds, ':')
	if idx < 0 {
		return "", "", false
	}
	return creds[:idx], creds[idx+1:], true
}
