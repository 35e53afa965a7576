package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bbag/minedash/internal/config"
)

// ContextUserKey holds the authenticated admin name in the gin context.
const ContextUserKey = "admin_user"

// Verifier checks an admin credential.
type Verifier interface {
	Verify(identifier, secret string) bool
}

// StaticVerifier accepts exactly one configured username and password.
type StaticVerifier struct {
	Username string
	Password string
}

func (v StaticVerifier) Verify(identifier, secret string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(identifier), []byte(v.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(secret), []byte(v.Password)) == 1
	return userOK && passOK && v.Username != ""
}

// BcryptVerifier accepts the configured username with a password matching
// a bcrypt hash.
type BcryptVerifier struct {
	Username string
	Hash     []byte
}

func (v BcryptVerifier) Verify(identifier, secret string) bool {
	if v.Username == "" || subtle.ConstantTimeCompare([]byte(identifier), []byte(v.Username)) != 1 {
		return false
	}
	return bcrypt.CompareHashAndPassword(v.Hash, []byte(secret)) == nil
}

// NewVerifier picks the bcrypt verifier when a hash is configured.
func NewVerifier(cfg config.AdminConfig) Verifier {
	if cfg.PasswordHash != "" {
		return BcryptVerifier{Username: cfg.Username, Hash: []byte(cfg.PasswordHash)}
	}
	return StaticVerifier{Username: cfg.Username, Password: cfg.Password}
}

// BasicAuth rejects requests whose HTTP Basic credentials do not verify.
func BasicAuth(v Verifier, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		user, pass, ok := c.Request.BasicAuth()
		if !ok || !v.Verify(user, pass) {
			logger.Warn("admin authentication failed",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()))
			c.Header("WWW-Authenticate", `Basic realm="admin"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}
