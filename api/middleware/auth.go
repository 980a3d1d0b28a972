package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/seotest/models"
)

// CallerKey is the gin context key holding the authenticated caller's
// fingerprint. The raw API key never leaves this middleware.
const CallerKey = "caller"

// Auth returns API-key authentication middleware for the /api/v1 routes.
//
// The key is read from X-API-Key or "Authorization: Bearer <key>". Only
// SHA-256 digests of the configured keys are kept, and lookups compare
// digests in constant time. On success the caller's fingerprint (a short
// prefix of the digest) is stored under CallerKey for logging and rate
// limiting.
//
// If apiKeys holds no usable key, every request is rejected: enabling auth
// without keys is a misconfiguration, not open access.
func Auth(apiKeys []string) gin.HandlerFunc {
	digests := make([][sha256.Size]byte, 0, len(apiKeys))
	for _, k := range apiKeys {
		if k = strings.TrimSpace(k); k != "" {
			digests = append(digests, sha256.Sum256([]byte(k)))
		}
	}

	return func(c *gin.Context) {
		key := extractAPIKey(c.Request)
		if key == "" {
			abortUnauthorized(c, "missing API key: provide X-API-Key header or Authorization: Bearer <key>")
			return
		}

		sum := sha256.Sum256([]byte(key))
		if !knownDigest(digests, sum) {
			abortUnauthorized(c, "invalid API key")
			return
		}

		c.Set(CallerKey, fingerprint(sum))
		c.Next()
	}
}

// knownDigest walks every digest so timing does not reveal which one matched.
func knownDigest(digests [][sha256.Size]byte, sum [sha256.Size]byte) bool {
	found := 0
	for i := range digests {
		found |= subtle.ConstantTimeCompare(digests[i][:], sum[:])
	}
	return found == 1
}

func fingerprint(sum [sha256.Size]byte) string {
	return "key:" + hex.EncodeToString(sum[:6])
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", `Bearer realm="seotest"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
		Error: &models.ErrorDetail{Code: models.ErrCodeUnauthorized, Message: msg},
	})
}

func extractAPIKey(r *http.Request) string {
	if key := strings.TrimSpace(r.Header.Get("X-API-Key")); key != "" {
		return key
	}
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}
