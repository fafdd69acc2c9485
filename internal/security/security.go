package security

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// SecurityConfig holds security configuration
type SecurityConfig struct {
	MaxGroupLength    int           `json:"max_group_length"`
	MaxRequestsPerMin int           `json:"max_requests_per_min"`
	RequestTimeout    time.Duration `json:"request_timeout"`
}

// DefaultSecurityConfig returns secure defaults
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		MaxGroupLength:    200,
		MaxRequestsPerMin: 60,
		RequestTimeout:    30 * time.Second,
	}
}

// SecurityMiddleware provides rate limiting, security headers and input
// validation for the prediction endpoints.
type SecurityMiddleware struct {
	config     SecurityConfig
	mu         sync.Mutex
	ipLimiters map[string]*rate.Limiter
}

// NewSecurityMiddleware creates a new security middleware instance
func NewSecurityMiddleware(config SecurityConfig) *SecurityMiddleware {
	return &SecurityMiddleware{
		config:     config,
		ipLimiters: make(map[string]*rate.Limiter),
	}
}

// ValidateGroupLabel validates a caller-supplied assignment group before it
// reaches the pipeline. Schema membership is checked later; this only
// rejects input that is malformed regardless of schema.
func (sm *SecurityMiddleware) ValidateGroupLabel(label string) error {
	if label == "" {
		return fmt.Errorf("assignment group cannot be empty")
	}

	if len(label) > sm.config.MaxGroupLength {
		return fmt.Errorf("assignment group exceeds maximum length of %d characters", sm.config.MaxGroupLength)
	}

	if strings.Contains(label, "\x00") {
		return fmt.Errorf("assignment group contains invalid characters")
	}

	if !utf8.ValidString(label) {
		return fmt.Errorf("assignment group contains invalid UTF-8 encoding")
	}

	return nil
}

// RateLimitByIP implements per-IP rate limiting
func (sm *SecurityMiddleware) RateLimitByIP(c *gin.Context) {
	clientIP := c.ClientIP()

	sm.mu.Lock()
	limiter, exists := sm.ipLimiters[clientIP]
	if !exists {
		rps := rate.Limit(float64(sm.config.MaxRequestsPerMin) / 60.0)
		burst := sm.config.MaxRequestsPerMin / 2
		if burst < 5 {
			burst = 5
		}
		limiter = rate.NewLimiter(rps, burst)
		sm.ipLimiters[clientIP] = limiter
	}
	sm.mu.Unlock()

	if !limiter.Allow() {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":       "rate limit exceeded for IP",
			"retry_after": "60",
		})
		c.Abort()
		return
	}

	c.Next()
}

// SecurityHeaders adds security headers to responses
func (sm *SecurityMiddleware) SecurityHeaders(c *gin.Context) {
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("X-Frame-Options", "DENY")
	c.Header("X-XSS-Protection", "1; mode=block")

	if c.Request.TLS != nil {
		c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
	}

	c.Header("Content-Security-Policy", "default-src 'self'")
	c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

	c.Next()
}

// ValidateContentType validates request content type
func (sm *SecurityMiddleware) ValidateContentType(c *gin.Context) {
	contentType := c.GetHeader("Content-Type")

	if c.Request.Method == http.MethodPost && contentType != "" {
		if !strings.Contains(strings.ToLower(contentType), "application/json") {
			c.JSON(http.StatusUnsupportedMediaType, gin.H{
				"error": "unsupported content type, use application/json",
			})
			c.Abort()
			return
		}
	}

	c.Next()
}

// RequestTimeout enforces a deadline on request handling
func (sm *SecurityMiddleware) RequestTimeout(c *gin.Context) {
	ctx, cancel := contextWithTimeout(c, sm.config.RequestTimeout)
	defer cancel()

	c.Request = c.Request.WithContext(ctx)
	c.Next()
}
