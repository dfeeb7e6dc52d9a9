package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/SAP-F-2025/study-quiz-client/internal/client"
	"github.com/SAP-F-2025/study-quiz-client/internal/config"
	"github.com/SAP-F-2025/study-quiz-client/internal/utils"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// UserIDKey is the gin context key holding the verified token subject.
const UserIDKey = "user_id"

var errMalformedHeader = errors.New("authorization header must be in the format: Bearer {token}")

// TokenVerifier checks a bearer token and returns its subject.
type TokenVerifier interface {
	Verify(token string) (subject string, err error)
}

type casdoorVerifier struct {
	client *casdoorsdk.Client
}

// NewCasdoorVerifier verifies tokens issued by a Casdoor application.
func NewCasdoorVerifier(cfg config.CasdoorConfig) TokenVerifier {
	return &casdoorVerifier{
		client: casdoorsdk.NewClient(
			cfg.Endpoint,
			cfg.ClientID,
			cfg.ClientSecret,
			cfg.Certificate,
			cfg.OrganizationName,
			cfg.ApplicationName,
		),
	}
}

func (v *casdoorVerifier) Verify(token string) (string, error) {
	claims, err := v.client.ParseJwtToken(token)
	if err != nil {
		return "", err
	}
	if claims.User.Owner == "" {
		return claims.User.Name, nil
	}
	return claims.User.Owner + "/" + claims.User.Name, nil
}

type hmacVerifier struct {
	secret []byte
}

// NewHMACVerifier verifies HS256/384/512 tokens signed with secret.
func NewHMACVerifier(secret string) TokenVerifier {
	return &hmacVerifier{secret: []byte(secret)}
}

func (v *hmacVerifier) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !parsed.Valid {
		return "", errors.New("invalid token")
	}
	return claims.Subject, nil
}

// NewTokenVerifier picks Casdoor when configured, then a shared JWT secret.
// It returns nil when neither is set and tokens are only forwarded.
func NewTokenVerifier(cfg *config.Config) TokenVerifier {
	switch {
	case cfg.Casdoor.Enabled():
		return NewCasdoorVerifier(cfg.Casdoor)
	case cfg.JWTSecret != "":
		return NewHMACVerifier(cfg.JWTSecret)
	default:
		return nil
	}
}

// BearerAuth forwards the request's bearer token to the quiz API. With a
// verifier the token is required and checked first.
func BearerAuth(verifier TokenVerifier, logger utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			abort(c, http.StatusUnauthorized, err.Error(), "UNAUTHORIZED")
			return
		}

		if verifier != nil {
			if token == "" {
				abort(c, http.StatusUnauthorized, "Authorization header is required", "UNAUTHORIZED")
				return
			}
			subject, err := verifier.Verify(token)
			if err != nil {
				logger.Warn("Token verification failed", "path", c.Request.URL.Path, "error", err)
				abort(c, http.StatusUnauthorized, "Invalid or expired token", "UNAUTHORIZED")
				return
			}
			c.Set(UserIDKey, subject)
		}

		if token != "" {
			c.Request = c.Request.WithContext(client.WithBearerToken(c.Request.Context(), token))
		}
		c.Next()
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", nil
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errMalformedHeader
	}
	return strings.TrimSpace(token), nil
}

func abort(c *gin.Context, status int, message, code string) {
	c.AbortWithStatusJSON(status, gin.H{
		"message": message,
		"code":    code,
	})
}
