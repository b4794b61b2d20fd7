package middleware

import (
	"net/http"
	"strings"

	"checkout-service/internal/service"
	"checkout-service/internal/transport/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type actorClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// ActorOptional разбирает Bearer-токен, если он есть, и кладёт актора в
// контекст. Запросы без токена проходят анонимно; предъявленный, но
// невалидный токен отклоняется.
func ActorOptional(secret, issuer, audience string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" || secret == "" {
			c.Next()
			return
		}
		token, ok := extractBearerToken(authz)
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("invalid Authorization header"))
			return
		}

		var claims actorClaims
		parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		}, verifyOpts(issuer, audience)...)
		if err != nil || !parsed.Valid {
			log.Warn("token validation failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("invalid token"))
			return
		}

		customerID, err := uuid.Parse(claims.Subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("invalid subject"))
			return
		}

		ctx := service.WithActor(c.Request.Context(), service.Actor{
			CustomerID: customerID,
			Email:      claims.Email,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Пустые issuer/audience не навязывают пустые значения клеймов.
func verifyOpts(issuer, audience string) []jwt.ParserOption {
	var opts []jwt.ParserOption
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}
	return opts
}

func extractBearerToken(authz string) (string, bool) {
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
