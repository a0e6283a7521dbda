package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/farmsight/internal/domain/auth"
	apperrors "github.com/yanqian/farmsight/pkg/errors"
)

const (
	authClaimsKey = "auth_claims"
	// accessTokenParam lets a browser open a chart or dashboard link directly.
	accessTokenParam = "access_token"
)

// authMiddleware resolves the caller from a bearer header, or from the
// access_token query parameter on GET requests.
func authMiddleware(svc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, httpErr := requestToken(c)
		if httpErr != nil {
			abortWithError(c, httpErr)
			return
		}
		claims, err := svc.ValidateToken(c.Request.Context(), token)
		if err != nil {
			if apperrors.IsCode(err, apperrors.CodeInvalidToken) {
				abortWithError(c, NewHTTPError(http.StatusForbidden, apperrors.CodeInvalidToken, errMessage(err), err))
				return
			}
			abortWithError(c, NewHTTPError(http.StatusInternalServerError, "auth_failed", "could not validate token", err))
			return
		}
		c.Set(authClaimsKey, claims)
		c.Next()
	}
}

func requestToken(c *gin.Context) (string, *HTTPError) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		if c.Request.Method == http.MethodGet {
			if token := strings.TrimSpace(c.Query(accessTokenParam)); token != "" {
				return token, nil
			}
		}
		return "", NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing authorization header", nil)
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", NewHTTPError(http.StatusUnauthorized, "unauthorized", "invalid authorization header", nil)
	}
	return token, nil
}

func getClaims(c *gin.Context) (auth.Claims, bool) {
	value, ok := c.Get(authClaimsKey)
	if !ok {
		return auth.Claims{}, false
	}
	claims, ok := value.(auth.Claims)
	return claims, ok
}
