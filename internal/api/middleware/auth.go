package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/d60-Lab/blogsmith/pkg/response"
)

// CtxUserID gin context 里存放请求者 id 的键
const CtxUserID = "userID"

// JWTAuth 校验 Bearer token 并注入请求者 id。签发在外部身份服务，这里只验。
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			response.Unauthorized(c, "missing bearer token")
			return
		}
		raw := strings.TrimPrefix(auth, "Bearer ")

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			response.Unauthorized(c, "invalid token")
			return
		}

		c.Set(CtxUserID, claims.Subject)
		c.Next()
	}
}

// UserID 取当前请求者 id（未经过 JWTAuth 时为空串）
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserID)
}
