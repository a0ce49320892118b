package middleware

import (
	"errors"
	"fmt"
	"strings"

	"recipe-assistant/internal/api/respond"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const userIDKey = "user_id"

var (
	errMissingToken = errors.New("missing bearer token")
	errEmptySubject = errors.New("token has no subject")

	// ErrMissingSecret 未設定 SUPABASE_JWT_SECRET 時所有需要身分的請求都會被拒絕
	ErrMissingSecret = errors.New("supabase jwt secret is not configured")
)

// Authenticator 驗證 Supabase 簽發的 access token
type Authenticator struct {
	secret []byte
	issuer string
}

// NewAuthenticator 以 Supabase 專案網址與 JWT 密鑰建立驗證器
func NewAuthenticator(cfg *config.SupabaseConfig) *Authenticator {
	issuer := ""
	if cfg.URL != "" {
		issuer = strings.TrimRight(cfg.URL, "/") + "/auth/v1"
	}
	return &Authenticator{
		secret: []byte(cfg.JWTSecret),
		issuer: issuer,
	}
}

// Enabled 是否已設定簽章密鑰
func (a *Authenticator) Enabled() bool {
	return len(a.secret) > 0
}

// Verify 解析 token 並回傳使用者 ID（sub），沒有密鑰時一律失敗
func (a *Authenticator) Verify(tokenString string) (string, error) {
	if !a.Enabled() {
		return "", ErrMissingSecret
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	}, opts...)
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}
	if claims.Subject == "" {
		return "", errEmptySubject
	}
	return claims.Subject, nil
}

// OptionalAuth 有 token 時驗證並記錄使用者，沒有時視為匿名；token 無效一律 401
func (a *Authenticator) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if errors.Is(err, errMissingToken) {
			c.Next()
			return
		}
		a.authenticate(c, token, err)
	}
}

// RequireAuth 必須帶有效 token
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		a.authenticate(c, token, err)
	}
}

func (a *Authenticator) authenticate(c *gin.Context, token string, err error) {
	if err == nil {
		var userID string
		userID, err = a.Verify(token)
		if err == nil {
			c.Set(userIDKey, userID)
			c.Next()
			return
		}
	}

	common.LogWarn("身分驗證失敗",
		zap.String("path", c.Request.URL.Path),
		zap.String("ip", c.ClientIP()),
		zap.Error(err),
	)
	respond.Err(c, common.ErrUnauthorized)
}

// UserID 取出已驗證的使用者 ID，匿名請求回傳空字串
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errors.New("invalid authorization header format")
	}
	return strings.TrimSpace(token), nil
}
