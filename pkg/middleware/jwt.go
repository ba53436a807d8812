package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims はJWTトークンのクレーム（ペイロード）を表す。
// 認証済みユーザーのIDをリクエスト間で伝播するために使用する。
type JWTClaims struct {
	jwt.RegisteredClaims
	// UserID は認証済みユーザーの一意識別子。
	UserID int64 `json:"user_id"`
}

// tokenValidity はトークンの有効期間。発行から30日間有効とする。
const tokenValidity = 30 * 24 * time.Hour

// GenerateJWT はユーザーIDからJWTトークンを生成する。
// gatewayサービスがサインアップ／ログイン成功時に呼び出す。
func GenerateJWT(secret string, userID int64) (string, error) {
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenValidity)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "newslens-gateway",
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("JWTトークンの署名に失敗: %w", err)
	}
	return signed, nil
}

// JWTAuth はBearerトークンを検証するGinミドルウェアを返す。
// トークンが提示されていない場合と、提示されたが検証に失敗した場合で
// 固定のエラーメッセージを使い分ける。検証に成功した場合は
// コンテキストに "user_id" を設定する。
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if authHeader == "" || !found {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "not authorized, no token",
			})
			return
		}

		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "not authorized, token failed",
			})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Next()
	}
}

// GetUserID はGinコンテキストから認証済みユーザーのIDを取得する。
// JWTAuthミドルウェアが事前に適用されている必要がある。
// 未設定の場合は0を返す。
func GetUserID(c *gin.Context) int64 {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(int64); ok {
		return id
	}
	return 0
}
