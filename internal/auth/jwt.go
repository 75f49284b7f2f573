package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mawaddah/mbs/internal/model"
)

var (
	ErrInvalidToken = errors.New("invalid token")
)

// Claims 解析后的令牌内容
type Claims struct {
	UserId int64
	Role   model.UserRole
}

// GenerateToken 为指定用户签发JWT
func GenerateToken(secret string, userId int64, role model.UserRole, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userId,
		"role": string(role),
		"exp":  time.Now().Add(expiry).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken 校验令牌并返回claims
func ValidateToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// 确认签名算法一致
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	// JSON数字默认解析为float64
	sub, ok := claims["sub"].(float64)
	if !ok {
		return nil, errors.New("invalid subject claim")
	}
	role, _ := claims["role"].(string)

	return &Claims{
		UserId: int64(sub),
		Role:   model.UserRole(role),
	}, nil
}
