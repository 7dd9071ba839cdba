package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken 在令牌无法解析、签名不符或已过期时返回
var ErrInvalidToken = errors.New("invalid token")

// TokenClaims 是签发给客户端的 JWT 负载。
type TokenClaims struct {
	AccountID uint `json:"account_id"`
	ProfileID uint `json:"profile_id"`
	jwt.RegisteredClaims
}

// TokenService 使用 HS256 签发和校验访问令牌。
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService 创建 TokenService，ttl 非正数时回退为 24 小时。
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue 为账号及其 Profile 签发令牌，返回令牌与过期时间。
func (s *TokenService) Issue(accountID, profileID uint) (string, time.Time, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)

	claims := TokenClaims{
		AccountID: accountID,
		ProfileID: profileID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", accountID),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse 校验令牌并返回负载。
func (s *TokenService) Parse(raw string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.AccountID == 0 || claims.ProfileID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
