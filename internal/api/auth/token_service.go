package auth

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fitfeed/fitfeed/config"
	"github.com/fitfeed/fitfeed/internal/types"
)

var _ TokenService = (*JWTTokenService)(nil)

// TokenService issues and verifies the signed, time-limited token pairs the
// auth flows run on.
type TokenService interface {
	// IssueTokenPair returns a fresh access/refresh pair bound to userID.
	// Fails with types.ErrMissingConfig when the signing secret is unset.
	IssueTokenPair(userID string) (*types.TokenPair, error)
	// Verify checks signature and expiry and returns the decoded claims.
	// The returned error wraps types.ErrInvalidToken and preserves the
	// jwt sentinel (ErrTokenExpired, ErrTokenMalformed, ...) underneath.
	Verify(tokenString string) (*types.Claims, error)
}

// JWTTokenService signs HS256 tokens with a shared secret. Both tokens of a
// pair carry the same random nonce so that simultaneously issued tokens for
// the same subject are never identical strings.
type JWTTokenService struct {
	cfg config.JWTConfig
}

func NewJWTTokenService(cfg config.JWTConfig) *JWTTokenService {
	return &JWTTokenService{cfg: cfg}
}

func (s *JWTTokenService) IssueTokenPair(userID string) (*types.TokenPair, error) {
	if s.cfg.SecretKey == "" {
		return nil, fmt.Errorf("issue token pair: %w", types.ErrMissingConfig)
	}

	nonce := rand.Int64()

	accessToken, err := s.sign(userID, nonce, s.cfg.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refreshToken, err := s.sign(userID, nonce, s.cfg.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &types.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *JWTTokenService) sign(userID string, nonce int64, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := types.Claims{
		UserID: userID,
		Nonce:  nonce,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.SecretKey))
}

func (s *JWTTokenService) Verify(tokenString string) (*types.Claims, error) {
	if s.cfg.SecretKey == "" {
		return nil, fmt.Errorf("verify token: %w", types.ErrMissingConfig)
	}

	claims := &types.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Strict HMAC check; rejects "none" and any algorithm confusion.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.SecretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing subject", types.ErrInvalidToken)
	}
	return claims, nil
}
