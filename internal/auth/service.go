package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const guestTokenTTL = 30 * 24 * time.Hour

const AnonymousOwner = "anonymous"

var ErrTokenInvalid = errors.New("token invalid")

type Service struct {
	secret []byte
}

type Claims struct {
	OwnerID string `json:"owner_id"`
	jwt.RegisteredClaims
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	OwnerID     string `json:"owner_id"`
}

func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

// IssueGuestToken mints a token for a new owner id so exports can be
// listed again later from the same browser.
func (s *Service) IssueGuestToken() (TokenResponse, error) {
	ownerID := uuid.NewString()
	token, err := s.signToken(ownerID, guestTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}
	return TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(guestTokenTTL.Seconds()),
		OwnerID:     ownerID,
	}, nil
}

func (s *Service) ValidateToken(token string) (string, error) {
	claims, err := parseClaims(s.secret, token)
	if err != nil {
		return "", err
	}
	return claims.OwnerID, nil
}

func (s *Service) signToken(ownerID string, ttl time.Duration) (string, error) {
	claims := Claims{
		OwnerID: ownerID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

var parseClaimsFn = jwt.ParseWithClaims

func parseClaims(secret []byte, token string) (*Claims, error) {
	parsed, err := parseClaimsFn(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.OwnerID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
