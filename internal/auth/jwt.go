package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken is returned when token validation fails
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when token is expired
	ErrExpiredToken = errors.New("token expired")
	// ErrInvalidClaims is returned when claims are invalid
	ErrInvalidClaims = errors.New("invalid claims")
)

// OperatorClaims represents JWT claims for an operator session
type OperatorClaims struct {
	OperatorID uuid.UUID `json:"operator_id"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	jwt.RegisteredClaims
}

// JWTService issues HS256 operator tokens and validates incoming ones.
// With a key cache configured it also accepts RS256 tokens signed by an
// external identity provider.
type JWTService struct {
	secretKey []byte
	issuer    string
	expiresIn time.Duration
	keys      *KeyCache
}

type JWTOption func(*JWTService)

// WithKeyCache enables verification of externally issued RS256 tokens.
// Public key material is fetched through the cache; a signature failure
// drops it so a rotated key is picked up on the next request.
func WithKeyCache(keys *KeyCache) JWTOption {
	return func(s *JWTService) { s.keys = keys }
}

func NewJWTService(secretKey, issuer string, expiresIn time.Duration, opts ...JWTOption) *JWTService {
	s := &JWTService{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		expiresIn: expiresIn,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateToken generates a signed token for an operator
func (s *JWTService) GenerateToken(operatorID uuid.UUID, email, role string) (string, error) {
	now := time.Now()
	claims := OperatorClaims{
		OperatorID: operatorID,
		Email:      email,
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   operatorID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiresIn)),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// ValidateToken validates and parses a token. HS256 tokens are checked
// against the local secret, RS256 tokens against the cached provider key.
func (s *JWTService) ValidateToken(ctx context.Context, tokenString string) (*OperatorClaims, error) {
	var externalKey bool

	token, err := jwt.ParseWithClaims(tokenString, &OperatorClaims{}, func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodHMAC:
			return s.secretKey, nil
		case *jwt.SigningMethodRSA:
			if s.keys == nil {
				return nil, ErrInvalidToken
			}
			externalKey = true
			pemKey, err := s.keys.Get(ctx)
			if err != nil {
				return nil, err
			}
			return jwt.ParseRSAPublicKeyFromPEM(pemKey)
		default:
			return nil, ErrInvalidToken
		}
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		// The provider may have rotated its signing key
		if externalKey && errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			s.keys.Invalidate()
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*OperatorClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	return claims, nil
}
