package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"roomhub/pkg/utils"
)

var ErrInvalidToken = errors.New("invalid token")

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Claims struct {
	Role string    `json:"role"`
	Type TokenType `json:"typ"`
	jwt.RegisteredClaims
}

// Identity is the authenticated caller, threaded explicitly into handlers.
type Identity struct {
	UserID uint
	Role   string
}

func (c *Claims) Identity() (Identity, error) {
	uid, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || uid == 0 {
		return Identity{}, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return Identity{UserID: uint(uid), Role: c.Role}, nil
}

type Pair struct {
	Access     string
	Refresh    string
	RefreshExp time.Time
	RefreshJTI string
}

type JWTer struct {
	Secret     []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Leeway     time.Duration
	Now        func() time.Time // defaults to time.Now
}

func (j *JWTer) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now()
}

func (j *JWTer) sign(uid uint, role string, typ TokenType, ttl time.Duration, jti string) (string, time.Time, error) {
	now := j.now()
	exp := now.Add(ttl)
	claims := Claims{
		Role: role,
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.Issuer,
			Subject:   strconv.FormatUint(uint64(uid), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        jti,
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", typ, err)
	}
	return s, exp, nil
}

// IssueAccess signs a short-lived access token.
func (j *JWTer) IssueAccess(uid uint, role string) (string, time.Time, error) {
	return j.sign(uid, role, AccessToken, j.AccessTTL, utils.NewID())
}

// IssuePair signs an access token and a refresh token for the same subject.
// The refresh token's jti is returned so the caller can record it.
func (j *JWTer) IssuePair(uid uint, role string) (Pair, error) {
	access, _, err := j.IssueAccess(uid, role)
	if err != nil {
		return Pair{}, err
	}
	jti := utils.NewID()
	refresh, rexp, err := j.sign(uid, role, RefreshToken, j.RefreshTTL, jti)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Access: access, Refresh: refresh, RefreshExp: rexp, RefreshJTI: jti}, nil
}

// Parse checks signature, issuer, expiry and token type. Every failure is
// reported as ErrInvalidToken; the cause is wrapped for logs only.
func (j *JWTer) Parse(tokenStr string, want TokenType) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg %v", token.Header["alg"])
		}
		return j.Secret, nil
	},
		jwt.WithIssuer(j.Issuer),
		jwt.WithLeeway(j.Leeway),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, ErrInvalidToken
	}
	if want != "" && c.Type != want {
		return nil, fmt.Errorf("%w: want %s token, got %q", ErrInvalidToken, want, c.Type)
	}
	if want == RefreshToken && c.ID == "" {
		return nil, fmt.Errorf("%w: refresh token without jti", ErrInvalidToken)
	}
	return c, nil
}

// HashToken is the form refresh tokens are stored in.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
