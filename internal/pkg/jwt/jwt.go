package jwt

import (
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/user"
)

const TokenTypeAccess = "access"

// Claim keys carried by access tokens.
const (
	ClaimUserID    = "id"
	ClaimEmail     = "email"
	ClaimRole      = "role"
	ClaimCompanyID = "companyId"
	ClaimType      = "type"
)

type Service interface {
	GenerateAccessToken(u user.User) (token string, expiresAt time.Time, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpiration string) (Service, error) {
	expiration, err := time.ParseDuration(accessTokenExpiration)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration %q: %w", accessTokenExpiration, err)
	}
	return &JWTService{
		accessTokenExpiration: expiration,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}, nil
}

func (j *JWTService) GenerateAccessToken(u user.User) (token string, expiresAt time.Time, err error) {
	expiresAt = time.Now().Add(j.accessTokenExpiration)

	claims := map[string]interface{}{
		ClaimUserID: u.ID,
		ClaimEmail:  u.Email,
		ClaimRole:   string(u.Role),
		ClaimType:   TokenTypeAccess,
		"exp":       expiresAt.Unix(),
	}
	if u.CompanyID != nil {
		claims[ClaimCompanyID] = *u.CompanyID
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}
