package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/streamlineer/streamlineer/core"
	"github.com/streamlineer/streamlineer/core/user"
)

// Token types carried in the `type` claim. Only access tokens authorize API
// calls; refresh tokens are exchanged for a new pair.
const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var contextUserKey = "user"

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	TokenType string `json:"type,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
}

// TokenPair is an access/refresh token couple issued on login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func getUserClaims(usr user.User, tokenType string, conf *core.Config) *Claims {
	now := time.Now()
	delta := conf.Server.JWTExpirationDelta
	if tokenType == tokenTypeRefresh {
		delta = conf.Server.JWTRefreshExpirationDelta
	}
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   usr.ID,
			ExpiresAt: now.Add(delta).Unix(),
			IssuedAt:  now.Unix(),
		},
		TokenType: tokenType,
		Email:     usr.Email,
		Role:      usr.Role,
	}
}

// generateTokenPair signs an access and a refresh token for the user.
func generateTokenPair(usr user.User, conf *core.Config) (TokenPair, error) {
	access, err := generateToken(getUserClaims(usr, tokenTypeAccess, conf), conf)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := generateToken(getUserClaims(usr, tokenTypeRefresh, conf), conf)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func generateToken(claims *Claims, conf *core.Config) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(conf.SecretKey)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

// verifyToken parses a raw token string and checks its signature, expiry and
// token type.
func verifyToken(raw, tokenType string, conf *core.Config) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return conf.SecretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, errInvalidToken
	}
	if claims.TokenType != tokenType {
		return nil, errInvalidToken
	}
	return claims, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get("userToken").(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			if claims.TokenType != tokenTypeAccess {
				return Claims{}, errUnauthorized
			}
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextUser(ctx echo.Context, svc user.Service, clms ...Claims) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}

	var claims Claims
	var err error
	if len(clms) > 0 {
		claims = clms[0]
	} else {
		claims, err = getContextClaims(ctx)
		if err != nil {
			return user.User{}, errors.Wrap(err, "getting context claims")
		}
	}

	usr, err := svc.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return user.User{}, errors.Wrap(err, "finding user by ID")
	}
	ctx.Set(contextUserKey, usr)
	return usr, nil
}

func contextHasAnyRole(ctx echo.Context, roles []string) bool {
	if len(roles) == 0 {
		return true
	}
	if claims, err := getContextClaims(ctx); err == nil {
		for _, role := range roles {
			if claims.Role == role {
				return true
			}
		}
	}
	return false
}

// refreshTokenPair exchanges a valid refresh token for a fresh pair.
func refreshTokenPair(ctx echo.Context, raw string, svc user.Service, conf *core.Config) (TokenPair, error) {
	claims, err := verifyToken(raw, tokenTypeRefresh, conf)
	if err != nil {
		return TokenPair{}, err
	}

	usr, err := svc.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return TokenPair{}, errInvalidToken
	}
	if !usr.IsActive {
		return TokenPair{}, errAccountDeactivated
	}
	return generateTokenPair(usr, conf)
}
