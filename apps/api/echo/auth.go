package echoapi

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/groupstudy/server/core"
)

var (
	tokenCookieName = "token"

	// appJWTConfig is the default JWT auth middleware config.
	// The session token travels in an HTTP-only cookie, never in the body.
	appJWTConfig = middleware.JWTConfig{
		SigningKey:    []byte(core.Conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    "identityToken",
		Claims:        new(Claims),
		TokenLookup:   "cookie:" + tokenCookieName,
	}
)

// Claims represents the session identity transmitted via a JWT.
// Email is the only application claim carried.
type Claims struct {
	jwt.StandardClaims
	Email string `json:"email,omitempty"`
}

// GetIdentityClaims builds the session claims for an authenticated email,
// expiring after Config.JWTExpirationDelta.
func GetIdentityClaims(email string) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    core.Conf.AppName,
			Subject:   email,
			ExpiresAt: now.Add(core.Conf.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Email: email,
	}
}

// SigningKey returns the session token signing key.
func SigningKey() []byte {
	return appJWTConfig.SigningKey.([]byte)
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(appJWTConfig.SigningKey)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

// NewTokenCookie wraps a signed token in the session cookie. Cross-site
// delivery needs Secure+SameSite=None behind TLS in production; local
// development keeps Strict.
func NewTokenCookie(token string, conf *core.Config) *http.Cookie {
	cookie := &http.Cookie{
		Name:     tokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Now().Add(conf.JWTExpirationDelta),
	}
	if conf.IsProd() {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode
	} else {
		cookie.SameSite = http.SameSiteStrictMode
	}
	return cookie
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(appJWTConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

type authApi struct {
	conf     *core.Config
	validate *validator.Validate
}

func registerAuthAPI(e *echo.Echo, conf *core.Config, validate *validator.Validate) {
	api := authApi{conf: conf, validate: validate}
	e.POST("/jwt", api.issueToken)
}

// issueToken mints a session token for the supplied identity email and sets
// it as an HTTP-only cookie. There is no refresh or server-side revocation;
// the token dies by expiry alone.
func (api *authApi) issueToken(ctx echo.Context) error {
	var data TokenRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TokenRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	token, err := GenerateToken(GetIdentityClaims(data.Email))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	ctx.SetCookie(NewTokenCookie(token, api.conf))

	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true})
}

type (
	TokenRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	SuccessResponse struct {
		Success bool `json:"success"`
	}
)

func (tr *TokenRequest) Validate(validate *validator.Validate) error {
	tr.Email = core.CleanString(tr.Email, true /* lower */)
	return validate.Struct(tr)
}
