package middleware

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"ordermgmt/internal/config"
	"ordermgmt/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const CtxSessionKey = "session" // model.Session

// AuthJWT verifies an HS256 bearer token and stores the caller's session.
// The token must carry a numeric sub; sid is optional and defaults to
// "user-<sub>".
func AuthJWT(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawToken, ok := bearerToken(c.Request().Header.Get("Authorization"))
			if !ok {
				return unauthorized(c)
			}

			token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
				if t.Method != jwt.SigningMethodHS256 {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(cfg.JWTSecret), nil
			})
			if err != nil || token == nil || !token.Valid {
				return unauthorized(c)
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return unauthorized(c)
			}

			userID, err := parseUserID(claims["sub"])
			if err != nil || userID <= 0 {
				return unauthorized(c)
			}

			sess := model.NewUserSession(userID)
			if sid, ok := claims["sid"].(string); ok && strings.TrimSpace(sid) != "" {
				sess.ID = strings.TrimSpace(sid)
			}

			c.Set(CtxSessionKey, sess)
			return next(c)
		}
	}
}

// SessionFrom returns the session stored by AuthJWT.
func SessionFrom(c echo.Context) (model.Session, bool) {
	sess, ok := c.Get(CtxSessionKey).(model.Session)
	if !ok || !sess.Valid() {
		return model.Session{}, false
	}
	return sess, true
}

func bearerToken(authz string) (string, bool) {
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	raw := strings.TrimSpace(parts[1])
	return raw, raw != ""
}

type errorResponse struct {
	Error string `json:"error"`
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
}

func parseUserID(v interface{}) (int64, error) {
	switch t := v.(type) {
	case float64:
		if t != math.Trunc(t) || t >= math.MaxInt64 {
			return 0, errors.New("invalid sub")
		}
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, errors.New("invalid sub")
	}
}
