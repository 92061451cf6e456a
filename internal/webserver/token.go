package webserver

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// IssueAdminToken signs a short-lived JWT for an authenticated admin
// session.
func (s *WebServer) IssueAdminToken(email string) (string, error) {
	claims := jwt.MapClaims{
		"usr": email,
		"lvl": "super",
		"exp": time.Now().Add(12 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Web.Secret))
}
