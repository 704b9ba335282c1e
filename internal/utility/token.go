package utility

import (
	"fmt"
	"os"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
)

type TeacherClaims struct {
	Username string `json:"username"`
	jwt.StandardClaims
}

// GenerateTeacherToken issues a signed token for the teacher dashboard. The
// token only carries the display name; there is no account system behind it.
func GenerateTeacherToken(username string) (string, error) {
	claims := &TeacherClaims{
		Username: username,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(24 * time.Hour).Unix(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(os.Getenv("SECRET_KEY")))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// ValidateTeacherToken parses a token and returns its claims, or a non-empty
// error message when the token is invalid or expired.
func ValidateTeacherToken(tokenString string) (*TeacherClaims, string) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&TeacherClaims{},
		func(token *jwt.Token) (interface{}, error) {
			return []byte(os.Getenv("SECRET_KEY")), nil
		},
	)
	if err != nil {
		return nil, err.Error()
	}

	claims, ok := token.Claims.(*TeacherClaims)
	if !ok || !token.Valid {
		return nil, "token is invalid"
	}
	if claims.ExpiresAt < time.Now().Unix() {
		return nil, "token is expired"
	}
	return claims, ""
}
