package utils

import (
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
)

func CreateJWTToken(customerID string, name string, jwtSecretKey string) (string, error) {
	claims := jwt.MapClaims{}
	claims["authorized"] = true
	claims["customerID"] = customerID
	claims["name"] = name
	claims["exp"] = time.Now().Add(time.Hour * 24).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecretKey))
}

// ExtractTokenCustomer returns the customer id carried by the validated token,
// or an empty string when the route is not behind the JWT middleware.
func ExtractTokenCustomer(c echo.Context) string {
	user, ok := c.Get("user").(*jwt.Token)
	if !ok || !user.Valid {
		return ""
	}

	claims, ok := user.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}

	customerID, _ := claims["customerID"].(string)
	return customerID
}
