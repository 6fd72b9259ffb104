package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Mints a session token for local testing:
//
//	go run ./cmd/utils -user u-123 -org org-1 -property prop-1
func main() {
	user := flag.String("user", "", "resident user id (sub claim)")
	org := flag.String("org", "", "organization id")
	property := flag.String("property", "", "property id")
	name := flag.String("name", "Test Resident", "resident display name")
	email := flag.String("email", "resident@example.com", "resident email")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *user == "" {
		log.Fatal("-user is required")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        *user,
		"orgId":      *org,
		"propertyId": *property,
		"name":       *name,
		"email":      *email,
		"iat":        now.Unix(),
		"exp":        now.Add(*ttl).Unix(),
	})

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("\nSession Token: %s\n\n", signed)
}
