package main

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func main() {
	secret := os.Getenv("API_JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "Error: API_JWT_SECRET environment variable must be set")
		fmt.Fprintln(os.Stderr, "Usage: API_JWT_SECRET=secret [SERVICE_NAME=snapchef] go run scripts/generate-jwt.go [subject]")
		os.Exit(1)
	}

	// Issuer must match the server's SERVICE_NAME
	issuer := os.Getenv("SERVICE_NAME")
	if issuer == "" {
		issuer = "snapchef"
	}

	subject := "local-dev"
	if len(os.Args) > 1 {
		subject = os.Args[1]
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(24 * time.Hour).Unix(),
		"iss": issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(tokenString)
}
