//go:build ignore

// This script generates a bearer token for local API testing.
// Run with: go run scripts/generate-jwt.go
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/auth"
)

func main() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "devSecret123456789012345678901234"
	}

	issuer := os.Getenv("JWT_ISSUER")
	if issuer == "" {
		issuer = "cryptoanalyst-api"
	}

	userID := os.Getenv("USER_ID")
	if userID == "" {
		userID = "00000000-0000-0000-0000-000000000001"
	}

	validator := auth.NewJWTValidator(secret, issuer)
	token, err := validator.IssueToken(userID, time.Hour)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=== API Bearer Token ===")
	fmt.Println()
	fmt.Println(token)
	fmt.Println()
	fmt.Println("To use this token:")
	fmt.Println(`  curl -H "Authorization: Bearer <token>" http://localhost:8080/users/me`)
}
