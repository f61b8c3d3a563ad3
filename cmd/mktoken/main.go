// Package main mints bearer tokens for the authenticated role. Operators use
// it to produce credentials for the destructive endpoints; the API server
// itself never mints, only verifies.
//
// Usage:
//
//	AUTH_JWT_SECRET=... mktoken -subject ops@campus -ttl 24h
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/campusai/go-tutor-backend/internal/auth"
)

func main() {
	subject := flag.String("subject", "ops", "token subject (who the credential is for)")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()
	secret := os.Getenv("AUTH_JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "mktoken: AUTH_JWT_SECRET is not set")
		os.Exit(2)
	}

	token, err := auth.Mint(secret, *subject, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mktoken: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
