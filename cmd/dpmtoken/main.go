// dpmtoken issues and revokes API access tokens out of band. Accounts and
// sessions are managed elsewhere; this tool exists for operators and for
// wiring up clients in development.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/airfork/uts-dpm-sub000/config"
	"github.com/airfork/uts-dpm-sub000/pkg/jwt"
	"github.com/airfork/uts-dpm-sub000/pkg/logger"
	"github.com/airfork/uts-dpm-sub000/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (default: ./config/config.yaml)")
	userID := flag.Int("user", 0, "user id to issue a token for")
	role := flag.String("role", "driver", "role claim: admin, manager, supervisor, or driver")
	revoke := flag.String("revoke", "", "token to revoke instead of issuing one")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	manager := jwt.NewManager(&cfg.Auth)

	if *revoke != "" {
		if err := revokeToken(cfg, manager, *revoke); err != nil {
			log.Fatalf("revoking token: %v", err)
		}
		fmt.Println("token revoked")
		return
	}

	if *userID <= 0 {
		fmt.Fprintln(os.Stderr, "either -user or -revoke is required")
		flag.Usage()
		os.Exit(2)
	}

	token, err := manager.GenerateAccessToken(*userID, *role)
	if err != nil {
		log.Fatalf("issuing token: %v", err)
	}
	fmt.Println(token)
}

func revokeToken(cfg *config.Config, manager *jwt.Manager, token string) error {
	zl, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer zl.Sync() //nolint:errcheck

	claims, err := manager.ParseToken(token)
	if err != nil {
		return fmt.Errorf("parsing token: %w", err)
	}
	if claims.ID == "" {
		return fmt.Errorf("token carries no id claim")
	}

	rdb, err := redis.NewClient(&cfg.Redis, zl)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer rdb.Close()

	// Blacklist until the token would have expired anyway.
	ttl := cfg.Auth.AccessTokenTTL
	if claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
			ttl = remaining
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return rdb.BlacklistToken(ctx, claims.ID, ttl)
}
