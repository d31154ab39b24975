// Package main creates trader accounts and issues or rotates their sync tokens.
//
// Usage:
//
//	account -email trader@example.com
//	account -account-id <id>            # print token, issuing one if missing
//	account -account-id <id> -rotate    # revoke and reissue
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"skillion-sdi/internal/accountsync"
	"skillion-sdi/internal/config"
	"skillion-sdi/internal/storage"
	"skillion-sdi/internal/storage/memory"
	"skillion-sdi/internal/storage/migrations"
	pgstore "skillion-sdi/internal/storage/postgres"
)

type accountOutput struct {
	AccountID string `json:"accountId"`
	Email     string `json:"email,omitempty"`
	SyncToken string `json:"syncToken"`
}

func main() {
	env, err := config.LoadEnv(config.DefaultEnvFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading environment: %v\n", err)
		os.Exit(1)
	}

	// Parse flags (env values as defaults)
	postgresDSN := flag.String("postgres-dsn", env.PostgresDSN, "PostgreSQL connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage (dry run)")
	email := flag.String("email", "", "Create a new account with this email")
	accountID := flag.String("account-id", "", "Existing account ID")
	rotate := flag.Bool("rotate", false, "Rotate the sync token of -account-id")
	timeout := flag.Duration("timeout", 30*time.Second, "Operation timeout")
	flag.Parse()

	// Validate flags
	if (*email == "") == (*accountID == "") {
		fmt.Fprintln(os.Stderr, "Error: exactly one of --email or --account-id is required")
		os.Exit(1)
	}
	if !*useMemory && *postgresDSN == "" {
		fmt.Fprintln(os.Stderr, "Error: --postgres-dsn is required (use --use-memory for a dry run)")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	accounts, cleanup, err := createAccountStore(ctx, *postgresDSN, *useMemory)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	out, err := run(ctx, accountsync.NewTokens(accounts), accounts, *email, *accountID, *rotate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cleanup()
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}

func run(ctx context.Context, tokens *accountsync.Tokens, accounts storage.AccountStore, email, accountID string, rotate bool) (*accountOutput, error) {
	if email != "" {
		a, err := tokens.Register(ctx, email)
		if err != nil {
			return nil, err
		}
		return &accountOutput{AccountID: a.AccountID, Email: a.Email, SyncToken: a.SyncToken}, nil
	}

	var (
		token string
		err   error
	)
	if rotate {
		token, err = tokens.Rotate(ctx, accountID)
	} else {
		token, err = tokens.GetOrCreate(ctx, accountID)
	}
	if err != nil {
		return nil, err
	}

	a, err := accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &accountOutput{AccountID: a.AccountID, Email: a.Email, SyncToken: token}, nil
}

// createAccountStore opens the account store, running postgres migrations first.
func createAccountStore(ctx context.Context, postgresDSN string, useMemory bool) (storage.AccountStore, func(), error) {
	if useMemory {
		return memory.NewAccountStore(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	return pgstore.NewAccountStore(pool), pool.Close, nil
}
