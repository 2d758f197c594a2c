package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/mateusmacedo/go-railway/internal/identity"
)

// token emite um bearer token de desenvolvimento, no lugar do provedor de
// login externo.
func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	var (
		userID string
		name   string
		admin  bool
		ttl    time.Duration
		secret string
		issuer string
	)

	defaultIssuer := os.Getenv("JWT_ISSUER")
	if defaultIssuer == "" {
		defaultIssuer = "railway-bff"
	}

	flagSet := pflag.NewFlagSet("token", pflag.ContinueOnError)
	flagSet.StringVarP(&userID, "user", "u", "", "user id carried in the token subject (required)")
	flagSet.StringVar(&name, "name", "", "display name")
	flagSet.BoolVar(&admin, "admin", false, "grant the administrator flag")
	flagSet.DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	flagSet.StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "HMAC secret (default $JWT_SECRET)")
	flagSet.StringVar(&issuer, "issuer", defaultIssuer, "token issuer (default $JWT_ISSUER)")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if userID == "" {
		return errors.New("--user is required")
	}
	if ttl <= 0 {
		return errors.New("--ttl must be positive")
	}

	authority, err := identity.NewJWTAuthority(secret, issuer, time.Now)
	if err != nil {
		return err
	}
	token, err := authority.Issue(identity.Identity{UserID: userID, Name: name, IsAdmin: admin}, ttl)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, token)
	return err
}
