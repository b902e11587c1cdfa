// Command ledger_token mints a bearer token for calling the ledger API, signed with the
// service's configured JWT_SECRET.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/ledger_posting_service/internal/platform/config"
	"github.com/SscSPs/ledger_posting_service/internal/utils"
	"github.com/spf13/pflag"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	subject := pflag.StringP("subject", "s", "", "actor recorded on postings (required)")
	ttl := pflag.DurationP("ttl", "t", time.Hour, "token lifetime")
	issuer := pflag.String("issuer", "ledger-posting-service", "token issuer")
	pflag.Parse()

	if *subject == "" {
		pflag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	token, err := utils.GenerateJWT(*subject, cfg.JWTSecret, *ttl, *issuer)
	if err != nil {
		logger.Error("Failed to sign token", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Println(token)
}
