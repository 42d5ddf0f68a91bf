package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/GregMSThompson/mural-backend/internal/bootstrap"
	"github.com/GregMSThompson/mural-backend/internal/config"
	"github.com/GregMSThompson/mural-backend/internal/services"
	"github.com/GregMSThompson/mural-backend/internal/store"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(2)
	}
}

// audit checks one user's mural against the placement rules and prints the
// report as JSON. It exits 1 when any badge breaks a rule.
func main() {
	uid := flag.String("uid", "", "owner of the mural to audit")
	flag.Parse()
	if *uid == "" {
		fmt.Fprintln(os.Stderr, "usage: audit -uid <uid>")
		os.Exit(2)
	}

	ctx := context.Background()

	// bootstrap
	cfg, err := config.New()
	exitOnError("invalid config", err, slog.Default())
	bs, err := bootstrap.Run(ctx, cfg)
	exitOnError("bootstrap failed", err, bs.Log)

	// stores
	bstore := store.NewBadgeStore(bs.Firestore)

	// services
	mserv := services.NewMuralService(bstore, cfg.Grid)

	report, err := mserv.Audit(ctx, *uid)
	bs.Close()
	exitOnError("audit failed", err, bs.Log)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	exitOnError("write report", enc.Encode(report), bs.Log)

	if len(report.Violations) > 0 {
		os.Exit(1)
	}
}
