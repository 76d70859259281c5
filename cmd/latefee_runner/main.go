// Command latefee_runner applies a tenant's late-fee policy across its
// overdue invoices from the command line. With --dry-run it reports what
// would be charged without committing anything.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hoaops/hoa_ledger_app/internal/core/services"
	"github.com/hoaops/hoa_ledger_app/internal/middleware"
	"github.com/hoaops/hoa_ledger_app/internal/platform/config"
	"github.com/hoaops/hoa_ledger_app/internal/repositories/database/pgsql"
	"github.com/hoaops/hoa_ledger_app/pkg/database"
)

func main() {
	tenantID := flag.String("tenant", "", "tenant ID to run against (required)")
	asOfDate := flag.String("as-of-date", "", "assessment date YYYY-MM-DD (default today)")
	dryRun := flag.Bool("dry-run", false, "compute fees without committing")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if *tenantID == "" {
		fmt.Fprintln(os.Stderr, "missing required flag: --tenant")
		flag.Usage()
		os.Exit(2)
	}

	asOf := time.Now().UTC()
	if *asOfDate != "" {
		parsed, err := time.Parse("2006-01-02", *asOfDate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid --as-of-date %q: %v\n", *asOfDate, err)
			os.Exit(2)
		}
		asOf = parsed
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := middleware.WithLogger(context.Background(), logger)

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(&repos, cfg.DefaultLateFeePolicy())

	summary, err := serviceContainer.Invoice.RunLateFees(ctx, *tenantID, asOf, *dryRun, "latefee_runner")
	if err != nil {
		logger.Error("Late-fee run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	for _, result := range summary.Results {
		if result.Applied {
			fmt.Printf("%s\tapplied\t%s\n", result.InvoiceID, result.Fee.StringFixed(2))
		} else {
			fmt.Printf("%s\tskipped\t%s\n", result.InvoiceID, result.Reason)
		}
	}
	fmt.Printf("applied=%d skipped=%d failed=%d dryRun=%v\n",
		summary.Applied, summary.Skipped, summary.Failed, summary.DryRun)

	if summary.Failed > 0 {
		os.Exit(1)
	}
}
