// Command invoice_runner issues a period's assessment invoices from a
// schedule CSV (owner_id,unit_id,revenue_account_id,description,amount).
// Each row becomes one invoice dated the first of the period. With
// --dry-run every row is validated but nothing is committed.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/shopspring/decimal"

	portssvc "github.com/hoaops/hoa_ledger_app/internal/core/ports/services"
	"github.com/hoaops/hoa_ledger_app/internal/core/services"
	"github.com/hoaops/hoa_ledger_app/internal/dto"
	"github.com/hoaops/hoa_ledger_app/internal/middleware"
	"github.com/hoaops/hoa_ledger_app/internal/platform/config"
	"github.com/hoaops/hoa_ledger_app/internal/repositories/database/pgsql"
	"github.com/hoaops/hoa_ledger_app/pkg/database"
)

// scheduleCSVColumns is the expected header of a schedule file.
const scheduleCSVColumns = "owner_id,unit_id,revenue_account_id,description,amount"

func main() {
	tenantID := flag.String("tenant", "", "tenant ID to run against (required)")
	period := flag.String("period", "", "billing period YYYY-MM (required)")
	input := flag.String("input", "", "path to the schedule CSV (required)")
	dueDays := flag.Int("due-days", 15, "days after the invoice date the invoices fall due")
	dryRun := flag.Bool("dry-run", false, "validate every row without committing")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if *tenantID == "" || *period == "" || *input == "" {
		fmt.Fprintln(os.Stderr, "missing required flags: --tenant, --period, --input")
		flag.Usage()
		os.Exit(2)
	}

	invoiceDate, err := time.Parse("2006-01", *period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --period %q, expected YYYY-MM: %v\n", *period, err)
		os.Exit(2)
	}
	dueDate := invoiceDate.AddDate(0, 0, *dueDays)

	file, err := os.Open(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open schedule: %v\n", err)
		os.Exit(2)
	}
	defer file.Close()

	requests, err := readSchedule(file, *period, invoiceDate, dueDate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read schedule: %v\n", err)
		os.Exit(2)
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

	failed := run(ctx, serviceContainer.Invoice, *tenantID, requests, *dryRun)

	if failed > 0 {
		os.Exit(1)
	}
}

// run issues (or, for a dry run, validates) each request, reporting per-row
// outcomes. One failed row never aborts the batch.
func run(ctx context.Context, invoiceSvc portssvc.InvoiceSvcFacade, tenantID string, requests []dto.IssueInvoiceRequest, dryRun bool) int {
	issued, failed := 0, 0
	for i, req := range requests {
		if dryRun {
			if err := invoiceSvc.ValidateInvoice(ctx, tenantID, req); err != nil {
				fmt.Printf("row %d\t%s\tinvalid\t%v\n", i+1, req.OwnerID, err)
				failed++
				continue
			}
			fmt.Printf("row %d\t%s\tok\n", i+1, req.OwnerID)
			issued++
			continue
		}

		invoice, err := invoiceSvc.IssueInvoice(ctx, tenantID, req, "invoice_runner")
		if err != nil {
			fmt.Printf("row %d\t%s\tfailed\t%v\n", i+1, req.OwnerID, err)
			failed++
			continue
		}
		fmt.Printf("row %d\t%s\tissued\t%d\n", i+1, req.OwnerID, invoice.InvoiceNumber)
		issued++
	}
	fmt.Printf("issued=%d failed=%d dryRun=%v\n", issued, failed, dryRun)
	return failed
}

// readSchedule parses the schedule CSV into one single-line invoice request
// per row. Structural failures reject the whole file before anything posts.
func readSchedule(r io.Reader, period string, invoiceDate, dueDate time.Time) ([]dto.IssueInvoiceRequest, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 5
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if joined := fmt.Sprintf("%s,%s,%s,%s,%s", header[0], header[1], header[2], header[3], header[4]); joined != scheduleCSVColumns {
		return nil, fmt.Errorf("unexpected CSV header, want %q", scheduleCSVColumns)
	}

	var requests []dto.IssueInvoiceRequest
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}

		amount, err := decimal.NewFromString(record[4])
		if err != nil {
			return nil, fmt.Errorf("invalid amount on line %d: %w", line, err)
		}

		requests = append(requests, dto.IssueInvoiceRequest{
			OwnerID:     record[0],
			UnitID:      record[1],
			InvoiceDate: invoiceDate,
			DueDate:     dueDate,
			Description: fmt.Sprintf("%s assessment %s", record[3], period),
			Lines: []dto.InvoiceLineRequest{{
				RevenueAccountID: record[2],
				Description:      record[3],
				Amount:           amount,
			}},
		})
	}
	return requests, nil
}
