package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"golang-report-consensus/internal/report/config"
	"golang-report-consensus/internal/report/repository"
	"golang-report-consensus/internal/report/service"
	"golang-report-consensus/pkg/common"
	"golang-report-consensus/pkg/logger"
	"golang-report-consensus/pkg/postgres"
	"golang-report-consensus/pkg/telegram"
	"golang-report-consensus/pkg/utils"

	"github.com/spf13/cobra"
)

var (
	configPath  string
	reviewsPath string
)

var loadCSVCmd = &cobra.Command{
	Use:   "load-csv [reports.csv]",
	Short: "Ingest a report CSV export as one atomic batch",
	Args:  cobra.ExactArgs(1),
	Run:   runLoadCSV,
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Print stored reports, derived summaries and review coverage",
	Run:   runVerify,
}

func setup() (*config.Config, *logger.Logger, *postgres.DB) {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	db, err := postgres.NewDB(postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	return cfg, appLogger, db
}

func runLoadCSV(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	cfg, appLogger, db := setup()
	defer func() { _ = appLogger.Sync() }()

	var notifier telegram.Notifier
	if cfg.Telegram.Enabled {
		var err error
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	}

	records, err := service.NewCSVLoader(appLogger).LoadReports(args[0], reviewsPath)
	if err != nil {
		appLogger.Fatal("Failed to load CSV", logger.ErrorField(err))
	}

	store := repository.NewStore(db.DB)
	runsRepo := repository.NewIngestionRunsRepository(db.DB)
	ingestionSvc := service.NewIngestionService(cfg, store, runsRepo, appLogger, notifier)

	result, err := ingestionSvc.Ingest(ctx, common.IngestSourceCSV, records)
	if err != nil {
		appLogger.Fatal("Ingestion batch rolled back", logger.ErrorField(err))
	}

	fmt.Printf("Ingested %d of %d records (%d duplicates skipped)\n",
		result.ReportsInserted, result.RecordsAttempted, result.DuplicatesSkipped)
	fmt.Printf("New entities: %d stocks, %d brokers, %d authors\n",
		result.NewStocks, result.NewBrokers, result.NewAuthors)
}

func runVerify(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	_, appLogger, db := setup()
	defer func() { _ = appLogger.Sync() }()

	reportsRepo := repository.NewReportsRepository(db.DB)

	reports, err := reportsRepo.FindAllWithStock(ctx)
	if err != nil {
		appLogger.Fatal("Failed to read reports", logger.ErrorField(err))
	}
	fmt.Printf("Reports stored: %d\n", len(reports))

	reviewed := 0
	withURL := 0
	for _, report := range reports {
		if report.AttachmentURL == nil {
			continue
		}
		id := utils.ExtractReportID(*report.AttachmentURL)
		if id == "" {
			continue
		}
		withURL++
		exists, err := reportsRepo.ReviewExists(ctx, id)
		if err != nil {
			appLogger.Fatal("Failed to check review", logger.ErrorField(err))
		}
		if exists {
			reviewed++
		}
	}
	fmt.Printf("Reports with attachment URL: %d, reviewed: %d\n", withURL, reviewed)

	// Derive the consensus in memory from the stored rows. The output must
	// agree with the stock_summary view; any divergence means the view and
	// the stored data disagree.
	summaries := service.BuildStockSummaries(reports)
	fmt.Printf("Stocks with consensus coverage: %d\n", len(summaries))
	for _, s := range summaries {
		line := fmt.Sprintf("  %s %s rating=%s reports=%d", s.StockCode, s.StockName, s.MainRating, s.ReportCount)
		if s.AvgExpectedReturn != nil {
			line += fmt.Sprintf(" avg_return=%.2f%%", *s.AvgExpectedReturn)
		}
		if s.AvgFairPrice != nil {
			line += fmt.Sprintf(" avg_fair_price=%.0f", *s.AvgFairPrice)
		}
		fmt.Println(line)
	}
}

func main() {
	rootCmd := &cobra.Command{Use: "ingest"}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-report.yaml", "Path to the configuration file")
	loadCSVCmd.Flags().StringVar(&reviewsPath, "reviews", "", "Optional review CSV to merge by report id")

	rootCmd.AddCommand(loadCSVCmd, verifyCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing ingest CLI: %s\n", err)
		os.Exit(1)
	}
}
