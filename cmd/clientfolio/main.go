package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/clientfolio/internal/app"
	"github.com/ternarybob/clientfolio/internal/common"
	"github.com/ternarybob/clientfolio/internal/interfaces"
	"github.com/ternarybob/clientfolio/internal/models"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	// Command-line flags
	configFiles  configPaths // Multiple -config flags supported
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")

	// Global state
	config *common.Config
	logger arbor.ILogger
)

func init() {
	// Register custom flag for multiple config files
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: clientfolio [flags] <command> [command flags]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  ingest    Load fund ratings from a spreadsheet and linked fact sheets\n")
	fmt.Fprintf(os.Stderr, "  report    Compose a client feedback PDF report\n\n")
	fmt.Fprintf(os.Stderr, "Flags:\n")
	flag.PrintDefaults()
}

func main() {
	// Parse command-line flags
	flag.Usage = usage
	flag.Parse()

	// Handle version flag
	if *showVersion || *showVersionV {
		fmt.Printf("Clientfolio version %s\n", common.GetVersion())
		os.Exit(0)
	}

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	// Startup sequence (REQUIRED ORDER):
	// 1. Load config (defaults -> file1 -> file2 -> ... -> env)
	// 2. Initialize logger
	// 3. Print banner
	var err error

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("clientfolio.toml"); err == nil {
			configFiles = append(configFiles, "clientfolio.toml")
		}
	}

	// 1. Load configuration (default -> file1 -> file2 -> ... -> env)
	// Later config files override earlier ones
	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		// Use temporary logger for startup errors
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	// 2. Initialize logger with final configuration
	logger = common.InitLogger(config)

	// 3. Print banner
	common.PrintBanner(common.GetVersion())

	logger.Info().
		Strs("config_files", configFiles).
		Str("environment", config.Environment).
		Msg("Application configuration loaded")

	// Initialize application
	application, err := app.New(config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	// Cancel in-flight work on interrupt
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	command := flag.Arg(0)
	args := flag.Args()[1:]

	switch command {
	case "ingest":
		err = runIngest(ctx, application, args)
	case "report":
		err = runReport(ctx, application, args)
	default:
		logger.Error().Str("command", command).Msg("Unknown command")
		usage()
		os.Exit(2)
	}

	if err != nil {
		logger.Fatal().Str("command", command).Err(err).Msg("Command failed")
	}
}

// runIngest parses a ratings spreadsheet, merges matched rows into the
// client's ratings map and optionally follows fact sheet links.
func runIngest(ctx context.Context, application *app.App, args []string) error {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	clientFile := fs.String("client", "", "Path to the client profile JSON file")
	sheetFile := fs.String("spreadsheet", "", "Path to the ratings spreadsheet (xlsx)")
	factSheets := fs.Bool("factsheets", false, "Also fetch and parse linked fund fact sheets")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *clientFile == "" || *sheetFile == "" {
		fs.Usage()
		return fmt.Errorf("ingest requires -client and -spreadsheet")
	}

	client, err := loadClient(*clientFile)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(*sheetFile)
	if err != nil {
		return fmt.Errorf("failed to read spreadsheet: %w", err)
	}

	rows, err := application.SpreadsheetParser.Parse(data)
	if err != nil {
		return fmt.Errorf("failed to parse spreadsheet: %w", err)
	}

	if err := application.LoadSession(ctx, client.IDNumber); err != nil {
		return err
	}

	entries := allEntries(client)

	result, err := application.SpreadsheetIngestor.Ingest(ctx, rows, entries)
	if err != nil {
		return err
	}
	application.Logger.Info().
		Int("rows", result.Rows).
		Int("matched", result.Matched).
		Int("skipped", result.Skipped).
		Msg("Spreadsheet ingestion complete")

	if *factSheets {
		result, err = application.FactSheetIngestor.Ingest(ctx, rows, entries)
		if err != nil {
			return err
		}
		application.Logger.Info().
			Int("rows", result.Rows).
			Int("matched", result.Matched).
			Int("failed", result.Failed).
			Msg("Fact sheet ingestion complete")
	}

	return nil
}

// runReport composes the client feedback PDF and writes it to disk.
func runReport(ctx context.Context, application *app.App, args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	clientFile := fs.String("client", "", "Path to the client profile JSON file")
	entityID := fs.String("entity", "", "Entity id to fetch from the profile platform instead of a file")
	reference := fs.String("reference", "", "Reference number for the profile fetch")
	outFile := fs.String("out", "", "Output PDF path (defaults to <client id>.pdf)")
	currency := fs.String("currency", "", "Report currency code (overrides config)")
	irr := fs.Float64("irr", 0, "Target return percentage shown on the header page (overrides config)")
	noContributions := fs.Bool("no-contributions", false, "Exclude the contributions section")
	noWithdrawals := fs.Bool("no-withdrawals", false, "Exclude the ad hoc withdrawals section")
	noRegular := fs.Bool("no-regular-withdrawals", false, "Exclude the regular withdrawals section")
	noInteractions := fs.Bool("no-interactions", false, "Exclude the interaction history section")
	noPercentage := fs.Bool("no-percentage", false, "Exclude the performance percentages section")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var client *models.ClientRecord
	var err error
	switch {
	case *clientFile != "":
		client, err = loadClient(*clientFile)
	case *entityID != "":
		client, err = fetchClient(ctx, application, *entityID, *reference, *currency)
	default:
		fs.Usage()
		return fmt.Errorf("report requires -client or -entity")
	}
	if err != nil {
		return err
	}

	if err := application.LoadSession(ctx, client.IDNumber); err != nil {
		return err
	}

	options := models.NewReportOptions()
	options.Currency = application.Config.Report.Currency
	options.IRR = application.Config.Report.IRR
	if *currency != "" {
		options.Currency = *currency
	}
	if *irr != 0 {
		options.IRR = *irr
	}
	options.Contributions = !*noContributions
	options.Withdrawals = !*noWithdrawals
	options.RegularWithdrawals = !*noRegular
	options.InteractionHistory = !*noInteractions
	options.IncludePercentage = !*noPercentage

	document, err := application.ReportComposer.Compose(client, nil, application.Ratings.Snapshot(), options)
	if err != nil {
		return err
	}

	path := *outFile
	if path == "" {
		path = client.IDNumber + ".pdf"
	}
	if err := os.WriteFile(path, document.PDF, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	application.Logger.Info().
		Str("report_id", document.ID).
		Str("path", path).
		Int("pages", document.PageCount).
		Msg("Report written")

	return nil
}

// fetchClient pulls the client snapshot from the upstream platform. The
// transaction window is open-ended back to the epoch so the full history
// feeds the report sections.
func fetchClient(ctx context.Context, application *app.App, entityID, reference, currency string) (*models.ClientRecord, error) {
	if application.ProfileService == nil {
		return nil, fmt.Errorf("profile platform is not configured, set profile.base_url")
	}
	if currency == "" {
		currency = application.Config.Report.Currency
	}

	now := time.Now()
	return application.ProfileService.GetClientProfile(ctx, interfaces.ProfileRequest{
		TransactionDateStart: time.Unix(0, 0),
		TransactionDateEnd:   now,
		TargetCurrency:       currency,
		ValueDates:           []time.Time{now},
		InputEntityModels: []interfaces.ProfileEntitySpec{
			{EntityID: entityID, ReferenceNumber: reference},
		},
	})
}

func loadClient(path string) (*models.ClientRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read client profile: %w", err)
	}
	var client models.ClientRecord
	if err := json.Unmarshal(data, &client); err != nil {
		return nil, fmt.Errorf("failed to parse client profile: %w", err)
	}
	return &client, nil
}

func allEntries(client *models.ClientRecord) []models.PortfolioEntry {
	var entries []models.PortfolioEntry
	for i := range client.Portfolios {
		entries = append(entries, client.Portfolios[i].LeafEntries()...)
	}
	return entries
}
