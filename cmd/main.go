package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"unicode/utf8"

	"sales-records/internal/config"
	"sales-records/internal/domain/records"
	"sales-records/internal/domain/sale"
	"sales-records/internal/infrastructure/filestore"
	"sales-records/internal/infrastructure/logging"
	"sales-records/internal/shell"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "sales-records [customers_file sales_file]",
		Short: "Manage customer and sales records interactively",
		Long: `Load customer and sales records from CSV or XLSX files, add, search and
delete records from a menu, and save them back.

When both file paths are given they are used by the load menu item instead of
asking for them.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("expected no arguments or both customers_file and sales_file, got %d", len(args))
			}
			return nil
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := initializeApp(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			if len(args) == 2 {
				cfg.Files.Customers, cfg.Files.Sales = args[0], args[1]
			}

			sh, err := initializeShell(cfg, cmd, logger)
			if err != nil {
				logger.Error("Failed to initialize", "error", err)
				return err
			}
			if err := sh.Run(cmd.Context()); err != nil {
				logger.Error("Session aborted", "error", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", ".", "config directory, or path to a .yml/.yaml file")
	cmd.Flags().String("log-level", "warn", "log level (debug, info, warn, error)")
	cmd.Flags().String("log-format", "console", "log format (console, json)")
	cmd.SetContext(context.Background())
	return cmd
}

func initializeApp(configPath string, flags *pflag.FlagSet) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig(configPath, flags)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return nil, nil, err
	}

	logger := logging.WithSession(logging.NewLogger(cfg.Logger))
	logger.Info("Application starting...", "config_path", configPath)
	return cfg, logger, nil
}

func initializeShell(cfg *config.Config, cmd *cobra.Command, logger *slog.Logger) (*shell.Shell, error) {
	delimiter, err := parseDelimiter(cfg.Files.Delimiter)
	if err != nil {
		return nil, err
	}

	repo := filestore.NewRepository(delimiter, logger)
	store := records.NewStore(repo, storeOptions(cfg), logger)

	return shell.New(store, cmd.InOrStdin(), cmd.OutOrStdout(), shell.Options{
		CustomersFile: cfg.Files.Customers,
		SalesFile:     cfg.Files.Sales,
		Categories:    cfg.Sales.Categories,
	}, logger), nil
}

func storeOptions(cfg *config.Config) records.Options {
	c, s := cfg.Schema.Customers, cfg.Schema.Sales
	return records.Options{
		Schema: records.Schema{
			Customers: records.CustomerColumns{ID: c.ID, Name: c.Name, Postcode: c.Postcode, Phone: c.Phone},
			Sales: records.SaleColumns{
				ID:         s.ID,
				CustomerID: s.CustomerID,
				Date:       s.Date,
				Category:   s.Category,
				Value:      s.Value,
			},
		},
		MinCustomerID: cfg.Records.MinCustomerID,
		MinSaleID:     cfg.Records.MinSaleID,
		Categories:    sale.Categories(cfg.Sales.Categories),
	}
}

func parseDelimiter(s string) (rune, error) {
	if s == "" {
		return ',', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("files.delimiter must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("files.delimiter cannot be %q", s)
	}
	return r, nil
}
