package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/rsvp/internal/app"
	"github.com/mmynk/rsvp/internal/auth"
	"github.com/mmynk/rsvp/internal/config"
	"github.com/mmynk/rsvp/internal/csvio"
	"github.com/mmynk/rsvp/internal/models"
	"github.com/mmynk/rsvp/internal/rsvp"
	"github.com/mmynk/rsvp/pkg/logging"
)

type rootOptions struct {
	configPath string
	logLevel   string
	legacy     bool
}

func rootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Manage the wedding guest list",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupWithLevel(logging.ParseLevel(opts.logLevel))
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", os.Getenv("RSVP_CONFIG"), "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&opts.legacy, "legacy", false, "Operate on legacy guests instead of parties")

	cmd.AddCommand(
		importCmd(opts),
		exportCmd(opts),
		statsCmd(opts),
		migrateCmd(opts),
		tokenCmd(opts),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)
	return cmd
}

// withApp loads configuration, opens the store and runs fn.
func withApp(ctx context.Context, opts *rootOptions, fn func(*app.App) error) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.legacy {
		cfg.RSVP.Schema = config.SchemaV1
	}

	a, err := app.Open(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func importCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Create parties (or legacy guests) from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			return withApp(cmd.Context(), opts, func(a *app.App) error {
				result, skipped, err := runImport(cmd.Context(), a, f)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Imported %d of %d rows\n", result.SuccessCount, result.Total)
				if len(skipped) > 0 {
					fmt.Fprintf(out, "Skipped lines without a name: %v\n", skipped)
				}
				if batchErr := result.Err(); batchErr != nil {
					var be *models.BatchError
					if errors.As(batchErr, &be) {
						for _, line := range be.Summary(models.DefaultSummaryLimit) {
							fmt.Fprintf(out, "  %s\n", line)
						}
					}
					return batchErr
				}
				return nil
			})
		},
	}
}

func runImport(ctx context.Context, a *app.App, r io.Reader) (*rsvp.ImportResult, []int, error) {
	if a.UseLegacy() {
		batch, err := csvio.ReadLegacyImport(r)
		if err != nil {
			return nil, nil, err
		}
		result, err := a.Legacy.BulkImport(ctx, batch.Requests)
		return result, batch.Skipped, err
	}

	batch, err := csvio.ReadImport(r)
	if err != nil {
		return nil, nil, err
	}
	result, err := a.Parties.BulkImport(ctx, batch.Requests)
	return result, batch.Skipped, err
}

func exportCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the guest list as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(a *app.App) error {
				var (
					rows [][]string
					err  error
				)
				if a.UseLegacy() {
					rows, err = a.Legacy.ExportRows(cmd.Context())
				} else {
					rows, err = a.Parties.ExportRows(cmd.Context())
				}
				if err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				if output != "" && output != "-" {
					f, err := os.Create(output)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}
				return csvio.WriteCSV(w, rows)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output file, - for stdout")
	return cmd
}

func statsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print RSVP statistics as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(a *app.App) error {
				var (
					stats models.Stats
					err   error
				)
				if a.UseLegacy() {
					stats, err = a.Legacy.Statistics(cmd.Context())
				} else {
					stats, err = a.Parties.Statistics(cmd.Context())
				}
				if err != nil {
					return err
				}

				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(stats)
			})
		},
	}
}

func migrateCmd(opts *rootOptions) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Move legacy guests onto parties",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(a *app.App) error {
				out := cmd.OutOrStdout()

				if check {
					needed, err := a.Migrator.Needed(cmd.Context())
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Migration needed: %t\n", needed)
					return nil
				}

				report, err := a.Migrator.Run(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Migrated %d of %d legacy guests\n", report.Migrated, report.TotalProcessed)
				if batchErr := report.Err(); batchErr != nil {
					var be *models.BatchError
					if errors.As(batchErr, &be) {
						fmt.Fprintln(out, strings.Join(be.Summary(models.DefaultSummaryLimit), "\n"))
					}
					return batchErr
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Only report whether legacy guests remain")
	return cmd
}

func tokenCmd(opts *rootOptions) *cobra.Command {
	var subject string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an admin bearer token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if cfg.Admin.TokenSecret == "" {
				return errors.New("admin.token_secret is not configured")
			}

			tokens := auth.NewTokenManager(cfg.Admin.TokenSecret, cfg.Admin.TokenTTL)
			token, err := tokens.Generate(subject)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "planner", "Token subject")
	return cmd
}
