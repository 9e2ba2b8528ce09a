package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/erazemk/sredstva/internal/db"
	"github.com/erazemk/sredstva/internal/export"
	"github.com/erazemk/sredstva/internal/model"
	"github.com/erazemk/sredstva/internal/store"
)

// NewExportCommand writes the asset register to a file without going
// through the HTTP API.
func NewExportCommand(root *RootOptions) *cobra.Command {
	var dbURL, out string

	cmd := &cobra.Command{
		Use:       "export csv|pdf",
		Short:     "Export all assets as CSV or PDF",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"csv", "pdf"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbURL == "" {
				dbURL = root.cfg.DatabaseURL
			}

			database, err := db.Open(dbURL)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := db.EnsureSchema(database); err != nil {
				return err
			}

			assets, err := store.ListAssets(cmd.Context(), database, store.AssetFilter{})
			if err != nil {
				return err
			}

			if out == "" {
				out = defaultExportName(args[0])
			}
			var w io.Writer = cmd.OutOrStdout()
			if out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("creating %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}

			if err := writeExport(w, args[0], assets, time.Now()); err != nil {
				return err
			}
			if out != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d assets to %s\n", len(assets), out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dbURL, "db", "d", "", "database url (default: from config)")
	cmd.Flags().StringVarP(&out, "out", "o", "", `output file, "-" for stdout (default: assets.csv or assets.pdf)`)

	return cmd
}

func defaultExportName(format string) string {
	if format == "pdf" {
		return export.PDFFilename
	}
	return export.CSVFilename
}

func writeExport(w io.Writer, format string, assets []model.Asset, now time.Time) error {
	switch format {
	case "csv":
		return export.WriteCSV(w, assets)
	case "pdf":
		return export.WritePDF(w, assets, now)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}
