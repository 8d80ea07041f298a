package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/studywatch/internal/analytics"
	"github.com/blackwell-systems/studywatch/internal/export"
	"github.com/blackwell-systems/studywatch/internal/logger"
)

var (
	exportOut     string
	exportRange   string
	exportMonth   string
	exportPremium bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a versioned JSON summary",
	Long: `Write a flat, versioned JSON summary of a report for use by other
tools. The field names are stable across releases; new fields may be added
with a schema_version bump.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportRange, "range", "", "Time range: week, month, or all (default from config)")
	exportCmd.Flags().StringVar(&exportMonth, "month", "", "Month to export, as YYYY-MM (implies --range month)")
	exportCmd.Flags().BoolVar(&exportPremium, "premium", false, "Include premium scores")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	opts, err := resolveOptions(cfg, exportRange, exportMonth, exportPremium)
	if err != nil {
		return err
	}

	set, err := loadRecords(cmd.Context(), db)
	if err != nil {
		return err
	}

	summary := export.Summarize(analytics.Build(buildInput(cfg, set, opts)))

	if exportOut == "" {
		return export.Write(os.Stdout, summary)
	}
	if err := writeFile(exportOut, func(w io.Writer) error { return export.Write(w, summary) }); err != nil {
		return err
	}
	logger.Debug("export written", "path", exportOut, "schema_version", summary.SchemaVersion)
	fmt.Printf("Wrote %s summary to %s\n", summary.Range, exportOut)
	return nil
}

// writeFile writes through a temporary file in the same directory and
// renames it into place, so readers never see a partial file.
func writeFile(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".studywatch-*")
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
