package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/studywatch/internal/logger"
	"github.com/blackwell-systems/studywatch/internal/output"
	"github.com/blackwell-systems/studywatch/internal/records"
	"github.com/blackwell-systems/studywatch/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import <file|dir>",
	Short: "Load sessions, tasks, and subjects from JSON",
	Long: `Import a JSON document of the form
  {"sessions": [...], "tasks": [...], "subjects": [...]}
or every *.json file in a directory. Unreadable files in a directory are
skipped with a warning. Records whose ID is already stored are skipped, so
importing the same export twice is safe.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	_, db, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	res, err := importPath(db, args[0])
	if err != nil {
		return err
	}

	if flagJSON {
		return writeJSON(os.Stdout, res)
	}

	fmt.Printf("%s %d sessions, %d tasks, %d subjects",
		output.StyleSuccess.Render("Imported"), res.Sessions, res.Tasks, res.Subjects)
	if res.Skipped > 0 {
		fmt.Printf(" %s", output.StyleMuted.Render(fmt.Sprintf("(%d already present)", res.Skipped)))
	}
	fmt.Println()
	return nil
}

// importPath parses a file or directory and stores its records.
func importPath(db *store.DB, path string) (store.ImportResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return store.ImportResult{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var set *records.Set
	if info.IsDir() {
		var skipped []string
		set, skipped, err = records.ParseDir(path)
		for _, name := range skipped {
			logger.Warn("skipping unreadable file", "dir", path, "file", name)
		}
	} else {
		set, err = records.ParseFile(path)
	}
	if err != nil {
		return store.ImportResult{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	logger.Debug("parsed records", "path", path,
		"sessions", len(set.Sessions), "tasks", len(set.Tasks), "subjects", len(set.Subjects))

	res, err := db.Import(set)
	if err != nil {
		return res, fmt.Errorf("importing %s: %w", path, err)
	}
	return res, nil
}
