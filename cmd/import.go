package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/kozaktomas/face-clock/internal/attendance"
	"github.com/kozaktomas/face-clock/internal/config"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Bulk-enroll workers from a JSON export",
	Long: `Enrolls workers from a JSON file containing an array of records:

  [{"identifier": "12345678901", "display_name": "Ana", "role": "Operator",
    "embedding": [0.1, ...]}, ...]

Records that fail enrollment (duplicate identifier, duplicate face, invalid
identifier) are reported and skipped; the rest are committed.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

// importRecord mirrors the enrollment API payload.
type importRecord struct {
	Identifier  string    `json:"identifier"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	Embedding   []float64 `json:"embedding"`
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	var records []importRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to parse import file: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("Nothing to import")
		return nil
	}

	cfg := config.Load()
	engine, cleanup, err := openEngine(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	bar := progressbar.NewOptions(len(records),
		progressbar.OptionSetDescription("Enrolling workers"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("workers"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionFullWidth(),
	)

	var enrolled, skipped int
	var failures []string
	for _, rec := range records {
		err := engine.Enroll(cmd.Context(), rec.Identifier, rec.DisplayName, rec.Role, rec.Embedding)
		switch {
		case err == nil:
			enrolled++
		case errors.Is(err, attendance.ErrDuplicateIdentifier),
			errors.Is(err, attendance.ErrDuplicateFace),
			errors.Is(err, attendance.ErrInvalidIdentifier):
			skipped++
			failures = append(failures, fmt.Sprintf("%s: %v", rec.Identifier, err))
		default:
			// Storage faults abort the import; retrying enrollment is safe.
			bar.Finish()
			return fmt.Errorf("import aborted at %s: %w", rec.Identifier, err)
		}
		bar.Add(1)
	}
	bar.Finish()

	fmt.Printf("\n\nEnrolled: %d, skipped: %d\n", enrolled, skipped)
	for _, f := range failures {
		fmt.Printf("  skipped %s\n", f)
	}
	return nil
}
