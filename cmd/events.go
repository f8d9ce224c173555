package cmd

import (
	"fmt"

	"github.com/kozaktomas/face-clock/internal/config"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events [identifier]",
	Short: "Show the attendance report",
	Long: `Shows attendance events, newest first. With an identifier argument only
that worker's history is shown. Timestamps are stored in UTC and rendered
in the configured report timezone.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEvents,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	engine, cleanup, err := openEngine(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	loc := reportLocation(cfg)
	const layout = "2006-01-02 15:04:05"

	if len(args) == 1 {
		events, err := engine.ListEvents(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to list events: %w", err)
		}
		fmt.Printf("%-20s %s\n", "TIME", "DIRECTION")
		for _, ev := range events {
			fmt.Printf("%-20s %s\n", ev.RecordedAt.In(loc).Format(layout), ev.Direction)
		}
		fmt.Printf("\nTotal: %d\n", len(events))
		return nil
	}

	records, err := engine.Report(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	fmt.Printf("%-20s %-13s %-30s %s\n", "TIME", "IDENTIFIER", "NAME", "DIRECTION")
	for _, rec := range records {
		fmt.Printf("%-20s %-13s %-30s %s\n",
			rec.RecordedAt.In(loc).Format(layout), rec.Identifier, rec.DisplayName, rec.Direction)
	}
	fmt.Printf("\nTotal: %d (timezone %s)\n", len(records), loc)
	return nil
}
