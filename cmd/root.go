package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "face-clock",
	Short: "An attendance tracker that identifies workers by face",
	Long: `Face Clock is an attendance tracker that identifies workers by facial
embedding instead of login credentials. Workers are enrolled with a face
embedding produced by an external model; clock-in and clock-out events are
derived purely from each worker's event history.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
