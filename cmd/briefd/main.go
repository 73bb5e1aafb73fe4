package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "briefd",
	Short: "Creative brief engine",
	Long: `briefd turns free-form chat about creative work into a structured
brief with confidence-scored fields.

Start the server with "briefd start", then talk to it:

  briefd draft new
  briefd draft say <id> "make me 5 Instagram posts about our product launch"
  briefd draft show <id>`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(draftCmd)
	rootCmd.AddCommand(audienceCmd)
	rootCmd.AddCommand(inferCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
