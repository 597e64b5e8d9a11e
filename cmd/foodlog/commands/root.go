// ABOUTME: Root CLI command with global flags and subcommand wiring
// ABOUTME: Defines the foodlog command tree and shared output options
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
███████╗ ██████╗  ██████╗ ██████╗ ██╗      ██████╗  ██████╗
██╔════╝██╔═══██╗██╔═══██╗██╔══██╗██║     ██╔═══██╗██╔════╝
█████╗  ██║   ██║██║   ██║██║  ██║██║     ██║   ██║██║  ███╗
██╔══╝  ██║   ██║██║   ██║██║  ██║██║     ██║   ██║██║   ██║
██║     ╚██████╔╝╚██████╔╝██████╔╝███████╗╚██████╔╝╚██████╔╝
╚═╝      ╚═════╝  ╚═════╝ ╚═════╝ ╚══════╝ ╚═════╝  ╚═════╝
`

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "foodlog",
		Short: "AI-powered meal and nutrition logging",
		Long: banner + `
Foodlog turns natural-language meal descriptions into structured
nutrition data. It drives an AI analysis loop over the USDA food
database, logs meals locally, and serves the same tools over MCP.

Examples:
  foodlog analyze "two scrambled eggs and a slice of toast"
  foodlog search "banana raw"
  foodlog meals
  foodlog mcp`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, table, json")

	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewBarcodeCmd())
	cmd.AddCommand(NewMealsCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
