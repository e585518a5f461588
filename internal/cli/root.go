// Package cli implements bridgectl, the terminal client of the bridge gateway.
package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const ruleWidth = 90

// NewRootCommand builds the bridgectl command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bridgectl",
		Short: "A CLI for cross-chain bridge transfers through the LI.FI API",
		Long: `bridgectl lists the chains and tokens LI.FI supports, quotes bridge transfers
and, with a configured signing key, submits the approval and bridge transactions.

Examples:
  bridgectl chains
  bridgectl tokens --chain polygon
  bridgectl quote --from-token USDC --to-token USDC --amount 25
  bridgectl quote --from-chain 1 --to-chain 42161 --from-token ETH --to-token ETH --amount 0.1 --execute
  bridgectl status 0xabc... --watch`,
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "config file (default .bridgectl.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().String("api-base", "", "LI.FI API base URL")
	rootCmd.PersistentFlags().String("api-key", "", "LI.FI API key")
	rootCmd.PersistentFlags().Duration("timeout", 15*time.Second, "Upstream request timeout")

	rootCmd.AddCommand(newChainsCmd(), newTokensCmd(), newQuoteCmd(), newStatusCmd())
	return rootCmd
}

// Execute runs bridgectl and prints a failing command's error.
func Execute() error {
	rootCmd := NewRootCommand()
	err := rootCmd.Execute()
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

func jsonOutput(cmd *cobra.Command) bool {
	on, _ := cmd.Flags().GetBool("json")
	return on
}

func verbose(cmd *cobra.Command) bool {
	on, _ := cmd.Flags().GetBool("verbose")
	return on
}

func printError(w io.Writer, err error) {
	color.New(color.FgRed).Fprintf(w, "\nError: %v\n\n", err)
}

func printSuccess(w io.Writer, message string) {
	color.New(color.FgGreen).Fprintf(w, "\n%s\n\n", message)
}

func printHeader(w io.Writer, title string) {
	fmt.Fprintln(w, "\n"+strings.Repeat("=", ruleWidth))
	color.New(color.FgGreen).Fprintf(w, "%s%s\n", strings.Repeat(" ", (ruleWidth-len(title))/2), title)
	fmt.Fprintln(w, strings.Repeat("=", ruleWidth))
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// startSpinner shows a progress spinner on stderr unless JSON output is requested.
// The returned func stops it.
func startSpinner(cmd *cobra.Command, suffix string) func() {
	if jsonOutput(cmd) {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
	s.Suffix = " " + suffix
	s.Start()
	return s.Stop
}
