package cli

import (
	"fmt"
	"io"
	"strings"

	"bridge_gateway/internal/domain/entity"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newTokensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tokens",
		Aliases: []string{"list-tokens", "ls"},
		Short:   "List the popular tokens of a chain",
		Long: `List the popular tokens LI.FI knows for one chain.

Examples:
  bridgectl tokens --chain 137
  bridgectl tokens --chain arb --symbol usd`,
		Args: cobra.NoArgs,
		RunE: runTokens,
	}
	cmd.Flags().String("chain", "", "Chain ID, key or name (required)")
	cmd.Flags().String("symbol", "", "Filter by token symbol")
	_ = cmd.MarkFlagRequired("chain")
	return cmd
}

func runTokens(cmd *cobra.Command, _ []string) error {
	chainRef, _ := cmd.Flags().GetString("chain")
	symbol, _ := cmd.Flags().GetString("symbol")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	stop := startSpinner(cmd, "Fetching supported tokens...")
	defer stop()

	chains, err := a.catalog.Chains(cmd.Context())
	if err != nil {
		return err
	}
	chainID, err := resolveChain(chains, chainRef)
	if err != nil {
		return err
	}
	tokens, err := a.catalog.Tokens(cmd.Context(), chainID)
	if err != nil {
		return err
	}
	stop()

	if symbol != "" {
		filtered := make([]entity.Token, 0, len(tokens))
		for _, t := range tokens {
			if strings.Contains(strings.ToUpper(t.Symbol), strings.ToUpper(symbol)) {
				filtered = append(filtered, t)
			}
		}
		tokens = filtered
	}

	if jsonOutput(cmd) {
		return writeJSON(cmd.OutOrStdout(), tokens)
	}
	displayTokens(cmd.OutOrStdout(), chainName(chains, chainID), tokens)
	return nil
}

func displayTokens(w io.Writer, chain string, tokens []entity.Token) {
	if len(tokens) == 0 {
		fmt.Fprintln(w, "\nNo tokens found matching the criteria.")
		return
	}

	printHeader(w, "SUPPORTED TOKENS")
	color.New(color.FgCyan).Fprintf(w, "\n%s\n", strings.ToUpper(chain))
	fmt.Fprintln(w, strings.Repeat("-", ruleWidth))
	for _, t := range tokens {
		price := ""
		if t.PriceUSD != "" {
			price = "$" + t.PriceUSD
		}
		fmt.Fprintf(w, "  %-10s  %2d decimals  %s  %s\n",
			color.YellowString(t.Symbol),
			t.Decimals,
			color.HiBlackString(t.Address),
			price)
	}
	fmt.Fprintln(w, "\n"+strings.Repeat("=", ruleWidth))
	fmt.Fprintf(w, "\nTotal: %d tokens\n\n", len(tokens))
}
