package cli

import (
	"fmt"
	"io"
	"strings"

	"bridge_gateway/internal/domain/entity"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newChainsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "chains",
		Aliases: []string{"list-chains"},
		Short:   "List the chains LI.FI can bridge between",
		Args:    cobra.NoArgs,
		RunE:    runChains,
	}
}

func runChains(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	stop := startSpinner(cmd, "Fetching supported chains...")
	chains, err := a.catalog.Chains(cmd.Context())
	stop()
	if err != nil {
		return err
	}

	if jsonOutput(cmd) {
		return writeJSON(cmd.OutOrStdout(), chains)
	}
	displayChains(cmd.OutOrStdout(), chains)
	return nil
}

func displayChains(w io.Writer, chains []entity.Chain) {
	if len(chains) == 0 {
		fmt.Fprintln(w, "\nNo chains returned.")
		return
	}

	printHeader(w, "SUPPORTED CHAINS")
	for _, c := range chains {
		native := ""
		if c.NativeToken != nil {
			native = c.NativeToken.Symbol
		}
		fmt.Fprintf(w, "  %-10d  %-22s  %-8s  %-6s  %s\n",
			c.ID,
			color.YellowString(c.Name),
			c.Key,
			strings.ToUpper(c.ChainType),
			color.HiBlackString(native))
	}
	fmt.Fprintln(w, strings.Repeat("=", ruleWidth))
	fmt.Fprintf(w, "\nTotal: %d chains\n\n", len(chains))
}
