package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bridge_gateway/internal/app/bridge"
	"bridge_gateway/internal/app/service"
	"bridge_gateway/internal/domain/entity"
	"bridge_gateway/internal/infrastructure/wallet"
	"bridge_gateway/internal/pkg/amount"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// quoteOutput is the JSON shape of the quote command.
type quoteOutput struct {
	Selection bridge.State        `json:"selection"`
	Summary   entity.QuoteSummary `json:"summary"`
	Quote     *entity.Quote       `json:"quote"`
	Execution *bridge.Result      `json:"execution,omitempty"`
}

type quoteResult struct {
	ticket  bridge.Ticket
	quote   *entity.Quote
	summary entity.QuoteSummary
	err     error
}

func newQuoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote a bridge transfer and optionally execute it",
		Long: `Quote a bridge transfer. Chains default to Ethereum and Polygon; tokens are
given by symbol or address on their chain.

With --execute the configured signing key switches to the source chain, approves
the source token when needed and sends the bridge transaction.

Examples:
  bridgectl quote --from-token USDC --to-token USDC --amount 25
  bridgectl quote --from-chain arb --to-chain base --from-token ETH --to-token ETH --amount 0.05 --slippage 1
  bridgectl quote --from-token USDC --to-token USDC --amount 25 --watch --interval 20s`,
		Args: cobra.NoArgs,
		RunE: runQuote,
	}

	cmd.Flags().String("from-chain", "", "Source chain ID, key or name")
	cmd.Flags().String("to-chain", "", "Destination chain ID, key or name")
	cmd.Flags().String("from-token", "", "Source token symbol or address (required)")
	cmd.Flags().String("to-token", "", "Destination token symbol or address (required)")
	cmd.Flags().String("amount", "", "Amount to bridge in source token units (required)")
	cmd.Flags().Float64("slippage", amount.DefaultSlippagePct, "Slippage tolerance in percent")
	cmd.Flags().String("from-address", "", "Sender address (defaults to the signing wallet with --execute)")
	cmd.Flags().String("to-address", "", "Recipient address on the destination chain")
	cmd.Flags().Bool("execute", false, "Submit the approval and bridge transactions")
	cmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompt")
	cmd.Flags().BoolP("watch", "w", false, "Re-quote continuously until interrupted")
	cmd.Flags().Duration("interval", 15*time.Second, "Re-quote interval (when watching)")
	_ = cmd.MarkFlagRequired("from-token")
	_ = cmd.MarkFlagRequired("to-token")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func runQuote(cmd *cobra.Command, _ []string) error {
	execute, _ := cmd.Flags().GetBool("execute")
	watch, _ := cmd.Flags().GetBool("watch")
	if execute && watch {
		return fmt.Errorf("--execute and --watch cannot be combined")
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	stop := startSpinner(cmd, "Resolving chains and tokens...")
	st, chains, err := buildSelection(ctx, cmd, a)
	stop()
	if err != nil {
		return err
	}

	var (
		signer   *wallet.EVMWallet
		executor *bridge.Executor
	)
	if execute {
		if signer, err = a.openWallet(); err != nil {
			return err
		}
		account, _ := signer.Account(ctx)
		if st.FromAddress == "" {
			st = bridge.Reduce(st, bridge.SetAddresses{From: account, To: st.ToAddress})
		}
		executor = bridge.NewExecutor(signer, a.log)
	}

	var tracker bridge.Tracker
	defer tracker.Stop()

	stop = startSpinner(cmd, "Fetching quote...")
	res := fetchQuote(ctx, a.quotes, &tracker, st)
	stop()
	if res.err != nil {
		return describeQuoteError(res.err)
	}
	tracker.Finish(res.ticket)

	if verbose(cmd) && !jsonOutput(cmd) {
		_ = writeJSON(cmd.ErrOrStderr(), res.quote)
	}

	if watch {
		return watchQuotes(ctx, cmd, a, &tracker, st, chains, res)
	}

	out := quoteOutput{Selection: st, Summary: res.summary, Quote: res.quote}
	if !execute {
		if jsonOutput(cmd) {
			return writeJSON(cmd.OutOrStdout(), out)
		}
		displayQuote(cmd.OutOrStdout(), st, chains, res.quote, res.summary)
		return nil
	}

	if !jsonOutput(cmd) {
		displayQuote(cmd.OutOrStdout(), st, chains, res.quote, res.summary)
		if skip, _ := cmd.Flags().GetBool("yes"); !skip && !confirm(cmd.InOrStdin(), cmd.OutOrStdout()) {
			fmt.Fprintln(cmd.OutOrStdout(), "\nBridge cancelled.")
			return nil
		}
	}

	account, _ := signer.Account(ctx)
	stop = startSpinner(cmd, "Submitting transactions from "+account+"...")
	result, err := executor.Execute(ctx, st, res.quote)
	stop()
	if err != nil {
		return err
	}

	if jsonOutput(cmd) {
		out.Execution = &result
		return writeJSON(cmd.OutOrStdout(), out)
	}
	displayExecution(cmd.OutOrStdout(), result)
	return nil
}

// buildSelection applies the command's flags to a fresh selection, resolving
// chain and token references against the catalog.
func buildSelection(ctx context.Context, cmd *cobra.Command, a *app) (bridge.State, []entity.Chain, error) {
	flags := cmd.Flags()
	fromChainRef, _ := flags.GetString("from-chain")
	toChainRef, _ := flags.GetString("to-chain")
	fromTokenRef, _ := flags.GetString("from-token")
	toTokenRef, _ := flags.GetString("to-token")
	amountStr, _ := flags.GetString("amount")
	slippage, _ := flags.GetFloat64("slippage")
	fromAddress, _ := flags.GetString("from-address")
	toAddress, _ := flags.GetString("to-address")

	chains, err := a.catalog.Chains(ctx)
	if err != nil {
		return bridge.State{}, nil, err
	}

	st := bridge.Reduce(bridge.NewState(), bridge.ApplyDefaultChains{Chains: chains})

	fromChainID, err := resolveChain(chains, fromChainRef)
	if err != nil {
		return bridge.State{}, nil, err
	}
	if fromChainID != 0 {
		st = bridge.Reduce(st, bridge.SetFromChain{ChainID: fromChainID})
	}
	toChainID, err := resolveChain(chains, toChainRef)
	if err != nil {
		return bridge.State{}, nil, err
	}
	if toChainID != 0 {
		st = bridge.Reduce(st, bridge.SetToChain{ChainID: toChainID})
	}
	if st.FromChainID == 0 || st.ToChainID == 0 {
		return bridge.State{}, nil, fmt.Errorf("source and destination chains are required")
	}

	fromToken, err := resolveToken(ctx, a.catalog, st.FromChainID, fromTokenRef)
	if err != nil {
		return bridge.State{}, nil, err
	}
	toToken, err := resolveToken(ctx, a.catalog, st.ToChainID, toTokenRef)
	if err != nil {
		return bridge.State{}, nil, err
	}

	for _, action := range []bridge.Action{
		bridge.SetFromToken{Token: fromToken},
		bridge.SetToToken{Token: toToken},
		bridge.SetAmount{Amount: amountStr},
		bridge.SetSlippage{Pct: slippage},
		bridge.SetAddresses{From: fromAddress, To: toAddress},
	} {
		st = bridge.Reduce(st, action)
	}

	if !st.Complete() {
		return bridge.State{}, nil, fmt.Errorf("amount %q is not a positive %s amount", amountStr, fromToken.Symbol)
	}
	return st, chains, nil
}

// resolveToken finds ref on chainID by address when it looks like one, by symbol otherwise.
func resolveToken(ctx context.Context, catalog *service.CatalogService, chainID int64, ref string) (*entity.Token, error) {
	var (
		token entity.Token
		found bool
		err   error
	)
	ref = strings.TrimSpace(ref)
	if common.IsHexAddress(ref) {
		token, found, err = catalog.FindToken(ctx, chainID, ref)
	} else {
		token, found, err = catalog.FindTokenBySymbol(ctx, chainID, ref)
	}
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("token %q not found on chain %d (try: bridgectl tokens --chain %d)", ref, chainID, chainID)
	}
	return &token, nil
}

// fetchQuote starts a tracked quote request for st. Callers apply the result
// only while tracker.Current(result.ticket) holds.
func fetchQuote(ctx context.Context, quotes *service.QuoteService, tracker *bridge.Tracker, st bridge.State) quoteResult {
	reqCtx, ticket := tracker.Begin(ctx)
	q, sum, err := quotes.ForState(reqCtx, st)
	return quoteResult{ticket: ticket, quote: q, summary: sum, err: err}
}

func watchQuotes(ctx context.Context, cmd *cobra.Command, a *app, tracker *bridge.Tracker, st bridge.State, chains []entity.Chain, first quoteResult) error {
	interval, _ := cmd.Flags().GetDuration("interval")
	if interval <= 0 {
		interval = 15 * time.Second
	}
	out := cmd.OutOrStdout()

	show := func(r quoteResult) {
		if jsonOutput(cmd) {
			_ = writeJSON(out, quoteOutput{Selection: st, Summary: r.summary, Quote: r.quote})
			return
		}
		fmt.Fprintf(out, "\n%s\n", color.HiBlackString(time.Now().Format("2006-01-02 15:04:05")))
		displayQuote(out, st, chains, r.quote, r.summary)
	}
	show(first)

	results := make(chan quoteResult)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			go func() {
				r := fetchQuote(ctx, a.quotes, tracker, st)
				select {
				case results <- r:
				case <-ctx.Done():
				}
			}()
		case r := <-results:
			if !tracker.Current(r.ticket) {
				a.log.Debug("Dropping superseded quote", "ticket", r.ticket)
				continue
			}
			tracker.Finish(r.ticket)
			if r.err != nil {
				color.New(color.FgRed).Fprintf(out, "Error: %v\n", describeQuoteError(r.err))
				continue
			}
			show(r)
		}
	}
}

func describeQuoteError(err error) error {
	if statusErr, ok := service.IsUpstreamStatus(err); ok {
		return fmt.Errorf("no quote available (upstream status %d): %s", statusErr.StatusCode, statusErr.Body)
	}
	return err
}

func displayQuote(w io.Writer, st bridge.State, chains []entity.Chain, q *entity.Quote, sum entity.QuoteSummary) {
	printHeader(w, "BRIDGE QUOTE")

	tool := q.Tool
	if tool == "" && q.Estimate != nil {
		tool = q.Estimate.Tool
	}
	route := chainName(chains, st.FromChainID) + " -> " + chainName(chains, st.ToChainID)
	if tool != "" {
		route += " via " + tool
	}

	fmt.Fprintf(w, "\n  Route:          %s\n", color.CyanString(route))
	fmt.Fprintf(w, "  You send:       %s %s\n", st.Amount, color.YellowString(st.FromToken.Symbol))
	fmt.Fprintf(w, "  You receive:    ~%s\n", sum.ToAmount)
	fmt.Fprintf(w, "  Min received:   %s\n", sum.MinReceived)
	fmt.Fprintf(w, "  Fee:            %s\n", sum.FeeDisplay)
	fmt.Fprintf(w, "  Estimated time: %s\n", sum.TimeDisplay)
	fmt.Fprintf(w, "  Slippage:       %s%%\n", amount.FormatNumber(st.Slippage, 2))
	if st.ToAddress != "" {
		fmt.Fprintf(w, "  Recipient:      %s\n", color.HiBlackString(st.ToAddress))
	}

	fmt.Fprintln(w, "\n"+strings.Repeat("=", ruleWidth))
}

func displayExecution(w io.Writer, res bridge.Result) {
	printSuccess(w, "Bridge transaction submitted")
	if res.ApprovalHash != "" {
		fmt.Fprintf(w, "  Approval Tx: %s\n", color.HiBlackString(res.ApprovalHash))
	}
	fmt.Fprintf(w, "  Bridge Tx:   %s\n", color.CyanString(res.BridgeHash))
	fmt.Fprintln(w, "\nYou can monitor the transfer using:")
	color.New(color.FgCyan).Fprintf(w, "  bridgectl status %s\n\n", res.BridgeHash)
}

func confirm(in io.Reader, out io.Writer) bool {
	reader := bufio.NewReader(in)
	fmt.Fprint(out, "\nProceed with bridge? (y/N): ")

	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
