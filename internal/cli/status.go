package cli

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bridge_gateway/internal/domain/entity"
	"bridge_gateway/internal/pkg/amount"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// transferStatus is the part of the status answer bridgectl renders.
type transferStatus struct {
	Status           string       `json:"status"`
	Substatus        string       `json:"substatus"`
	SubstatusMessage string       `json:"substatusMessage"`
	Tool             string       `json:"tool"`
	Sending          *transferLeg `json:"sending"`
	Receiving        *transferLeg `json:"receiving"`
}

type transferLeg struct {
	TxHash  string        `json:"txHash"`
	TxLink  string        `json:"txLink"`
	ChainID int64         `json:"chainId"`
	Amount  string        `json:"amount"`
	Token   *entity.Token `json:"token"`
}

// Done reports whether the transfer reached a final state.
func (s transferStatus) Done() bool {
	switch strings.ToUpper(s.Status) {
	case "DONE", "FAILED", "INVALID":
		return true
	}
	return false
}

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <tx-hash>",
		Short: "Check the status of a bridge transfer",
		Long: `Check the status of a bridge transfer by its source transaction hash.

Examples:
  bridgectl status 0x1234...abcd
  bridgectl status 0x1234...abcd --from-chain 1 --to-chain 137 --bridge stargate
  bridgectl status 0x1234...abcd --watch --interval 10s`,
		Args: cobra.ExactArgs(1),
		RunE: runStatus,
	}
	cmd.Flags().String("bridge", "", "Bridge tool that carried the transfer")
	cmd.Flags().String("from-chain", "", "Source chain ID")
	cmd.Flags().String("to-chain", "", "Destination chain ID")
	cmd.Flags().BoolP("watch", "w", false, "Watch status updates until the transfer completes")
	cmd.Flags().Duration("interval", 5*time.Second, "Polling interval (when watching)")
	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	watch, _ := cmd.Flags().GetBool("watch")
	if watch && jsonOutput(cmd) {
		return fmt.Errorf("watch mode not supported with JSON output")
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	rawQuery := statusQuery(cmd, args[0])

	if !watch {
		stop := startSpinner(cmd, "Checking transfer status...")
		body, status, err := fetchStatus(cmd.Context(), a, rawQuery)
		stop()
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), string(body))
			return err
		}
		displayStatus(cmd.OutOrStdout(), args[0], status)
		return nil
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	interval, _ := cmd.Flags().GetDuration("interval")
	if interval <= 0 {
		interval = 5 * time.Second
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nWatching transfer %s\n", color.CyanString(args[0]))
	fmt.Fprintf(out, "Checking every %s. Press Ctrl+C to stop.\n", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		_, status, err := fetchStatus(ctx, a, rawQuery)
		switch {
		case ctx.Err() != nil:
			return nil
		case err != nil:
			color.New(color.FgRed).Fprintf(out, "Error: %v\n", err)
		default:
			displayStatus(out, args[0], status)
			if status.Done() {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func statusQuery(cmd *cobra.Command, txHash string) string {
	q := url.Values{}
	q.Set("txHash", strings.TrimSpace(txHash))
	for flag, param := range map[string]string{"bridge": "bridge", "from-chain": "fromChain", "to-chain": "toChain"} {
		if v, _ := cmd.Flags().GetString(flag); v != "" {
			q.Set(param, v)
		}
	}
	return q.Encode()
}

func fetchStatus(ctx context.Context, a *app, rawQuery string) ([]byte, transferStatus, error) {
	resp, err := a.proxy.IntentStatus(ctx, rawQuery)
	if err != nil {
		return nil, transferStatus{}, err
	}
	if !resp.OK() {
		return nil, transferStatus{}, fmt.Errorf("status lookup failed with upstream status %d: %s", resp.StatusCode, strings.TrimSpace(string(resp.Body)))
	}

	var status transferStatus
	if err := json.Unmarshal(resp.Body, &status); err != nil {
		a.log.Debug("Status body could not be decoded", "error", err)
	}
	return resp.Body, status, nil
}

func displayStatus(w io.Writer, txHash string, s transferStatus) {
	printHeader(w, "TRANSFER STATUS")

	fmt.Fprintf(w, "\n  Source Tx:       %s\n", color.CyanString(txHash))
	fmt.Fprintf(w, "  Status:          %s\n", coloredStatus(s.Status))
	if s.Substatus != "" {
		fmt.Fprintf(w, "  Substatus:       %s\n", s.Substatus)
	}
	if s.SubstatusMessage != "" {
		fmt.Fprintf(w, "  Message:         %s\n", s.SubstatusMessage)
	}
	if s.Tool != "" {
		fmt.Fprintf(w, "  Bridge:          %s\n", s.Tool)
	}
	if s.Receiving != nil && s.Receiving.TxHash != "" {
		fmt.Fprintf(w, "  Destination Tx:  %s\n", color.HiBlackString(s.Receiving.TxHash))
	}
	if s.Receiving != nil && s.Receiving.Token != nil && s.Receiving.Amount != "" {
		fmt.Fprintf(w, "  Received:        %s %s\n", amount.FormatNumber(amount.FromBaseUnits(s.Receiving.Amount, s.Receiving.Token.Decimals), amount.DefaultMaxFractionDigits), s.Receiving.Token.Symbol)
	}

	fmt.Fprintln(w, "\n"+strings.Repeat("=", ruleWidth))
}

func coloredStatus(status string) string {
	switch strings.ToUpper(status) {
	case "DONE":
		return color.GreenString(status)
	case "FAILED", "INVALID":
		return color.RedString(status)
	case "":
		return color.HiBlackString("UNKNOWN")
	default:
		return color.YellowString(status)
	}
}
