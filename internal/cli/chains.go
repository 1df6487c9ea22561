package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/rusbywallet/rusby/internal/chain"
	"github.com/rusbywallet/rusby/internal/output"
)

type chainInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Ticker   string `json:"ticker"`
	Family   string `json:"family"`
	Curve    string `json:"curve"`
	Path     string `json:"path"`
	CAIP2    string `json:"caip2"`
	Decimals int    `json:"decimals"`
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var chainsCmd = &cobra.Command{
	Use:   "chains",
	Short: "List supported chains",
	Long: `List every supported chain with its derivation path template and CAIP-2 id.

Any column can be used where a command takes --chain: the id, a ticker
alias such as eth or xrp, or the CAIP-2 id.`,
	Args: cobra.NoArgs,
	RunE: runChains,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(chainsCmd)
}

func runChains(cmd *cobra.Command, _ []string) error {
	ctx := GetCmdContext(cmd)

	infos := make([]chainInfo, 0, len(chain.All()))
	for _, id := range chain.All() {
		p := id.MustProfile()
		infos = append(infos, chainInfo{
			ID:       string(p.ID),
			Name:     p.Name,
			Ticker:   p.Ticker,
			Family:   string(p.Family),
			Curve:    p.Curve.String(),
			Path:     p.Template.String(),
			CAIP2:    p.CAIP2,
			Decimals: p.Decimals,
		})
	}

	return ctx.Fmt.Result(infos, func(w io.Writer) error {
		t := output.NewTable("ID", "NAME", "TICKER", "CURVE", "PATH", "CAIP-2")
		for _, c := range infos {
			t.AddRow(c.ID, c.Name, c.Ticker, c.Curve, c.Path, c.CAIP2)
		}
		return t.Render(w)
	})
}
