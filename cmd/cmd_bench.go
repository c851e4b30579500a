// cmd_bench.go - Bench Command Handler
// Hauptfunktionen: BenchHandler
package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/smolchat/smolchat/bench"
)

// BenchHandler - Misst pp/tg Durchsatz und gibt eine Markdown-Tabelle oder JSON aus
func BenchHandler(cmd *cobra.Command, _ []string) error {
	var p bench.Params
	for name, dst := range map[string]*int{"pp": &p.PP, "tg": &p.TG, "pl": &p.PL, "nr": &p.NR} {
		v, err := cmd.Flags().GetInt(name)
		if err != nil {
			return err
		}
		*dst = v
	}
	if err := p.Validate(); err != nil {
		return err
	}

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}

	// der Prompt bzw. alle generierten Sequenzen muessen in den Kontext passen
	if need := max(p.PP, p.TG*p.PL); !cmd.Flags().Changed("ctx-size") && opts.NumCtx < need {
		opts.NumCtx = need
	}

	h, err := loadModel(opts)
	if err != nil {
		return err
	}
	defer h.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	harness := bench.Harness{Handle: h}
	report, err := harness.Run(ctx, p)
	if err != nil {
		return err
	}

	if asJSON {
		return report.WriteJSON(os.Stdout)
	}

	report.WriteMarkdown(os.Stdout)
	if report.Failures > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d repetition(s) failed\n", report.Failures, p.NR)
	}
	return nil
}
