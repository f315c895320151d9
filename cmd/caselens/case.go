package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	domcase "github.com/kailas-cloud/caselens/internal/domain/casefile"
)

var caseFlags struct {
	json  bool
	token string
}

var caseCmd = &cobra.Command{
	Use:   "case <docket>",
	Short: "Print case details and docket entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, env, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg, env)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		a, cleanup, err := buildApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		f, err := a.cases.Get(withToken(cmd.Context(), caseFlags.token), args[0])
		if err != nil {
			return err
		}
		if caseFlags.json {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(f)
		}
		return writeCase(cmd.OutOrStdout(), f)
	},
}

func init() {
	caseCmd.Flags().BoolVar(&caseFlags.json, "json", false, "output as JSON")
	caseCmd.Flags().StringVar(&caseFlags.token, "token", "", "bearer token forwarded to the backend (default: $"+tokenEnv+")")

	rootCmd.AddCommand(caseCmd)
}

func writeCase(w io.Writer, f domcase.File) error {
	c := f.Case
	fmt.Fprintf(w, "%s  %s\n", c.DocketNumber, c.CaseName)
	fmt.Fprintf(w, "Status: %s  Filed: %s  Judge: %s\n\n", dash(c.Status), dash(c.FilingDate), dash(c.Judge))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILED\tTYPE\tFILED BY\tDESCRIPTION")
	for _, e := range f.Entries {
		filed := e.FiledDate
		if filed == "" {
			filed = e.FilingDate
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", dash(filed), dash(e.DocumentType), dash(e.FiledBy), e.Description)
	}
	return tw.Flush()
}
