package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/caselens/internal/domain"
	"github.com/kailas-cloud/caselens/internal/domain/answer"
	searchuc "github.com/kailas-cloud/caselens/internal/usecase/search"
)

const tokenEnv = "CASELENS_TOKEN"

var searchFlags struct {
	page    int
	filters []string
	answer  bool
	json    bool
	token   string
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run one search against the backend and print a page of results",
	Long: `Search fetches one batch of results for the query, applies document type
filters, and prints the requested page. With --answer the AI answer is generated
over the top results and printed after them.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&searchFlags.page, "page", 1, "page of results to print")
	searchCmd.Flags().StringSliceVar(&searchFlags.filters, "filter", nil, "document type filter (repeatable)")
	searchCmd.Flags().BoolVar(&searchFlags.answer, "answer", false, "generate an AI answer over the results")
	searchCmd.Flags().BoolVar(&searchFlags.json, "json", false, "output results as JSON")
	searchCmd.Flags().StringVar(&searchFlags.token, "token", "", "bearer token forwarded to the backend (default: $"+tokenEnv+")")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, env, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, env)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	a, cleanup, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx = withToken(ctx, searchFlags.token)

	mode := searchuc.AnswerOff
	if searchFlags.answer {
		if a.answerer == nil {
			return errors.New("AI answers are disabled in the configuration")
		}
		mode = searchuc.AnswerSync
	}
	sess := a.newSession(mode)
	defer sess.Close()

	view, err := sess.Search(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	if view.State == searchuc.StateFailed {
		return errors.New(view.Error)
	}
	for _, tag := range searchFlags.filters {
		if view, err = sess.ToggleFilter(tag); err != nil {
			return err
		}
	}
	if searchFlags.page > 1 {
		view = sess.Results(searchFlags.page)
	}
	logger.Debug("search complete",
		zap.Int("total", view.TotalCount),
		zap.Int("filtered", view.FilteredCount),
		zap.Int("page", view.Page),
	)

	out := cmd.OutOrStdout()
	if searchFlags.json {
		return writeSearchJSON(out, view, sess.Answer())
	}
	return writeSearchTable(out, view, sess.Answer())
}

func withToken(ctx context.Context, flag string) context.Context {
	token := flag
	if token == "" {
		token = os.Getenv(tokenEnv)
	}
	if token == "" {
		return ctx
	}
	return domain.ContextWithBearerToken(ctx, token)
}

type searchOutput struct {
	Query         string         `json:"query"`
	TotalCount    int            `json:"total_count"`
	FilteredCount int            `json:"filtered_count"`
	Page          int            `json:"page"`
	TotalPages    int            `json:"total_pages"`
	Filters       []string       `json:"filters"`
	Items         []searchItem   `json:"items"`
	Answer        *answerOutput  `json:"answer,omitempty"`
	Facets        map[string]int `json:"facets"`
}

type searchItem struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	DocumentType string `json:"document_type,omitempty"`
	DocketNumber string `json:"docket_number,omitempty"`
	FilingDate   string `json:"filing_date,omitempty"`
	Snippet      string `json:"snippet,omitempty"`
	DocumentURL  string `json:"document_url,omitempty"`
}

type answerOutput struct {
	Text      string   `json:"text"`
	FollowUps []string `json:"follow_ups"`
}

func toSearchOutput(v searchuc.View, st answer.State) searchOutput {
	out := searchOutput{
		Query:         v.Query,
		TotalCount:    v.TotalCount,
		FilteredCount: v.FilteredCount,
		Page:          v.Page,
		TotalPages:    v.TotalPages,
		Filters:       v.Filters,
		Items:         make([]searchItem, len(v.Items)),
		Facets:        make(map[string]int, len(v.Facets)),
	}
	for i, r := range v.Items {
		out.Items[i] = searchItem{
			ID:           r.ID(),
			Title:        r.DisplayTitle(),
			DocumentType: r.DocumentType(),
			DocketNumber: r.DocketNumber(),
			FilingDate:   r.FilingDate(),
			Snippet:      r.Snippet(),
			DocumentURL:  r.DocumentURL(),
		}
	}
	for _, f := range v.Facets {
		out.Facets[f.Value] = f.Count
	}
	if st.Status == answer.StatusReady {
		out.Answer = &answerOutput{Text: st.Answer.Text(), FollowUps: st.Answer.FollowUps()}
	}
	return out
}

func writeSearchJSON(w io.Writer, v searchuc.View, st answer.State) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toSearchOutput(v, st))
}

func writeSearchTable(w io.Writer, v searchuc.View, st answer.State) error {
	out := toSearchOutput(v, st)
	fmt.Fprintf(w, "%d results for %q (%d shown after filters), page %d of %d\n\n",
		out.TotalCount, out.Query, out.FilteredCount, out.Page, out.TotalPages)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tDOCKET\tFILED\tTITLE")
	for _, it := range out.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", dash(it.DocumentType), dash(it.DocketNumber), dash(it.FilingDate), it.Title)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if out.Answer != nil {
		fmt.Fprintf(w, "\nAnswer:\n%s\n", out.Answer.Text)
		for _, q := range out.Answer.FollowUps {
			fmt.Fprintf(w, "  - %s\n", q)
		}
	}
	return nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
