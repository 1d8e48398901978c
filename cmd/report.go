package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/company-report/internal/answer"
	"github.com/sells-group/company-report/internal/finance"
	"github.com/sells-group/company-report/internal/model"
	"github.com/sells-group/company-report/internal/questions"
	"github.com/sells-group/company-report/internal/report"
	"github.com/sells-group/company-report/internal/store"
	"github.com/sells-group/company-report/pkg/answerer"
	"github.com/sells-group/company-report/pkg/websearch"
)

var (
	reportCompany   string
	reportDocuments []string
	reportSpendPath string
	reportOutPath   string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a research report for a single company",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Init store
		st, err := initStore()
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		// Init clients
		answerClient := answerer.NewClient(cfg.Anthropic.Key)
		searchClient := websearch.NewClient(cfg.Search.Key, cfg.Search.BaseURL, cfg.Search.SearchBaseURL)
		llm := answer.NewLLMAnswerer(answerClient, cfg.Anthropic.StandardModel, cfg.Anthropic.AdvancedModel, int64(cfg.Anthropic.MaxTokens))

		// Alert rules
		rules := finance.DefaultRules()
		if cfg.Alerts.Path != "" {
			rules, err = finance.LoadRules(cfg.Alerts.Path)
			if err != nil {
				return eris.Wrap(err, "load alert rules")
			}
		}

		docs := reportDocuments
		if len(docs) == 0 {
			docs = cfg.Report.DocumentPaths
		}
		spendPath := reportSpendPath
		if spendPath == "" {
			spendPath = cfg.Report.SpendPath
		}
		outPath := reportOutPath
		if outPath == "" {
			outPath = cfg.Report.OutputPath
		}

		items, err := questions.Build(reportCompany, questions.Deps{
			Answerer:        llm,
			Search:          searchClient,
			Rules:           rules,
			ReportPaths:     docs,
			SpendPath:       spendPath,
			TopK:            cfg.Retrieval.TopK,
			ChunkChars:      cfg.Retrieval.ChunkChars,
			MaxURLsPerQuery: cfg.Retrieval.MaxURLsPerQuery,
			FetchWorkers:    cfg.Retrieval.FetchWorkers,
			FetchRate:       cfg.Retrieval.FetchRate,
		})
		if err != nil {
			return eris.Wrap(err, "build question set")
		}

		run, err := st.CreateRun(ctx, reportCompany)
		if err != nil {
			return eris.Wrap(err, "create run")
		}

		html := report.Build(ctx, reportCompany, items)

		recordOutcomes(ctx, st, run.ID, items)

		if err := os.WriteFile(outPath, []byte(html), 0o644); err != nil {
			if cerr := st.CompleteRun(ctx, run.ID, model.RunStatusFailed, ""); cerr != nil {
				zap.L().Warn("report: complete run", zap.Error(cerr))
			}
			return eris.Wrap(err, "write report")
		}

		if err := st.CompleteRun(ctx, run.ID, model.RunStatusCompleted, html); err != nil {
			return eris.Wrap(err, "complete run")
		}

		zap.L().Info("report complete",
			zap.String("company", reportCompany),
			zap.String("run_id", run.ID),
			zap.String("output", outPath),
		)
		fmt.Fprintln(os.Stdout, outPath)
		return nil
	},
}

func initStore() (store.Store, error) {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	return st, nil
}

// recordOutcomes persists the per-question audit trail. Sessions are already
// resolved by the report build, so reads here hit the cached answers.
func recordOutcomes(ctx context.Context, st store.Store, runID string, items []report.Renderable) {
	record := func(title string, s *answer.Session) {
		if title == "" {
			title = s.Question().Title
		}
		var sources []string
		if parsed, err := s.Parsed(ctx); err == nil {
			sources = parsed.Sources
		}
		outcome := model.QuestionOutcome{
			RunID:       runID,
			Title:       title,
			FinalSource: s.CurrentSource(),
			Switches:    s.Switches(),
			Trustworthy: s.Trustworthy(),
			Sources:     sources,
		}
		if err := st.RecordOutcome(ctx, outcome); err != nil {
			zap.L().Warn("report: record outcome", zap.String("title", title), zap.Error(err))
		}
	}

	for _, item := range items {
		switch it := item.(type) {
		case *questions.LLMQuestion:
			record("", it.Session())
		case *questions.PeopleQuestion:
			record("", it.Session())
		case *finance.KeyFinancials:
			for _, s := range it.Sessions() {
				record(it.Title(), s)
			}
		}
	}
}

func init() {
	reportCmd.Flags().StringVar(&reportCompany, "company", "", "company name (required)")
	reportCmd.Flags().StringSliceVar(&reportDocuments, "documents", nil, "paths to filed-report text files")
	reportCmd.Flags().StringVar(&reportSpendPath, "spend", "", "path to the spend-cube workbook")
	reportCmd.Flags().StringVar(&reportOutPath, "out", "", "output HTML path")
	_ = reportCmd.MarkFlagRequired("company")
	rootCmd.AddCommand(reportCmd)
}
