package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yungbote/click-backend/internal/app"
	"github.com/yungbote/click-backend/internal/modules/confidence"
	"github.com/yungbote/click-backend/internal/platform/logger"
)

func newAnalyzeCmd() *cobra.Command {
	var flags struct {
		content  string
		text     string
		platform string
		template string
		provider string
	}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score content with the configured analyzer without persisting",
		Long: `Analyze runs the confidence pipeline (analysis, uncertainty flags, edit
effort and review gate) and prints the score as JSON.

The provider is taken from ANALYZER_PROVIDER and its credentials
(GOOGLE_AI_API_KEY or OPENAI_API_KEY) unless --provider is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			content, err := readText(flags.text, flags.content, cmd.InOrStdin())
			if err != nil {
				return err
			}

			mode := os.Getenv("LOG_MODE")
			if mode == "" {
				mode = "test"
			}
			log, err := logger.New(mode)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer log.Sync()

			cfg := app.LoadConfig(log)
			if flags.provider != "" {
				cfg.AnalyzerProvider = flags.provider
			}
			gen, err := app.NewGenerator(cmd.Context(), log, cfg)
			if err != nil {
				return err
			}
			svc := confidence.NewService(confidence.ServiceDeps{
				Log: log,
				Analyzer: confidence.NewAnalyzer(gen, log, nil, confidence.AnalyzerConfig{
					Timeout: cfg.AnalyzerTimeout,
				}),
			})

			actx := confidence.Context{Platform: flags.platform}
			if flags.template != "" {
				tmpl, err := loadTemplate(flags.template)
				if err != nil {
					return err
				}
				actx.TemplateID = &tmpl.ID
				if actx.BrandGuidelines, err = brandGuidelines(tmpl.BrandStyle.Data()); err != nil {
					return err
				}
			}

			score, err := svc.Score(cmd.Context(), confidence.Text(content), actx)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), score)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&flags.content, "content", "c", "", "Content file (- for stdin)")
	f.StringVar(&flags.text, "text", "", "Inline content")
	f.StringVarP(&flags.platform, "platform", "p", "", "Target platform")
	f.StringVarP(&flags.template, "template", "t", "", "Template YAML whose brand style guides the analysis")
	f.StringVar(&flags.provider, "provider", "", "Override ANALYZER_PROVIDER (gemini, openai, auto)")
	return cmd
}

func brandGuidelines(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
