package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/yungbote/click-backend/internal/modules/compliance"
)

var errNotCompliant = errors.New("content is not compliant")

type checkOutput struct {
	Report      compliance.Report       `json:"report"`
	Fix         *compliance.FixResult   `json:"fix,omitempty"`
	Suggestions []compliance.Suggestion `json:"suggestions,omitempty"`
}

func newCheckCmd() *cobra.Command {
	var flags struct {
		template    string
		content     string
		text        string
		fix         bool
		suggestions bool
		strict      bool
	}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check content against a template's guardrails and rules",
		Long: `Check runs the compliance checker and prints the report as JSON.

With --fix the auto-fixer is applied to the reported violations and the
patched text is included. With --strict a non-compliant result exits 1.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tmpl, err := loadTemplate(flags.template)
			if err != nil {
				return err
			}
			content, err := readText(flags.text, flags.content, cmd.InOrStdin())
			if err != nil {
				return err
			}

			out := checkOutput{Report: compliance.CheckCompliance(content, tmpl)}
			if flags.fix {
				fix := compliance.AutoFix(content, out.Report.Violations)
				out.Fix = &fix
			}
			if flags.suggestions {
				out.Suggestions = compliance.OptimizationSuggestions(content, tmpl)
			}
			if err := writeJSON(cmd.OutOrStdout(), out); err != nil {
				return err
			}
			if flags.strict && !out.Report.IsCompliant {
				return errNotCompliant
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&flags.template, "template", "t", "", "Template YAML file")
	f.StringVarP(&flags.content, "content", "c", "", "Content file (- for stdin)")
	f.StringVar(&flags.text, "text", "", "Inline content")
	f.BoolVar(&flags.fix, "fix", false, "Apply the auto-fixer to reported violations")
	f.BoolVar(&flags.suggestions, "suggestions", false, "Include optimization suggestions")
	f.BoolVar(&flags.strict, "strict", false, "Exit non-zero when content is not compliant")
	_ = cmd.MarkFlagRequired("template")
	return cmd
}
