package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/click-backend/internal/modules/templates"
)

func newPromptCmd() *cobra.Command {
	var flags struct {
		template string
		input    string
		platform string
	}
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the generation prompt a template builds for an input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tmpl, err := loadTemplate(flags.template)
			if err != nil {
				return err
			}
			prompt := templates.BuildPrompt(tmpl, flags.input, templates.PromptOptions{Platform: flags.platform})
			_, err = fmt.Fprintln(cmd.OutOrStdout(), prompt)
			return err
		},
	}
	f := cmd.Flags()
	f.StringVarP(&flags.template, "template", "t", "", "Template YAML file")
	f.StringVarP(&flags.input, "input", "i", "", "Input substituted for {{input}}")
	f.StringVarP(&flags.platform, "platform", "p", "", "Target platform")
	_ = cmd.MarkFlagRequired("template")
	return cmd
}
