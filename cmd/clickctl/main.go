// clickctl runs the compliance, prompt and confidence pipelines against local
// files without a server or database.
//
// Usage:
//
//	clickctl check --template brand.yaml --content post.txt [--fix]
//	clickctl prompt --template brand.yaml --input "spring launch" [--platform twitter]
//	clickctl analyze --content post.txt [--platform instagram] [--template brand.yaml]
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "clickctl",
		Short:         "Offline tooling for templates, compliance and confidence",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}
	root.AddCommand(newCheckCmd())
	root.AddCommand(newPromptCmd())
	root.AddCommand(newAnalyzeCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
