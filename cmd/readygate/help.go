package main

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/readygate/internal/ui"
)

// helpRule colorizes one kind of token in Cobra's plain help text.
type helpRule struct {
	re     *regexp.Regexp
	render func(groups []string) string
}

var helpRules = []helpRule{
	{
		// Section headers such as "Gate:" or "Flags:".
		re:     regexp.MustCompile(`(?m)^([A-Z][^\n]*:)\s*$`),
		render: func(g []string) string { return ui.RenderAccent(strings.TrimSpace(g[0])) },
	},
	{
		// Command names in the command list.
		re:     regexp.MustCompile(`(?m)^(  )(\S+)(  )`),
		render: func(g []string) string { return g[1] + ui.RenderCommand(g[2]) + g[3] },
	},
	{
		// Flag value types, e.g. "--end string" or "--length duration".
		re:     regexp.MustCompile(`(--?\S+\s+)(string|int|int64|float64|duration|strings)\b`),
		render: func(g []string) string { return g[1] + ui.RenderMuted(g[2]) },
	},
	{
		re:     regexp.MustCompile(`\(default [^)]*\)`),
		render: func(g []string) string { return ui.RenderMuted(g[0]) },
	},
}

// colorizedHelpFunc renders Cobra's usage text and colors it when stdout
// supports ANSI colors.
func colorizedHelpFunc() func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
			_ = cmd.Usage()
			return
		}

		var buf bytes.Buffer
		cmd.SetOut(&buf)
		_ = cmd.Usage()
		cmd.SetOut(out)
		fmt.Fprint(out, colorizeHelpOutput(buf.String()))
	}
}

func colorizeHelpOutput(s string) string {
	for _, rule := range helpRules {
		s = rule.re.ReplaceAllStringFunc(s, func(match string) string {
			return rule.render(rule.re.FindStringSubmatch(match))
		})
	}
	return s
}
