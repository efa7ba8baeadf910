package tasks

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/vq/internal/render"
	"github.com/Paintersrp/vq/internal/state"
)

// NewCmdTasks is shorthand for TASK queries: each argument becomes a FROM
// source, so tags and folders mix freely.
func NewCmdTasks(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks [source...]",
		Aliases: []string{"t"},
		Short:   "List checkbox tasks from matching notes",
		Example: heredoc.Doc(`
			# Every task in the vault
			vq tasks

			# Tasks in notes tagged #project under the work folder
			vq tasks '#project' work
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			result := s.Query(buildQuery(args))
			if result.Err != "" {
				return fmt.Errorf("%s", result.Err)
			}
			render.New(cmd.OutOrStdout()).Render(result)
			return nil
		},
	}

	return cmd
}

func buildQuery(args []string) string {
	if len(args) == 0 {
		return "TASK"
	}

	sources := make([]string, len(args))
	for i, arg := range args {
		if strings.HasPrefix(arg, "#") {
			sources[i] = arg
		} else {
			sources[i] = strconvQuote(arg)
		}
	}
	return "TASK FROM " + strings.Join(sources, ", ")
}

func strconvQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
