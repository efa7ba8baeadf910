package view

import (
	"fmt"
	"sort"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/vq/internal/render"
	"github.com/Paintersrp/vq/internal/state"
)

func NewCmdView(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "view [name]",
		Aliases: []string{"v"},
		Short:   "Run a named query from the config file",
		Long: heredoc.Doc(`
			Views are queries saved under the views key of the config file.
			With no argument the default view runs; with no default, the
			available view names are listed.
		`),
		Example: heredoc.Doc(`
			vq view inbox
			vq view
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := s.Config.DefaultView
			if len(args) > 0 {
				name = args[0]
			}

			if name == "" {
				return listViews(s, cmd)
			}

			text, ok := s.Config.Views[name]
			if !ok {
				return fmt.Errorf("unknown view %q", name)
			}

			result := s.Query(text)
			if result.Err != "" {
				return fmt.Errorf("view %q: %s", name, result.Err)
			}
			render.New(cmd.OutOrStdout()).Render(result)
			return nil
		},
	}

	return cmd
}

func listViews(s *state.State, cmd *cobra.Command) error {
	if len(s.Config.Views) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no views configured")
		return nil
	}

	names := make([]string, 0, len(s.Config.Views))
	for name := range s.Config.Views {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, s.Config.Views[name])
	}
	return nil
}
