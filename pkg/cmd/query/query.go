package query

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/vq/internal/render"
	"github.com/Paintersrp/vq/internal/state"
)

func NewCmdQuery(s *state.State) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:     "query <query-string>",
		Aliases: []string{"q"},
		Short:   "Run a query against the vault",
		Long: heredoc.Doc(`
			Executes a LIST, TABLE, or TASK query over the vault and prints
			the result. Quote the whole query so the shell passes it through
			as one argument.
		`),
		Example: heredoc.Doc(`
			vq query 'LIST FROM #project'
			vq query 'TABLE status, due FROM "work" WHERE priority > 2 SORT BY due LIMIT 10'
			vq q 'TASK FROM outgoing-to(roadmap)'
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(s, cmd, strings.Join(args, " "), watch)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-run the query whenever the vault changes.")

	return cmd
}

func run(s *state.State, cmd *cobra.Command, text string, watch bool) error {
	renderer := render.New(cmd.OutOrStdout())

	result := s.Query(text)
	if result.Err != "" && !watch {
		return fmt.Errorf("%s", result.Err)
	}
	renderer.Render(result)

	if !watch {
		return nil
	}

	return s.Watch(func() {
		fmt.Fprintln(cmd.OutOrStdout())
		renderer.Render(s.Query(text))
	})
}
