package root

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/vq/internal/state"
	"github.com/Paintersrp/vq/pkg/cmd/query"
	"github.com/Paintersrp/vq/pkg/cmd/tags"
	"github.com/Paintersrp/vq/pkg/cmd/tasks"
	"github.com/Paintersrp/vq/pkg/cmd/view"
)

func NewCmdRoot(s *state.State) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "vq",
		Short: "Query a vault of markdown notes.",
		Long: heredoc.Doc(`
			vq runs structured queries over a directory of markdown notes.
			Notes are matched by tag, folder, link, and frontmatter fields,
			and results render as lists, tables, or task checklists.
		`),
		Example: heredoc.Doc(`
			# Open work notes, newest first
			vq query 'LIST FROM "work" WHERE status = "open" SORT BY file.mtime DESC'

			# Unfinished checkboxes across a project
			vq tasks '#project'
		`),
		SilenceUsage: true,
	}

	// --config and --vault are consumed before cobra runs (see cmd.Execute);
	// they are registered here so the parser accepts them anywhere.
	cmd.PersistentFlags().String("config", "", "Path to the vq config file.")
	cmd.PersistentFlags().String("vault", "", "Vault directory to query, overriding the config.")

	cmd.AddCommand(
		query.NewCmdQuery(s),
		tags.NewCmdTags(s),
		tasks.NewCmdTasks(s),
		view.NewCmdView(s),
	)

	return cmd, nil
}
