package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Inspect organization projects",
}

var projectsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List projects visible to the token",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := mustClient()
		if err != nil {
			return err
		}
		projects, err := client.ListProjects(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(projects)
		}
		tw := newTable()
		fmt.Fprintf(tw, "ID\tNAME\tMEMBERS\tLAST SEEN\n")
		for _, p := range projects {
			name := p.Name
			if name == "" {
				name = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", p.ID, name, p.OrgMemberCount, formatTime(p.LastSeenAt))
		}
		flushTable(tw)
		return nil
	},
}

func init() {
	projectsCmd.AddCommand(projectsListCmd)
}
