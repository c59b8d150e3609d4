package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datalode-hq/datalode-go/pkg/datalode"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage recording sessions",
}

var sessionListProject string

var sessionsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := mustClient()
		if err != nil {
			return err
		}
		sessions, err := client.ListSessions(cmd.Context(), datalode.SessionFilter{ProjectID: sessionListProject})
		if err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(sessions)
		}
		tw := newTable()
		fmt.Fprintf(tw, "ID\tKEY\tDEVICE\tRECORDINGS\tCREATED\n")
		for _, sess := range sessions {
			device := "-"
			if sess.Device != nil {
				device = sess.Device.Name
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
				sess.ID, sess.Key, device, len(sess.Recordings), formatTime(sess.CreatedAt))
		}
		flushTable(tw)
		return nil
	},
}

var sessionGetProject string

var sessionsGetCmd = &cobra.Command{
	Use:   "get <id-or-key>",
	Short: "Describe a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := mustClient()
		if err != nil {
			return err
		}
		sess, err := client.GetSession(cmd.Context(), args[0], sessionGetProject)
		if err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(sess)
		}
		tw := newTable()
		fmt.Fprintf(tw, "Field\tValue\n")
		fmt.Fprintf(tw, "ID\t%s\n", sess.ID)
		fmt.Fprintf(tw, "Key\t%s\n", sess.Key)
		if sess.Device != nil {
			fmt.Fprintf(tw, "Device\t%s\n", sess.Device.Name)
		}
		fmt.Fprintf(tw, "Created\t%s\n", formatTime(sess.CreatedAt))
		fmt.Fprintf(tw, "Recordings\t%d\n", len(sess.Recordings))
		flushTable(tw)
		for _, ref := range sess.Recordings {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", ref.ID)
		}
		return nil
	},
}

var (
	sessionCreateDeviceID string
	sessionCreateKey      string
	sessionCreateProject  string
)

var sessionsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a session",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := mustClient()
		if err != nil {
			return err
		}
		sess, err := client.CreateSession(cmd.Context(), datalode.CreateSessionParams{
			DeviceID:  sessionCreateDeviceID,
			Key:       sessionCreateKey,
			ProjectID: sessionCreateProject,
		})
		if err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(sess)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Session %s created with key %s\n", sess.ID, sess.Key)
		return nil
	},
}

var (
	sessionAddRecordings    []string
	sessionRemoveRecordings []string
	sessionUpdateProject    string
)

var sessionsAddRecordingsCmd = &cobra.Command{
	Use:   "add-recordings <session-id>",
	Short: "Attach or detach recordings on a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(sessionAddRecordings) == 0 && len(sessionRemoveRecordings) == 0 {
			return fmt.Errorf("nothing to do: pass --add or --remove")
		}
		client, err := mustClient()
		if err != nil {
			return err
		}
		sess, err := client.UpdateSession(cmd.Context(), args[0], datalode.UpdateSessionParams{
			AddRecordingIDs:    sessionAddRecordings,
			RemoveRecordingIDs: sessionRemoveRecordings,
			ProjectID:          sessionUpdateProject,
		})
		if err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(sess)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Session %s now has %d recordings\n", sess.ID, len(sess.Recordings))
		return nil
	},
}

var sessionDeleteProject string

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session (recordings are kept)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := mustClient()
		if err != nil {
			return err
		}
		if err := client.DeleteSession(cmd.Context(), args[0], sessionDeleteProject); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Session %s deleted\n", args[0])
		return nil
	},
}

func init() {
	sessionsListCmd.Flags().StringVar(&sessionListProject, "project-id", "", "Project ID")
	sessionsGetCmd.Flags().StringVar(&sessionGetProject, "project-id", "", "Project ID")
	sessionsCreateCmd.Flags().StringVar(&sessionCreateDeviceID, "device-id", "", "Device ID (required)")
	sessionsCreateCmd.Flags().StringVar(&sessionCreateKey, "key", "", "Session key (required)")
	sessionsCreateCmd.Flags().StringVar(&sessionCreateProject, "project-id", "", "Project ID")
	_ = sessionsCreateCmd.MarkFlagRequired("device-id")
	_ = sessionsCreateCmd.MarkFlagRequired("key")
	sessionsAddRecordingsCmd.Flags().StringSliceVar(&sessionAddRecordings, "add", nil, "Recording IDs to attach")
	sessionsAddRecordingsCmd.Flags().StringSliceVar(&sessionRemoveRecordings, "remove", nil, "Recording IDs to detach")
	sessionsAddRecordingsCmd.Flags().StringVar(&sessionUpdateProject, "project-id", "", "Project ID")
	sessionsDeleteCmd.Flags().StringVar(&sessionDeleteProject, "project-id", "", "Project ID")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsGetCmd)
	sessionsCmd.AddCommand(sessionsCreateCmd)
	sessionsCmd.AddCommand(sessionsAddRecordingsCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
}
