package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datalode-hq/datalode-go/pkg/datalode"
)

var recordingsCmd = &cobra.Command{
	Use:   "recordings",
	Short: "Inspect imported recordings",
}

var (
	recListDeviceID     string
	recListDeviceName   string
	recListStart        string
	recListEnd          string
	recListPath         string
	recListImportStatus string
	recListSiteID       string
	recListEdgeSiteID   string
	recListSortBy       string
	recListSortOrder    string
	recListLimit        int
	recListOffset       int
	recListProject      string
)

var recordingsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recordings",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := mustClient()
		if err != nil {
			return err
		}
		start, err := parseTimeFlag(recListStart, "start")
		if err != nil {
			return err
		}
		end, err := parseTimeFlag(recListEnd, "end")
		if err != nil {
			return err
		}
		recordings, err := client.ListRecordings(cmd.Context(), datalode.RecordingFilter{
			DeviceID:     recListDeviceID,
			DeviceName:   recListDeviceName,
			Start:        start,
			End:          end,
			Path:         recListPath,
			ImportStatus: recListImportStatus,
			SiteID:       recListSiteID,
			EdgeSiteID:   recListEdgeSiteID,
			SortBy:       recListSortBy,
			SortOrder:    recListSortOrder,
			Limit:        recListLimit,
			Offset:       recListOffset,
			ProjectID:    recListProject,
		})
		if err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(recordings)
		}
		tw := newTable()
		fmt.Fprintf(tw, "ID\tPATH\tSIZE\tMESSAGES\tSTART\tIMPORTED\n")
		for _, rec := range recordings {
			imported := "pending"
			if !rec.ImportedAt.IsZero() {
				imported = formatTime(rec.ImportedAt)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
				rec.ID,
				rec.Path,
				humanBytes(rec.Size),
				rec.MessageCount,
				formatTime(rec.Start),
				imported)
		}
		flushTable(tw)
		return nil
	},
}

var recordingsDeleteCmd = &cobra.Command{
	Use:   "delete <recording-id>",
	Short: "Delete a recording",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := mustClient()
		if err != nil {
			return err
		}
		if err := client.DeleteRecording(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Recording %s deleted\n", args[0])
		return nil
	},
}

func init() {
	recordingsListCmd.Flags().StringVar(&recListDeviceID, "device-id", "", "Filter by device ID")
	recordingsListCmd.Flags().StringVar(&recListDeviceName, "device-name", "", "Filter by device name")
	recordingsListCmd.Flags().StringVar(&recListStart, "start", "", "Range start (RFC 3339)")
	recordingsListCmd.Flags().StringVar(&recListEnd, "end", "", "Range end (RFC 3339)")
	recordingsListCmd.Flags().StringVar(&recListPath, "path", "", "Filter by import path")
	recordingsListCmd.Flags().StringVar(&recListImportStatus, "import-status", "", "Filter by import status")
	recordingsListCmd.Flags().StringVar(&recListSiteID, "site-id", "", "Filter by storage site ID")
	recordingsListCmd.Flags().StringVar(&recListEdgeSiteID, "edge-site-id", "", "Filter by edge site ID")
	recordingsListCmd.Flags().StringVar(&recListSortBy, "sort-by", "", "Sort field (snake_case)")
	recordingsListCmd.Flags().StringVar(&recListSortOrder, "sort-order", "", "Sort order: asc|desc")
	recordingsListCmd.Flags().IntVar(&recListLimit, "limit", 0, "Maximum number of recordings")
	recordingsListCmd.Flags().IntVar(&recListOffset, "offset", 0, "Pagination offset")
	recordingsListCmd.Flags().StringVar(&recListProject, "project-id", "", "Project ID")

	recordingsCmd.AddCommand(recordingsListCmd)
	recordingsCmd.AddCommand(recordingsDeleteCmd)
}
