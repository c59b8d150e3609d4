package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datalode-hq/datalode-go/pkg/datalode"
)

var attachmentsCmd = &cobra.Command{
	Use:   "attachments",
	Short: "Inspect recording attachments",
}

var (
	attListDeviceID    string
	attListDeviceName  string
	attListRecordingID string
	attListSiteID      string
	attListLimit       int
	attListOffset      int
	attListProject     string
)

var attachmentsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List attachments",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := mustClient()
		if err != nil {
			return err
		}
		attachments, err := client.ListAttachments(cmd.Context(), datalode.AttachmentFilter{
			DeviceID:    attListDeviceID,
			DeviceName:  attListDeviceName,
			RecordingID: attListRecordingID,
			SiteID:      attListSiteID,
			Limit:       attListLimit,
			Offset:      attListOffset,
			ProjectID:   attListProject,
		})
		if err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(attachments)
		}
		tw := newTable()
		fmt.Fprintf(tw, "ID\tNAME\tMEDIA TYPE\tSIZE\tLOG TIME\n")
		for _, att := range attachments {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				att.ID,
				att.Name,
				att.MediaType,
				humanBytes(att.Size),
				formatTime(att.LogTime))
		}
		flushTable(tw)
		return nil
	},
}

var attDownloadFile string

var attachmentsDownloadCmd = &cobra.Command{
	Use:   "download <attachment-id>",
	Short: "Download an attachment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := mustClient()
		if err != nil {
			return err
		}
		progress, done := stderrProgress("downloaded")
		data, err := client.DownloadAttachment(cmd.Context(), args[0], progress)
		done()
		if err != nil {
			return err
		}
		return writePayload(cmd, attDownloadFile, data)
	},
}

func init() {
	attachmentsListCmd.Flags().StringVar(&attListDeviceID, "device-id", "", "Filter by device ID")
	attachmentsListCmd.Flags().StringVar(&attListDeviceName, "device-name", "", "Filter by device name")
	attachmentsListCmd.Flags().StringVar(&attListRecordingID, "recording-id", "", "Filter by recording ID")
	attachmentsListCmd.Flags().StringVar(&attListSiteID, "site-id", "", "Filter by storage site ID")
	attachmentsListCmd.Flags().IntVar(&attListLimit, "limit", 0, "Maximum number of attachments")
	attachmentsListCmd.Flags().IntVar(&attListOffset, "offset", 0, "Pagination offset")
	attachmentsListCmd.Flags().StringVar(&attListProject, "project-id", "", "Project ID")

	attachmentsDownloadCmd.Flags().StringVarP(&attDownloadFile, "file", "f", "", "Write to file instead of stdout")

	attachmentsCmd.AddCommand(attachmentsListCmd)
	attachmentsCmd.AddCommand(attachmentsDownloadCmd)
}
