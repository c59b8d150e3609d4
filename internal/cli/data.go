package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/datalode-hq/datalode-go/pkg/datalode"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Download, upload, and inspect device data",
}

var (
	downloadDeviceID     string
	downloadDeviceName   string
	downloadStart        string
	downloadEnd          string
	downloadTopics       []string
	downloadFormat       string
	downloadRecordingID  string
	downloadRecordingKey string
	downloadAttachments  bool
	downloadFile         string
)

var dataDownloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download data for a device time range or a whole recording",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := mustClient()
		if err != nil {
			return err
		}
		progress, done := stderrProgress("downloaded")
		var data []byte
		if downloadRecordingID != "" || downloadRecordingKey != "" {
			data, err = client.DownloadRecording(cmd.Context(), datalode.DownloadRecordingParams{
				RecordingID:        downloadRecordingID,
				Key:                downloadRecordingKey,
				IncludeAttachments: downloadAttachments,
				Format:             datalode.OutputFormat(downloadFormat),
				Progress:           progress,
			})
		} else {
			var start, end time.Time
			if start, err = parseTimeFlag(downloadStart, "start"); err != nil {
				return err
			}
			if end, err = parseTimeFlag(downloadEnd, "end"); err != nil {
				return err
			}
			data, err = client.DownloadData(cmd.Context(), datalode.DownloadParams{
				DeviceID:   downloadDeviceID,
				DeviceName: downloadDeviceName,
				Start:      start,
				End:        end,
				Topics:     downloadTopics,
				Format:     datalode.OutputFormat(downloadFormat),
				Progress:   progress,
			})
		}
		done()
		if err != nil {
			return err
		}
		return writePayload(cmd, downloadFile, data)
	},
}

var (
	uploadDeviceID   string
	uploadDeviceName string
	uploadKey        string
	uploadProject    string
	uploadFilename   string
)

var dataUploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a recording file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := mustClient()
		if err != nil {
			return err
		}
		f, err := os.Open(filepath.Clean(args[0]))
		if err != nil {
			return err
		}
		defer f.Close()
		filename := uploadFilename
		if filename == "" {
			filename = filepath.Base(args[0])
		}
		progress, done := stderrProgress("uploaded")
		result, err := client.UploadData(cmd.Context(), datalode.UploadParams{
			DeviceID:   uploadDeviceID,
			DeviceName: uploadDeviceName,
			Key:        uploadKey,
			ProjectID:  uploadProject,
			Filename:   filename,
			Data:       f,
			Progress:   progress,
		})
		done()
		if err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(result)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s (storage status %d)\n", filename, result.StatusCode)
		return nil
	},
}

var (
	coverageDeviceID   string
	coverageDeviceName string
	coverageStart      string
	coverageEnd        string
	coverageTolerance  time.Duration
	coverageProject    string
)

var dataCoverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Show which spans of a time range hold data",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := mustClient()
		if err != nil {
			return err
		}
		start, err := parseTimeFlag(coverageStart, "start")
		if err != nil {
			return err
		}
		end, err := parseTimeFlag(coverageEnd, "end")
		if err != nil {
			return err
		}
		ranges, err := client.GetCoverage(cmd.Context(), datalode.CoverageFilter{
			Start:      start,
			End:        end,
			DeviceID:   coverageDeviceID,
			DeviceName: coverageDeviceName,
			Tolerance:  coverageTolerance,
			ProjectID:  coverageProject,
		})
		if err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(ranges)
		}
		tw := newTable()
		fmt.Fprintf(tw, "DEVICE\tSTART\tEND\tSPAN\n")
		for _, r := range ranges {
			device := r.DeviceID
			if r.Device != nil && r.Device.Name != "" {
				device = r.Device.Name
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
				device, formatTime(r.Start), formatTime(r.End), r.End.Sub(r.Start))
		}
		flushTable(tw)
		return nil
	},
}

var (
	topicsDeviceID   string
	topicsDeviceName string
	topicsStart      string
	topicsEnd        string
	topicsSchemas    bool
	topicsProject    string
)

var dataTopicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List topics recorded in a time range",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := mustClient()
		if err != nil {
			return err
		}
		start, err := parseTimeFlag(topicsStart, "start")
		if err != nil {
			return err
		}
		end, err := parseTimeFlag(topicsEnd, "end")
		if err != nil {
			return err
		}
		topics, err := client.ListTopics(cmd.Context(), datalode.TopicFilter{
			DeviceID:       topicsDeviceID,
			DeviceName:     topicsDeviceName,
			Start:          start,
			End:            end,
			IncludeSchemas: topicsSchemas,
			ProjectID:      topicsProject,
		})
		if err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(topics)
		}
		tw := newTable()
		fmt.Fprintf(tw, "TOPIC\tENCODING\tSCHEMA\tVERSION\n")
		for _, t := range topics {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.Topic, t.Encoding, t.SchemaName, t.Version)
		}
		flushTable(tw)
		return nil
	},
}

func init() {
	dataDownloadCmd.Flags().StringVar(&downloadDeviceID, "device-id", "", "Device ID")
	dataDownloadCmd.Flags().StringVar(&downloadDeviceName, "device-name", "", "Device name")
	dataDownloadCmd.Flags().StringVar(&downloadStart, "start", "", "Range start (RFC 3339)")
	dataDownloadCmd.Flags().StringVar(&downloadEnd, "end", "", "Range end (RFC 3339)")
	dataDownloadCmd.Flags().StringSliceVar(&downloadTopics, "topic", nil, "Restrict to topics (repeatable)")
	dataDownloadCmd.Flags().StringVar(&downloadFormat, "format", "", "Output format: mcap|mcap0|bag1")
	dataDownloadCmd.Flags().StringVar(&downloadRecordingID, "recording-id", "", "Download a whole recording by ID")
	dataDownloadCmd.Flags().StringVar(&downloadRecordingKey, "recording-key", "", "Download a whole recording by key")
	dataDownloadCmd.Flags().BoolVar(&downloadAttachments, "include-attachments", false, "Embed attachments in recording exports")
	dataDownloadCmd.Flags().StringVarP(&downloadFile, "file", "f", "", "Write to file instead of stdout")

	dataUploadCmd.Flags().StringVar(&uploadDeviceID, "device-id", "", "Device ID")
	dataUploadCmd.Flags().StringVar(&uploadDeviceName, "device-name", "", "Device name")
	dataUploadCmd.Flags().StringVar(&uploadKey, "key", "", "Recording key for de-duplicated uploads")
	dataUploadCmd.Flags().StringVar(&uploadProject, "project-id", "", "Project ID")
	dataUploadCmd.Flags().StringVar(&uploadFilename, "filename", "", "Override the stored filename")

	dataCoverageCmd.Flags().StringVar(&coverageDeviceID, "device-id", "", "Device ID")
	dataCoverageCmd.Flags().StringVar(&coverageDeviceName, "device-name", "", "Device name")
	dataCoverageCmd.Flags().StringVar(&coverageStart, "start", "", "Range start (RFC 3339)")
	dataCoverageCmd.Flags().StringVar(&coverageEnd, "end", "", "Range end (RFC 3339)")
	dataCoverageCmd.Flags().DurationVar(&coverageTolerance, "tolerance", 0, "Merge ranges separated by gaps up to this duration")
	dataCoverageCmd.Flags().StringVar(&coverageProject, "project-id", "", "Project ID")

	dataTopicsCmd.Flags().StringVar(&topicsDeviceID, "device-id", "", "Device ID")
	dataTopicsCmd.Flags().StringVar(&topicsDeviceName, "device-name", "", "Device name")
	dataTopicsCmd.Flags().StringVar(&topicsStart, "start", "", "Range start (RFC 3339)")
	dataTopicsCmd.Flags().StringVar(&topicsEnd, "end", "", "Range end (RFC 3339)")
	dataTopicsCmd.Flags().BoolVar(&topicsSchemas, "include-schemas", false, "Include schema definitions")
	dataTopicsCmd.Flags().StringVar(&topicsProject, "project-id", "", "Project ID")

	dataCmd.AddCommand(dataDownloadCmd)
	dataCmd.AddCommand(dataUploadCmd)
	dataCmd.AddCommand(dataCoverageCmd)
	dataCmd.AddCommand(dataTopicsCmd)
}

// writePayload writes downloaded bytes to path, or stdout when path is
// empty or "-".
func writePayload(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s to %s\n", humanBytes(int64(len(data))), path)
	return nil
}
