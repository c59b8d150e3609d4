package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/datalode-hq/datalode-go/pkg/datalode"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Manage device events",
}

var (
	eventListDeviceID   string
	eventListDeviceName string
	eventListQuery      string
	eventListStart      string
	eventListEnd        string
	eventListProject    string
	eventListSortBy     string
	eventListSortOrder  string
	eventListLimit      int
	eventListOffset     int
)

var eventsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List events",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := mustClient()
		if err != nil {
			return err
		}
		start, err := parseTimeFlag(eventListStart, "start")
		if err != nil {
			return err
		}
		end, err := parseTimeFlag(eventListEnd, "end")
		if err != nil {
			return err
		}
		events, err := client.ListEvents(cmd.Context(), datalode.EventFilter{
			DeviceID:   eventListDeviceID,
			DeviceName: eventListDeviceName,
			Query:      eventListQuery,
			Start:      start,
			End:        end,
			ProjectID:  eventListProject,
			SortBy:     eventListSortBy,
			SortOrder:  eventListSortOrder,
			Limit:      eventListLimit,
			Offset:     eventListOffset,
		})
		if err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(events)
		}
		tw := newTable()
		fmt.Fprintf(tw, "ID\tDEVICE\tSTART\tDURATION\tMETADATA\n")
		for _, evt := range events {
			device := evt.DeviceID
			if evt.Device != nil && evt.Device.Name != "" {
				device = evt.Device.Name
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				evt.ID,
				device,
				formatTime(evt.Start),
				evt.Duration(),
				joinMeta(evt.Metadata))
		}
		flushTable(tw)
		return nil
	},
}

var (
	eventCreateDeviceID   string
	eventCreateDeviceName string
	eventCreateStart      string
	eventCreateDuration   time.Duration
	eventCreateMeta       []string
)

var eventsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Record a new event",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := mustClient()
		if err != nil {
			return err
		}
		start, err := parseTimeFlag(eventCreateStart, "start")
		if err != nil {
			return err
		}
		meta, err := parseKeyValues(eventCreateMeta, "meta")
		if err != nil {
			return err
		}
		evt, err := client.CreateEvent(cmd.Context(), datalode.CreateEventParams{
			DeviceID:   eventCreateDeviceID,
			DeviceName: eventCreateDeviceName,
			Start:      start,
			Duration:   eventCreateDuration,
			Metadata:   meta,
		})
		if err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(evt)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Event %s created on %s at %s\n",
			evt.ID, evt.DeviceID, formatTime(evt.Start))
		return nil
	},
}

var eventsDeleteCmd = &cobra.Command{
	Use:   "delete <event-id>",
	Short: "Delete an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := mustClient()
		if err != nil {
			return err
		}
		if err := client.DeleteEvent(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Event %s deleted\n", args[0])
		return nil
	},
}

func init() {
	eventsListCmd.Flags().StringVar(&eventListDeviceID, "device-id", "", "Filter by device ID")
	eventsListCmd.Flags().StringVar(&eventListDeviceName, "device-name", "", "Filter by device name")
	eventsListCmd.Flags().StringVar(&eventListQuery, "query", "", "Metadata query (key:value pairs)")
	eventsListCmd.Flags().StringVar(&eventListStart, "start", "", "Range start (RFC 3339)")
	eventsListCmd.Flags().StringVar(&eventListEnd, "end", "", "Range end (RFC 3339)")
	eventsListCmd.Flags().StringVar(&eventListProject, "project-id", "", "Project ID")
	eventsListCmd.Flags().StringVar(&eventListSortBy, "sort-by", "", "Sort field (snake_case)")
	eventsListCmd.Flags().StringVar(&eventListSortOrder, "sort-order", "", "Sort order: asc|desc")
	eventsListCmd.Flags().IntVar(&eventListLimit, "limit", 0, "Maximum number of events")
	eventsListCmd.Flags().IntVar(&eventListOffset, "offset", 0, "Pagination offset")

	eventsCreateCmd.Flags().StringVar(&eventCreateDeviceID, "device-id", "", "Device ID")
	eventsCreateCmd.Flags().StringVar(&eventCreateDeviceName, "device-name", "", "Device name")
	eventsCreateCmd.Flags().StringVar(&eventCreateStart, "start", "now", "Event start (RFC 3339 or \"now\")")
	eventsCreateCmd.Flags().DurationVar(&eventCreateDuration, "duration", 0, "Event duration (0 for instantaneous)")
	eventsCreateCmd.Flags().StringArrayVar(&eventCreateMeta, "meta", nil, "Metadata key=value (repeatable)")

	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsCreateCmd)
	eventsCmd.AddCommand(eventsDeleteCmd)
}
