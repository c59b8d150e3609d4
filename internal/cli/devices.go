package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/datalode-hq/datalode-go/pkg/datalode"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Manage registered devices",
}

var deviceListProject string

var devicesListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := mustClient()
		if err != nil {
			return err
		}
		devices, err := client.ListDevices(cmd.Context(), datalode.DeviceFilter{ProjectID: deviceListProject})
		if err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(devices)
		}
		tw := newTable()
		fmt.Fprintf(tw, "ID\tNAME\tPROJECT\tPROPERTIES\n")
		for _, dev := range devices {
			project := dev.ProjectID
			if project == "" {
				project = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", dev.ID, dev.Name, project, joinProps(dev.Properties))
		}
		flushTable(tw)
		return nil
	},
}

var devicesGetCmd = &cobra.Command{
	Use:   "get <id-or-name>",
	Short: "Describe a device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := mustClient()
		if err != nil {
			return err
		}
		dev, err := client.GetDevice(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(dev)
		}
		tw := newTable()
		fmt.Fprintf(tw, "Field\tValue\n")
		fmt.Fprintf(tw, "ID\t%s\n", dev.ID)
		fmt.Fprintf(tw, "Name\t%s\n", dev.Name)
		fmt.Fprintf(tw, "Project\t%s\n", dev.ProjectID)
		fmt.Fprintf(tw, "Properties\t%s\n", joinProps(dev.Properties))
		flushTable(tw)
		return nil
	},
}

var (
	deviceCreateName    string
	deviceCreateProject string
	deviceCreateProps   []string
)

var devicesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a new device",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := mustClient()
		if err != nil {
			return err
		}
		props, err := parseProperties(deviceCreateProps)
		if err != nil {
			return err
		}
		dev, err := client.CreateDevice(cmd.Context(), datalode.CreateDeviceParams{
			Name:       deviceCreateName,
			Properties: props,
			ProjectID:  deviceCreateProject,
		})
		if err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(dev)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Device %s created as %s\n", dev.Name, dev.ID)
		return nil
	},
}

var devicesDeleteCmd = &cobra.Command{
	Use:   "delete <id-or-name>",
	Short: "Delete a device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := mustClient()
		if err != nil {
			return err
		}
		if err := client.DeleteDevice(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Device %s deleted\n", args[0])
		return nil
	},
}

func init() {
	devicesListCmd.Flags().StringVar(&deviceListProject, "project-id", "", "Project ID")
	devicesCreateCmd.Flags().StringVar(&deviceCreateName, "name", "", "Device name (required)")
	devicesCreateCmd.Flags().StringVar(&deviceCreateProject, "project-id", "", "Project ID")
	devicesCreateCmd.Flags().StringArrayVar(&deviceCreateProps, "property", nil, "Property key=value (repeatable)")
	_ = devicesCreateCmd.MarkFlagRequired("name")

	devicesCmd.AddCommand(devicesListCmd)
	devicesCmd.AddCommand(devicesGetCmd)
	devicesCmd.AddCommand(devicesCreateCmd)
	devicesCmd.AddCommand(devicesDeleteCmd)
}

// parseProperties converts key=value flags into typed property values.
// Values parse as bool, then integer, then float, falling back to string.
func parseProperties(pairs []string) (map[string]interface{}, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid --property %q (want key=value)", pair)
		}
		key = strings.TrimSpace(key)
		switch {
		case raw == "true" || raw == "false":
			out[key] = raw == "true"
		default:
			if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
				out[key] = n
			} else if f, err := strconv.ParseFloat(raw, 64); err == nil {
				out[key] = f
			} else {
				out[key] = raw
			}
		}
	}
	return out, nil
}
