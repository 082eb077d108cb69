package main

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newNotifyCommand(addr *string) *cobra.Command {
	var creator, title, datecode, itemURL string

	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Send a notification to the daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient(*addr)
			q := url.Values{"creator": {creator}, "title": {title}, "datecode": {datecode}, "url": {itemURL}}
			resp, err := client.post(cmd.Context(), "/api/notify", q, nil)
			if err != nil {
				printStatus(false, "notify failed: %v", err)
				return err
			}
			printStatus(true, "queued: %v", resp["status"])
			return nil
		},
	}
	cmd.Flags().StringVar(&creator, "creator", "", "Creator/show name")
	cmd.Flags().StringVar(&title, "title", "", "Notification title")
	cmd.Flags().StringVar(&datecode, "datecode", "", "Datecode in YYYYMMDD form")
	cmd.Flags().StringVar(&itemURL, "url", "", "Source URL")
	cmd.MarkFlagRequired("creator")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("datecode")
	cmd.MarkFlagRequired("url")
	return cmd
}

func newEnqueueCommand(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "enqueue <message>",
		Short: "Enqueue a raw 'CREATOR :: DATECODE :: TITLE\\n\\nURL' message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient(*addr)
			resp, err := client.post(cmd.Context(), "/enqueue", nil, map[string]string{"message": args[0]})
			if err != nil {
				printStatus(false, "enqueue failed: %v", err)
				return err
			}
			printStatus(true, "queued: %v", resp["status"])
			return nil
		},
	}
}

func newGetItemsCommand(addr *string) *cobra.Command {
	var name, value string

	cmd := &cobra.Command{
		Use:   "get-items <archive>",
		Short: "List items from an archive (e.g. pass, download_fail, series_score)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient(*addr)
			q := url.Values{"datafrom": {args[0]}}
			if name != "" {
				q.Set("name", name)
			}
			if value != "" {
				q.Set("value", value)
			}
			data, err := client.get(cmd.Context(), "/get_item", q)
			if err != nil {
				return err
			}
			var items []map[string]any
			if err := json.Unmarshal(data, &items); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
			if len(items) == 0 {
				printWarn("no items in archive %s", args[0])
				return nil
			}
			headers := []string{"creator", "title", "datecode", "url"}
			rows := make([][]string, 0, len(items))
			for _, item := range items {
				row := make([]string, len(headers))
				for i, h := range headers {
					row[i] = fmt.Sprintf("%v", item[h])
				}
				rows = append(rows, row)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Filter: field name")
	cmd.Flags().StringVar(&value, "value", "", "Filter: field value")
	return cmd
}

func newDequeueCommand(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "dequeue <item-json>",
		Short: "Remove a pending item from the decision queue by exact match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var item map[string]any
			if err := json.Unmarshal([]byte(args[0]), &item); err != nil {
				return fmt.Errorf("parse item JSON: %w", err)
			}
			client := newAPIClient(*addr)
			resp, err := client.post(cmd.Context(), "/dequeue_item", nil, item)
			if err != nil {
				printStatus(false, "dequeue failed: %v", err)
				return err
			}
			removed, _ := resp["removed"].(bool)
			printStatus(removed, "removed: %v", resp["removed"])
			return nil
		},
	}
}

func newStageCommand(addr *string) *cobra.Command {
	stageCmd := &cobra.Command{
		Use:   "stage",
		Short: "Start or stop a pipeline stage",
	}

	for _, verb := range []string{"start", "stop"} {
		verb := verb
		stageCmd.AddCommand(&cobra.Command{
			Use:   verb + " <decision|aging|download>",
			Short: fmt.Sprintf("%s a pipeline stage", verb),
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				client := newAPIClient(*addr)
				resp, err := client.post(cmd.Context(), "/api/"+verb+"_"+args[0], nil, nil)
				if err != nil {
					printStatus(false, "%s %s failed: %v", verb, args[0], err)
					return err
				}
				printStatus(true, "%s: running=%v", resp["stage"], resp["running"])
				return nil
			},
		})
	}
	return stageCmd
}
