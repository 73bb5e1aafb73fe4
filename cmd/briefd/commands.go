package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/solheim/briefd/internal/config"
)

// --- draft ---

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Manage brief drafts",
}

var draftNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Start a new draft",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/v1/drafts", nil)
		if err != nil {
			return err
		}

		var d struct {
			ID      string `json:"id"`
			Summary string `json:"summary"`
		}
		if err := decodeJSON(resp, &d); err != nil {
			return err
		}

		printSuccess("Started draft %s", d.ID)
		fmt.Println(d.ID)
		return nil
	},
}

var draftSayCmd = &cobra.Command{
	Use:   "say <id> <message>",
	Short: "Send a message to a draft",
	Long: `Send a message to a draft. The inferred fields are merged into the
draft's live brief.

Examples:
  briefd draft say 4f1c "make me 5 Instagram posts about our product launch"
  briefd draft say 4f1c "actually make it for LinkedIn"`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		message := strings.Join(args[1:], " ")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/v1/drafts/"+id+"/messages", map[string]string{
			"message": message,
		})
		if err != nil {
			return err
		}

		var turn struct {
			Summary  string `json:"summary"`
			Question *struct {
				Prompt  string   `json:"prompt"`
				Options []string `json:"options"`
			} `json:"question"`
		}
		if err := decodeJSON(resp, &turn); err != nil {
			return err
		}

		fmt.Printf("%s\n", colorize(colorBold, turn.Summary))
		if turn.Question != nil {
			fmt.Printf("\n%s\n", turn.Question.Prompt)
			if len(turn.Question.Options) > 0 {
				fmt.Printf("  (%s)\n", strings.Join(turn.Question.Options, ", "))
			}
		}
		return nil
	},
}

var draftShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a draft's current brief",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/v1/drafts/"+args[0])
		if err != nil {
			return err
		}

		var d struct {
			ID      string          `json:"id"`
			Status  string          `json:"status"`
			Summary string          `json:"summary"`
			Brief   json.RawMessage `json:"brief"`
		}
		if err := decodeJSON(resp, &d); err != nil {
			return err
		}

		printStatus("Draft", "%s (%s)", d.ID, d.Status)
		printStatus("Summary", "%s", d.Summary)

		var pretty any
		if err := json.Unmarshal(d.Brief, &pretty); err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(pretty)
	},
}

var draftListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent drafts",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), fmt.Sprintf("/v1/drafts?limit=%d", limit))
		if err != nil {
			return err
		}

		var drafts []struct {
			ID        string `json:"id"`
			Status    string `json:"status"`
			Summary   string `json:"summary"`
			UpdatedAt string `json:"updated_at"`
		}
		if err := decodeJSON(resp, &drafts); err != nil {
			return err
		}

		if len(drafts) == 0 {
			fmt.Println("No drafts found.")
			return nil
		}

		for _, d := range drafts {
			summary := d.Summary
			if len(summary) > 80 {
				summary = summary[:80] + "..."
			}
			fmt.Printf("%s  %-8s  %s\n",
				colorize(colorCyan, d.ID[:8]),
				d.Status,
				summary,
			)
		}
		return nil
	},
}

var draftArchiveCmd = &cobra.Command{
	Use:   "archive <id>",
	Short: "Archive a draft",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.delete(cmd.Context(), "/v1/drafts/"+args[0])
		if err != nil {
			return err
		}

		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Archived draft %s", args[0])
		return nil
	},
}

func init() {
	draftListCmd.Flags().Int("limit", 20, "maximum number of drafts to list")
	draftCmd.AddCommand(draftNewCmd)
	draftCmd.AddCommand(draftSayCmd)
	draftCmd.AddCommand(draftShowCmd)
	draftCmd.AddCommand(draftListCmd)
	draftCmd.AddCommand(draftArchiveCmd)
}

// --- audience ---

var audienceCmd = &cobra.Command{
	Use:   "audience",
	Short: "Manage brand audience profiles",
}

var audienceAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add or update an audience profile",
	Long: `Add or update an audience profile used during audience matching.

Examples:
  briefd audience add --name "Startup Founders" --job-titles founder,ceo --primary
  briefd audience add --name "Busy Parents" --demographics "25-45, urban"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			return fmt.Errorf("--name is required")
		}
		id, _ := cmd.Flags().GetString("id")
		jobTitles, _ := cmd.Flags().GetString("job-titles")
		industries, _ := cmd.Flags().GetString("industries")
		psychographics, _ := cmd.Flags().GetString("psychographics")
		demographics, _ := cmd.Flags().GetString("demographics")
		primary, _ := cmd.Flags().GetBool("primary")

		body := map[string]any{
			"name":       name,
			"is_primary": primary,
		}
		if id != "" {
			body["id"] = id
		}
		if v := splitList(jobTitles); v != nil {
			body["job_titles"] = v
		}
		if v := splitList(industries); v != nil {
			body["industries"] = v
		}
		if v := splitList(psychographics); v != nil {
			body["psychographics"] = v
		}
		if demographics != "" {
			body["demographics"] = demographics
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/v1/audiences", body)
		if err != nil {
			return err
		}

		var saved struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		}
		if err := decodeJSON(resp, &saved); err != nil {
			return err
		}

		printSuccess("Saved audience %s (%s)", saved.Name, saved.ID)
		return nil
	},
}

var audienceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List audience profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/v1/audiences")
		if err != nil {
			return err
		}

		var profiles []struct {
			ID        string   `json:"id"`
			Name      string   `json:"name"`
			JobTitles []string `json:"job_titles"`
			IsPrimary bool     `json:"is_primary"`
		}
		if err := decodeJSON(resp, &profiles); err != nil {
			return err
		}

		if len(profiles) == 0 {
			fmt.Println("No audiences found.")
			return nil
		}

		for _, p := range profiles {
			marker := " "
			if p.IsPrimary {
				marker = colorize(colorBold, "*")
			}
			line := fmt.Sprintf("%s %s  %s", marker, colorize(colorCyan, p.ID[:8]), p.Name)
			if len(p.JobTitles) > 0 {
				line += fmt.Sprintf("  (%s)", strings.Join(p.JobTitles, ", "))
			}
			fmt.Println(line)
		}
		return nil
	},
}

var audienceRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete an audience profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.delete(cmd.Context(), "/v1/audiences/"+args[0])
		if err != nil {
			return err
		}

		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Deleted audience %s", args[0])
		return nil
	},
}

func init() {
	audienceAddCmd.Flags().String("name", "", "audience display name")
	audienceAddCmd.Flags().String("id", "", "profile ID to update (omit to create)")
	audienceAddCmd.Flags().String("job-titles", "", "comma-separated job titles")
	audienceAddCmd.Flags().String("industries", "", "comma-separated industries")
	audienceAddCmd.Flags().String("psychographics", "", "comma-separated traits")
	audienceAddCmd.Flags().String("demographics", "", "free-form demographics note")
	audienceAddCmd.Flags().Bool("primary", false, "mark as the brand's default audience")
	audienceCmd.AddCommand(audienceAddCmd)
	audienceCmd.AddCommand(audienceListCmd)
	audienceCmd.AddCommand(audienceRmCmd)
}

// --- infer ---

var inferCmd = &cobra.Command{
	Use:   "infer <message>",
	Short: "Run one-shot inference over a message",
	Long: `Run one-shot inference over a message without touching any draft.

Example:
  briefd infer "make me 5 Instagram posts about our product launch"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		message := strings.Join(args, " ")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/v1/infer", map[string]string{
			"message": message,
		})
		if err != nil {
			return err
		}

		var out struct {
			Summary  string          `json:"summary"`
			Result   json.RawMessage `json:"result"`
			Question *struct {
				Prompt string `json:"prompt"`
			} `json:"question"`
		}
		if err := decodeJSON(resp, &out); err != nil {
			return err
		}

		fmt.Printf("%s\n\n", colorize(colorBold, out.Summary))

		var pretty any
		if err := json.Unmarshal(out.Result, &pretty); err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(pretty); err != nil {
			return err
		}

		if out.Question != nil {
			fmt.Printf("\n%s\n", out.Question.Prompt)
		}
		return nil
	},
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		keys := config.ShowAll(cfg)
		for _, k := range keys {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
