package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"visionforge/internal/api"
	"visionforge/internal/script"
)

func newScriptCommand(ctx *commandContext) *cobra.Command {
	scriptCmd := &cobra.Command{
		Use:   "script",
		Short: "Inspect and save the scene script",
	}
	scriptCmd.AddCommand(newScriptShowCommand(ctx))
	scriptCmd.AddCommand(newScriptSaveCommand(ctx))
	return scriptCmd
}

func newScriptShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the persisted scene list",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			scenes, err := client.Script(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, scenes)
			}
			if len(scenes) == 0 {
				fmt.Fprintln(out, "Script is empty")
				return nil
			}

			rows := make([][]string, 0, len(scenes))
			for _, scene := range scenes {
				rows = append(rows, []string{
					strconv.Itoa(scene.ID),
					scene.Speaker,
					truncate(scene.Text, 40),
					scene.Action,
					fmt.Sprintf("%.2fs", scene.Duration),
					scene.Audio,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Speaker", "Text", "Action", "Duration", "Audio"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit raw JSON instead of a table")
	return cmd
}

func newScriptSaveCommand(ctx *commandContext) *cobra.Command {
	var generateAudio bool
	var speedScale float64

	cmd := &cobra.Command{
		Use:   "save <scenes.json>",
		Short: "Save a full replacement scene list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read scene file: %w", err)
			}
			var scenes []script.Scene
			if err := json.Unmarshal(data, &scenes); err != nil {
				return fmt.Errorf("parse scene file: %w", err)
			}

			client, err := ctx.client()
			if err != nil {
				return err
			}
			resp, err := client.Save(cmd.Context(), api.SaveRequest{
				Scenes:        scenes,
				GenerateAudio: generateAudio,
				SpeedScale:    speedScale,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d scenes\n", len(resp.Scenes))
			return nil
		},
	}

	cmd.Flags().BoolVar(&generateAudio, "generate-audio", true, "Synthesize audio for new or changed scenes")
	cmd.Flags().Float64Var(&speedScale, "speed-scale", 0, "Global speed multiplier applied to speaker profiles")
	return cmd
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit-1]) + "…"
}
