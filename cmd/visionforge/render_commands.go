package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"visionforge/internal/render"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Start and inspect render jobs",
	}
	renderCmd.AddCommand(newRenderStartCommand(ctx))
	renderCmd.AddCommand(newRenderStatusCommand(ctx))
	renderCmd.AddCommand(newRenderHistoryCommand(ctx))
	renderCmd.AddCommand(newRenderOutputCommand(ctx))
	return renderCmd
}

func newRenderStartCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "start [input.json]",
		Short: "Start a render from a render-input document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input render.Input
			if len(args) == 1 {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("read render input: %w", err)
				}
				if err := json.Unmarshal(data, &input); err != nil {
					return fmt.Errorf("parse render input: %w", err)
				}
			}

			client, err := ctx.client()
			if err != nil {
				return err
			}
			resp, err := client.StartRender(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Render %s\n", resp.Status)
			return nil
		},
	}
}

func newRenderStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current render state",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			status, err := client.RenderStatus(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, status)
			}
			fmt.Fprintf(out, "Status:   %s\n", status.Status)
			fmt.Fprintf(out, "Progress: %d%%\n", status.Progress)
			if status.Error != "" {
				fmt.Fprintf(out, "Error:    %s\n", status.Error)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit raw JSON instead of text")
	return cmd
}

func newRenderHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent render jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			resp, err := client.RenderHistory(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, resp)
			}
			if len(resp.Jobs) == 0 {
				fmt.Fprintln(out, "No render jobs recorded")
				return nil
			}

			rows := make([][]string, 0, len(resp.Jobs))
			for _, job := range resp.Jobs {
				rows = append(rows, []string{
					strconv.FormatInt(job.ID, 10),
					job.Status,
					fmt.Sprintf("%d%%", job.Progress),
					job.StartedAt,
					job.FinishedAt,
					job.Error,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Status", "Progress", "Started", "Finished", "Error"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of jobs to list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit raw JSON instead of a table")
	return cmd
}

func newRenderOutputCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "output",
		Short: "Download the rendered video artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			baseURL, err := ctx.apiBaseURL()
			if err != nil {
				return err
			}

			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, baseURL+"/api/render/output", nil)
			if err != nil {
				return err
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return fmt.Errorf("fetch output: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusNotFound {
				return fmt.Errorf("no render output available")
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("fetch output: unexpected status %d", resp.StatusCode)
			}

			out, err := os.Create(outputPath)
			if err != nil {
				return fmt.Errorf("create %s: %w", outputPath, err)
			}
			defer out.Close()

			written, err := io.Copy(out, resp.Body)
			if err != nil {
				return fmt.Errorf("write %s: %w", outputPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d bytes to %s\n", written, outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "out", "o", "video.mp4", "Destination file for the video artifact")
	return cmd
}
