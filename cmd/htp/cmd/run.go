package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tuya-yu/HeartDrawing/internal/workflow"
)

func newRunCommand(a *app) *cobra.Command {
	var (
		image    string
		save     string
		language string
	)

	c := &cobra.Command{
		Use:   "run",
		Short: "Analyze one drawing and write the JSON result",
		Example: `  htp run --image drawing.png --save result.json
  htp run --image drawing.jpg --language en`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			rt, release, err := a.runtime()
			if err != nil {
				return err
			}
			defer func() {
				if err := release(); err != nil {
					a.logger.Warn("runtime release failed", "error", err)
				}
			}()

			result, err := workflow.Execute(c.Context(), rt, image, language)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(result, "", "    ")
			if err != nil {
				return fmt.Errorf("marshal result: %w", err)
			}
			data = append(data, '\n')

			if save == "" {
				_, err := c.OutOrStdout().Write(data)
				return err
			}

			if err := os.WriteFile(save, data, 0o644); err != nil {
				return fmt.Errorf("save result: %w", err)
			}
			fmt.Fprintf(c.OutOrStdout(), "result saved to %s\n", save)
			return nil
		},
	}

	c.Flags().StringVar(&image, "image", "", "drawing file path or base64 payload")
	c.Flags().StringVar(&save, "save", "", "write the JSON result to this file instead of stdout")
	c.Flags().StringVar(&language, "language", "zh", "report language (zh, en)")
	_ = c.MarkFlagRequired("image")

	return c
}
