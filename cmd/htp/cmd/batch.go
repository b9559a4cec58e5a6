package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tuya-yu/HeartDrawing/internal/prompts"
	"github.com/tuya-yu/HeartDrawing/internal/workflow"
)

// FailedList names the file listing drawings whose analysis failed.
const FailedList = "failed.txt"

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

func newBatchCommand(a *app) *cobra.Command {
	var (
		dir      string
		out      string
		language string
	)

	c := &cobra.Command{
		Use:   "batch",
		Short: "Analyze every drawing in a directory",
		Long: `batch analyzes each .jpg, .jpeg and .png file in --dir one at a time.
For every drawing it writes <name>.json with the full result and <name>.txt
with the report text. Drawings that fail are listed in failed.txt.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			if _, err := prompts.ParseLanguage(language); err != nil {
				return err
			}

			images, err := listImages(dir)
			if err != nil {
				return err
			}
			if len(images) == 0 {
				return fmt.Errorf("no images found in %s", dir)
			}

			if err := os.MkdirAll(out, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}

			rt, release, err := a.runtime()
			if err != nil {
				return err
			}
			defer func() {
				if err := release(); err != nil {
					a.logger.Warn("runtime release failed", "error", err)
				}
			}()

			ctx := c.Context()
			var failed []string

			for i, name := range images {
				if err := ctx.Err(); err != nil {
					return err
				}

				base := strings.TrimSuffix(name, filepath.Ext(name))
				result, err := workflow.Execute(ctx, rt, filepath.Join(dir, name), language)
				if err == nil {
					err = writeReport(out, base, result)
				}
				if err != nil {
					a.logger.Error("drawing analysis failed", "file", name, "error", err)
					failed = append(failed, name)
					fmt.Fprintf(c.OutOrStdout(), "[%d/%d] %s failed\n", i+1, len(images), name)
					continue
				}
				fmt.Fprintf(c.OutOrStdout(), "[%d/%d] %s\n", i+1, len(images), name)
			}

			if err := writeFailed(out, failed); err != nil {
				return err
			}

			fmt.Fprintf(c.OutOrStdout(), "%d succeeded, %d failed\n", len(images)-len(failed), len(failed))
			return nil
		},
	}

	c.Flags().StringVar(&dir, "dir", "", "directory of drawings")
	c.Flags().StringVar(&out, "out", "results", "output directory")
	c.Flags().StringVar(&language, "language", "zh", "report language (zh, en)")
	_ = c.MarkFlagRequired("dir")

	return c
}

func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read image dir: %w", err)
	}

	var images []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			images = append(images, e.Name())
		}
	}
	return images, nil
}

func writeReport(out, base string, result *workflow.WorkflowResult) error {
	data, err := json.MarshalIndent(result, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(filepath.Join(out, base+".json"), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	if err := os.WriteFile(filepath.Join(out, base+".txt"), []byte(result.Deliverable()), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func writeFailed(out string, failed []string) error {
	var b strings.Builder
	for _, name := range failed {
		b.WriteString(name)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(filepath.Join(out, FailedList), []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write failed list: %w", err)
	}
	return nil
}
