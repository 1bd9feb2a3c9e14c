/*
Copyright © 2025 Viktor Kozyar <viktor.kozyar@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vkozyar/lorekit/internal/content"
	"github.com/vkozyar/lorekit/internal/dataset"
	"github.com/vkozyar/lorekit/internal/render"
)

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export <filename>",
	Short: "Export a generated file as HTML pages",
	Long: `Render each item of a generated or translated output file (named
relative to the output directory) as a standalone HTML page, one file per
item key.

Example:
  lorekit export eng_zodiacs.json -o site/eng`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}

		path := filepath.Join(settings.OutputDir, args[0])
		out, err := dataset.LoadOutputFile(path)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(exportDir, 0755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}

		exported := 0
		for _, item := range out.Data {
			c, err := content.Decode(item.Content)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", item.Key, err)
				continue
			}

			page := render.Page(c, out.Language)
			target := filepath.Join(exportDir, item.Key+".html")
			if err := os.WriteFile(target, []byte(page), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", target, err)
			}
			exported++
		}

		fmt.Printf("Exported %d of %d items to %s\n", exported, len(out.Data), exportDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportDir, "output", "o", "export", "Directory for the rendered HTML pages")
}
