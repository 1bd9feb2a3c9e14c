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
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vkozyar/lorekit/internal/content"
	"github.com/vkozyar/lorekit/internal/dataset"
	"github.com/vkozyar/lorekit/internal/detector"
	"github.com/vkozyar/lorekit/internal/translator"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <filename>",
	Short: "Audit a generated file's structure and language",
	Long: `Verify a generated or translated output file (named relative to the
output directory): run the structural validation the translator applies to
its source, and additionally check that each item's title and one-liner
appear to be written in the file's declared language.

This is an audit tool; it never modifies files and the pipeline does not
depend on it.`,
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

		if out.TotalItems != len(out.Data) {
			fmt.Printf("WARNING: total_items=%d but data has %d entries\n", out.TotalItems, len(out.Data))
		}

		if err := translator.ValidateSource(out); err != nil {
			return fmt.Errorf("structural validation failed: %w", err)
		}
		fmt.Printf("Structure OK: %d items, language %s\n", len(out.Data), out.Language)

		if !detector.Supported(out.Language) {
			fmt.Printf("Language %q not supported by the detector, skipping language audit\n", out.Language)
			return nil
		}

		det := detector.New()
		mismatches := 0
		for _, item := range out.Data {
			c, err := content.Decode(item.Content)
			if err != nil {
				continue
			}
			sample := c.Title + ". " + c.OneLiner
			if !det.Matches(sample, out.Language) {
				mismatches++
				fmt.Printf("  %s: detected %q, expected %q\n", item.Key, det.Detect(sample), out.Language)
			}
		}

		if mismatches > 0 {
			return fmt.Errorf("%d of %d items do not match language %q", mismatches, len(out.Data), out.Language)
		}
		fmt.Println("Language audit passed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
