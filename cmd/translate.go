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
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vkozyar/lorekit/internal/translator"
)

var translateCmd = &cobra.Command{
	Use:   "translate <source_filename>",
	Short: "Translate a generated file into all supported languages",
	Long: `Translate a previously generated output file (named relative to the
output directory) into every locale of the support-languages registry.

The source file is validated first: every item's content must be JSON with
title, one_liner and body_md. Any invalid item aborts the run before a
single request is sent. Per-item translation failures fall back to the
original content; a locale whose target file already exists is skipped.

Example:
  lorekit translate eng_planets_luminaries.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sourceFilename := args[0]

		settings, err := loadSettings()
		if err != nil {
			return err
		}
		log := newLogger()

		db := openStore(settings)
		if db != nil {
			defer db.Close()
		}

		opts := []translator.Option{}
		if db != nil {
			opts = append(opts, translator.WithStore(db))
		}
		tr := translator.New(settings, log, opts...)

		if err := tr.TranslateFile(context.Background(), sourceFilename); err != nil {
			return fmt.Errorf("translation failed: %w", err)
		}

		fmt.Printf("Translation process completed for %s\n", sourceFilename)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(translateCmd)
}
