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
	"sort"

	"github.com/spf13/cobra"

	"github.com/vkozyar/lorekit/internal/config"
	"github.com/vkozyar/lorekit/internal/generator"
)

var (
	allLanguages  bool
	languageCodes []string
)

var generateCmd = &cobra.Command{
	Use:   "generate <template_path> <base_filename> <data_path>",
	Short: "Generate content from a template and a data file",
	Long: `Generate content by filling the prompt template with each record of the
data file and sending the result to the LLM.

By default a single file is produced for the default language
(eng_<base_filename>.json). With --all-languages one file per registry
language is produced; --language restricts that set to specific codes.

A language whose output file already exists is skipped without any LLM
traffic; delete the file to regenerate.

Example:
  lorekit generate config/zodiac_prompt.txt zodiacs.json config/zodiac.json
  lorekit generate config/zodiac_prompt.txt zodiacs.json config/zodiac.json --all-languages`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		templatePath, baseFilename, dataPath := args[0], args[1], args[2]

		settings, err := loadSettings()
		if err != nil {
			return err
		}
		log := newLogger()

		db := openStore(settings)
		if db != nil {
			defer db.Close()
		}

		opts := []generator.Option{}
		if db != nil {
			opts = append(opts, generator.WithStore(db))
		}
		gen := generator.New(settings, log, opts...)

		ctx := context.Background()

		if !allLanguages && len(languageCodes) == 0 {
			outPath, err := gen.GenerateFile(ctx, templatePath, baseFilename, dataPath)
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}
			fmt.Printf("Generation completed successfully!\n  Output: %s\n", outPath)
			return nil
		}

		registry, err := settings.Languages()
		if err != nil {
			return err
		}

		var langs []config.Language
		if len(languageCodes) > 0 {
			for _, code := range languageCodes {
				lang, ok := registry[code]
				if !ok {
					return fmt.Errorf("language code %q not found in registry", code)
				}
				langs = append(langs, lang)
			}
		} else {
			for _, lang := range registry {
				langs = append(langs, lang)
			}
			sort.Slice(langs, func(i, j int) bool { return langs[i].Code < langs[j].Code })
		}

		results, err := gen.GenerateAll(ctx, templatePath, baseFilename, dataPath, langs)
		if err != nil {
			return fmt.Errorf("generation failed: %w", err)
		}

		fmt.Println("Generation completed successfully!")
		codes := make([]string, 0, len(results))
		for code := range results {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for _, code := range codes {
			fmt.Printf("  %s: %s\n", code, results[code])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().BoolVar(&allLanguages, "all-languages", false, "Generate one file per language in the registry")
	generateCmd.Flags().StringSliceVarP(&languageCodes, "language", "l", nil, "Language code to generate (repeatable; implies multi-language mode)")
}
