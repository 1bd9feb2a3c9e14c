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
	"os"

	"github.com/spf13/cobra"
)

var version = "0.3.0"

var (
	debugMode bool
	verbose   bool
	noLog     bool
)

var rootCmd = &cobra.Command{
	Use:   "lorekit",
	Short: "Astrology reference content generator",
	Long: `lorekit batch-generates astrology reference text by filling prompt
templates with structured data (zodiac signs, planets) and sending the
prompts to an OpenAI-compatible chat-completions API, then translates the
generated files into every supported language.

Configuration comes from LOREBOT_* environment variables or lorekit.yaml.
LOREBOT_API_KEY is required unless --debug is set.

Use "lorekit generate --help" and "lorekit translate --help" for details.`,
	Version: version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Preview prompts without sending requests or writing files")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug-level logging")
	rootCmd.PersistentFlags().BoolVar(&noLog, "no-log", false, "Disable the run-history database")
}
