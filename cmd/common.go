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
	"log/slog"
	"os"

	"github.com/vkozyar/lorekit/internal/config"
	"github.com/vkozyar/lorekit/internal/store"
)

// loadSettings loads configuration and applies CLI flag overrides.
func loadSettings() (*config.Settings, error) {
	if debugMode {
		// Let Load succeed without an API key; debug runs never reach the API.
		os.Setenv("LOREBOT_DEBUG", "true")
	}
	settings, err := config.Load()
	if err != nil {
		return nil, err
	}
	if debugMode {
		settings.DebugMode = true
	}
	return settings, nil
}

// newLogger builds the logger injected into the drivers.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose || debugMode {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openStore opens the run-history database unless disabled. A nil store is
// valid: the drivers simply skip bookkeeping.
func openStore(settings *config.Settings) *store.Store {
	if noLog || settings.DebugMode || settings.DBPath == "" {
		return nil
	}
	db, err := store.New(settings.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: run history disabled: %v\n", err)
		return nil
	}
	return db
}
