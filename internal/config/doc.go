// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package config loads audiobench configuration.
//
// Precedence is ENV > YAML file > defaults. The YAML file is parsed strictly:
// unknown keys and multiple documents are errors. Environment keys carry the
// AUDIOBENCH_ prefix. Holder keeps the active configuration and reloads it
// when the file changes.
package config
