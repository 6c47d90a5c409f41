// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package config loads and merges the library's configuration from
// environment variables, command-line flags and an optional JSON file.
// Later sources fill in fields the earlier ones left empty; the merged
// result is validated before it is handed to the consuming service.
package config
