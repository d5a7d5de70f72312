// Package config defines configuration for the fivek-crawler CLI.
//
// Configuration can be provided via:
//   - Command-line flags
//   - Environment variables (FIVEK_ prefix)
//   - YAML configuration file
//
// # Structure
//
//	experts: a,b,c,d,e
//	workers: 5
//	saving_dir: /data/fivek
//	image_from: 0
//	image_to: 5000
//	timeout: 5s
//	politeness: 700ms
//	progress: true
//
// The image range is inclusive on both ends and validated against
// 0 <= from < to <= 5000.
package config
