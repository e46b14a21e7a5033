// Package cli implements the rtop command-line interface.
//
// The root command runs the dashboard. Subcommands cover everything that
// does not need a terminal:
//
//	rtop                       - Live dashboard
//	rtop export [-o file]      - One-off metrics snapshot (json, yaml, csv)
//	rtop show-config           - Print the effective configuration
//	rtop init-config [--force] - Write a commented default config
//	rtop set-config <key> <v>  - Change one config value in place
//	rtop doctor [--json]       - Diagnose missing metrics
//	rtop version               - Build information
//	rtop completion <shell>    - Shell completion scripts
//
// # Startup
//
// Every command loads the config file (or the defaults), applies flag
// overrides and validates the result before doing anything else. The
// dashboard then detects the host's metric sources, builds the monitors and
// registers each one with the scheduler on its configured cadence.
//
// # Logging
//
// The terminal belongs to the dashboard, so logs only go to a file: --log
// picks the path, -v alone uses ~/.local/state/rtop/rtop.log.
//
// # Exit Codes
//
// Config and input errors exit 2, a missing terminal exits 3, anything else
// exits 1.
package cli
