/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/friendsincode/onradio/internal/models"
	"github.com/friendsincode/onradio/internal/schema"
	"github.com/friendsincode/onradio/internal/station"
)

var configOutput string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and check station configurations",
}

var configGetCmd = &cobra.Command{
	Use:   "get <station>",
	Short: "Print a station's normalized configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		stations, err := openStations(cmd.Context())
		if err != nil {
			return err
		}
		sc, err := stations.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return writeStationConfig(cmd.OutOrStdout(), sc, configOutput)
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a configuration file against the station schema",
	Long:  "Check a configuration document before copying it into the data directory. Use - to read from stdin.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if args[0] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return err
		}
		if err := validateDocument(data); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return nil
	},
}

func init() {
	configGetCmd.Flags().StringVarP(&configOutput, "output", "o", "json", "Output format: json or yaml")
	configCmd.AddCommand(configGetCmd, configValidateCmd)
	rootCmd.AddCommand(configCmd)
}

// writeStationConfig prints sc as JSON or YAML. YAML is produced from the
// JSON form so both use the same field names.
func writeStationConfig(w io.Writer, sc models.StationConfig, format string) error {
	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return err
	}

	switch format {
	case "json", "":
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		var doc map[string]any
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func validateDocument(data []byte) error {
	v, err := schema.NewValidator()
	if err != nil {
		return err
	}
	if err := v.Validate(data); err != nil {
		return err
	}

	var sc models.StationConfig
	if err := json.Unmarshal(data, &sc); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return station.Validate(sc)
}
