/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tenantsCmd = &cobra.Command{
	Use:     "tenants",
	Aliases: []string{"radios"},
	Short:   "List and create radio stations",
}

var tenantsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every station id",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		stations, err := openStations(cmd.Context())
		if err != nil {
			return err
		}
		ids, err := stations.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, id := range ids {
			if cfg.BaseDomain != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s.%s\n", id, id, cfg.BaseDomain)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
		}
		return nil
	},
}

var tenantsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a station copied from the default one",
	Long: `Create a station. The name is reduced to letters, digits, "-" and "_"
to form the station id, which is also its subdomain.

Examples:
  onradio tenants create "Radio Uno"   # creates RadioUno`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		stations, err := openStations(cmd.Context())
		if err != nil {
			return err
		}
		if err := stations.SeedDefault(cmd.Context()); err != nil {
			return err
		}
		id, err := stations.Create(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", id)
		return nil
	},
}

func init() {
	tenantsCmd.AddCommand(tenantsListCmd, tenantsCreateCmd)
	rootCmd.AddCommand(tenantsCmd)
}
