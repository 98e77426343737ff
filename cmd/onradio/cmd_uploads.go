/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/friendsincode/onradio/internal/media"
	"github.com/friendsincode/onradio/internal/models"
)

var uploadsDelete bool

var uploadsCmd = &cobra.Command{
	Use:   "uploads",
	Short: "Manage uploaded images",
}

var uploadsOrphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "List uploads no station references",
	Long: `List uploaded files that no station's logo, background, banners or
program photos point at. With --delete they are removed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		ctx := cmd.Context()

		stations, err := openStations(ctx)
		if err != nil {
			return err
		}
		ids, err := stations.List(ctx)
		if err != nil {
			return err
		}
		configs := make([]models.StationConfig, 0, len(ids))
		for _, id := range ids {
			sc, err := stations.Get(ctx, id)
			if err != nil {
				return fmt.Errorf("read station %s: %w", id, err)
			}
			configs = append(configs, sc)
		}

		mediaSvc, err := media.NewService(ctx, cfg, logger)
		if err != nil {
			return err
		}
		result, err := mediaSvc.Orphans(ctx, configs)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, name := range result.Orphans {
			if uploadsDelete {
				if err := mediaSvc.Delete(ctx, name); err != nil {
					return fmt.Errorf("delete %s: %w", name, err)
				}
				fmt.Fprintf(out, "deleted %s\n", name)
				continue
			}
			fmt.Fprintln(out, name)
		}
		fmt.Fprintf(out, "%d of %d uploads unreferenced\n", len(result.Orphans), result.Total)
		return nil
	},
}

func init() {
	uploadsOrphansCmd.Flags().BoolVar(&uploadsDelete, "delete", false, "Delete unreferenced uploads")
	uploadsCmd.AddCommand(uploadsOrphansCmd)
	rootCmd.AddCommand(uploadsCmd)
}
