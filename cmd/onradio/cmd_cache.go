/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/friendsincode/onradio/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the Redis response cache",
}

var cacheFlushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Drop every cached station config and the radio list",
	Long: `Drop every onradio key from Redis. Run it after editing station files
by hand or through this CLI, which does not notify running servers.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}

		cc := cache.DefaultConfig()
		cc.RedisAddr = cfg.RedisAddr
		cc.RedisPassword = cfg.RedisPassword
		cc.RedisDB = cfg.RedisDB
		c, err := cache.New(cc, logger)
		if err != nil {
			return err
		}
		defer c.Close()

		if !c.IsAvailable() {
			return fmt.Errorf("redis at %s is unreachable", cc.RedisAddr)
		}
		if err := c.FlushAll(cmd.Context()); err != nil {
			return fmt.Errorf("flush cache: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "cache flushed")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheFlushCmd)
	rootCmd.AddCommand(cacheCmd)
}
