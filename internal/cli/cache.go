package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear cached analyses",
}

var cacheSizeCmd = &cobra.Command{
	Use:   "size",
	Short: "Print the number of cached analyses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFromFlags(cmd)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), a.cache.GetCacheSize())
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached analysis",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFromFlags(cmd)
		if err != nil {
			return err
		}
		before := a.cache.GetCacheSize()
		a.cache.ClearCache()
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cached analyses\n", before-a.cache.GetCacheSize())
		return nil
	},
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print where and how analyses are cached",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFromFlags(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Directory: %s\n", a.cacheDir)
		fmt.Fprintf(out, "Prefix: %s\n", a.cache.Prefix())
		fmt.Fprintf(out, "TTL: %s\n", a.cache.TTL())
		fmt.Fprintf(out, "Entries: %d\n", a.cache.GetCacheSize())
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheSizeCmd, cacheClearCmd, cacheInfoCmd)
}

func appFromFlags(cmd *cobra.Command) (*app, error) {
	cfg, err := InitConfigWithError()
	if err != nil {
		return nil, err
	}
	return newApp(cfg, cmd.ErrOrStderr(), false)
}
