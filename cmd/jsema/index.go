package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"jsema/internal/session"
	"jsema/internal/source"
	"jsema/internal/symbols"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Inspect the stub indexes on the classpath",
}

var indexCheckCmd = &cobra.Command{
	Use:   "check [flags]",
	Short: "Materialize every class of every index and report malformed signatures",
	Args:  cobra.NoArgs,
	RunE:  runIndexCheck,
}

var indexCacheCmd = &cobra.Command{
	Use:   "cache [flags] [index.toml...]",
	Short: "Warm or clear the binary cache of parsed indexes",
	Long: `Parse the given indexes, or the ones listed in jsema.toml, and store them
in the index cache. Entries are keyed by the content digest of the index, so a
changed file gets a new entry.`,
	RunE: runIndexCache,
}

func init() {
	indexCheckCmd.Flags().String("format", "pretty", "diagnostics format (pretty|short|json)")
	indexCheckCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	indexCheckCmd.Flags().String("ui", "off", "progress UI (auto|on|off)")
	indexCacheCmd.Flags().String("dir", "", "cache directory (default: [classpath] cache, else the user cache dir)")
	indexCacheCmd.Flags().Bool("clear", false, "remove cached entries instead of writing them")
	indexCmd.AddCommand(indexCheckCmd)
	indexCmd.AddCommand(indexCacheCmd)
}

func runIndexCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}

	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	var (
		s     *session.Session
		stats symbols.MaterializeStats
	)
	check := func(opts ...session.Option) error {
		var err error
		s, err = openSession(cmd, opts...)
		if err != nil {
			return err
		}
		stats, err = s.Materialize(cmd.Context())
		return err
	}
	if shouldUseTUI(mode) {
		err = runWithUI("index check", check)
	} else {
		err = check()
	}
	if s != nil {
		defer s.Close()
	}
	if err != nil {
		return err
	}

	hasErrors, err := printDiagnostics(cmd, s, s.Diagnostics(), format, withNotes)
	if err != nil {
		return err
	}
	if format != "json" {
		fmt.Fprintf(cmd.OutOrStdout(), "%d classes, %d members, %d malformed\n", stats.Classes, stats.Members, stats.Malformed)
	}
	if err := printTimings(cmd, cmd.ErrOrStderr(), s, format); err != nil {
		return err
	}
	if hasErrors {
		return errors.New("index check failed")
	}
	return nil
}

func runIndexCache(cmd *cobra.Command, args []string) error {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return fmt.Errorf("failed to get dir flag: %w", err)
	}
	clearEntries, err := cmd.Flags().GetBool("clear")
	if err != nil {
		return fmt.Errorf("failed to get clear flag: %w", err)
	}
	if dir == "" {
		dir = appConfig.CacheDir()
	}
	cache, err := symbols.OpenIndexCache(dir)
	if err != nil {
		return fmt.Errorf("open index cache: %w", err)
	}

	out := cmd.OutOrStdout()
	if clearEntries {
		removed, err := clearCache(cache.Dir())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "removed %d entries from %s\n", removed, cache.Dir())
		return nil
	}

	paths := args
	if len(paths) == 0 {
		paths = appConfig.IndexPaths()
	}
	if len(paths) == 0 {
		return errors.New("no indexes given and none listed in [classpath] indexes")
	}
	fs := source.NewFileSet()
	for _, path := range paths {
		idx, hit, err := symbols.LoadIndex(fs, path, cache)
		if err != nil {
			return fmt.Errorf("load index %s: %w", path, err)
		}
		state := "stored"
		if hit {
			state = "cached"
		}
		fmt.Fprintf(out, "%s: %d classes (%s)\n", path, len(idx.Classes), state)
	}
	return nil
}

// clearCache removes the cache entries in dir and leaves anything else.
func clearCache(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".mp") {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
