package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"jsema/internal/symbols"
	"jsema/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show jsema build information",
	Long: `Print the jsema version. --full adds the commit and build date (from
-ldflags or the Go VCS stamps), the embedded platform index and the schema
versions an index cache written by this build carries.`,
	Args: cobra.NoArgs,
	RunE: runVersion,
}

func init() {
	versionCmd.Flags().Bool("full", false, "include commit, build date, platform index and cache schema")
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

// versionReport is also the JSON payload.
type versionReport struct {
	Tool        string   `json:"tool"`
	Version     string   `json:"version"`
	Commit      string   `json:"commit,omitempty"`
	Message     string   `json:"message,omitempty"`
	BuildDate   string   `json:"build_date,omitempty"`
	GoVersion   string   `json:"go_version,omitempty"`
	Platform    []string `json:"platform_index,omitempty"`
	IndexSchema int      `json:"index_schema,omitempty"`
	CacheSchema uint16   `json:"cache_schema,omitempty"`
}

func newVersionReport(b version.Build, full bool) versionReport {
	r := versionReport{Tool: "jsema", Version: b.Version}
	if !full {
		return r
	}
	r.Commit = b.ShortCommit()
	r.Message = b.Message
	r.BuildDate = b.Date
	r.GoVersion = b.GoVersion
	for _, name := range symbols.PlatformFiles() {
		r.Platform = append(r.Platform, path.Base(name))
	}
	r.IndexSchema, r.CacheSchema = symbols.IndexSchema, symbols.CacheSchema()
	return r
}

func runVersion(cmd *cobra.Command, args []string) error {
	full, err := cmd.Flags().GetBool("full")
	if err != nil {
		return fmt.Errorf("failed to get full flag: %w", err)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	r := newVersionReport(version.Current(), full)
	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "pretty":
		writeVersion(out, r, full)
		return nil
	}
	return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
}

func writeVersion(w io.Writer, r versionReport, full bool) {
	fmt.Fprintf(w, "jsema %s\n", version.Pretty(r.Version))
	if !full {
		return
	}
	rows := [][2]string{
		{"commit", r.Commit},
		{"message", r.Message},
		{"built", r.BuildDate},
		{"go", r.GoVersion},
		{"platform", strings.Join(r.Platform, ", ")},
		{"schema", fmt.Sprintf("index v%d, cache v%d", r.IndexSchema, r.CacheSchema)},
	}
	for _, row := range rows {
		v := row[1]
		if v == "" {
			v = "unknown"
		}
		fmt.Fprintf(w, "  %-9s %s\n", row[0]+":", v)
	}
}
