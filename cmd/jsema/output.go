package main

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"jsema/internal/diag"
	"jsema/internal/diagfmt"
	"jsema/internal/observ"
	"jsema/internal/session"
	"jsema/internal/source"
)

// openSession starts a session for the loaded configuration. The caller
// closes it.
func openSession(cmd *cobra.Command, opts ...session.Option) (*session.Session, error) {
	return session.New(cmd.Context(), appConfig, opts...)
}

// printDiagnostics writes items in format (pretty|short|json) and reports
// whether any of them is an error.
func printDiagnostics(cmd *cobra.Command, s *session.Session, items []diag.Diagnostic, format string, withNotes bool) (bool, error) {
	if limit := appConfig.Session.MaxDiagnostics; limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	hasErrors := slices.ContainsFunc(items, diag.Diagnostic.IsError)

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		colored, err := useColor(cmd, os.Stdout)
		if err != nil {
			return hasErrors, err
		}
		diagfmt.PrettyItems(out, items, s.Files(), diagfmt.PrettyOpts{
			Color:     colored,
			PathMode:  diagfmt.PathModeAuto,
			ShowNotes: withNotes,
			ShowFixes: withNotes,
		})
		if errs, warns, _ := diag.CountItems(items); errs+warns > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "%d error(s), %d warning(s)\n", errs, warns)
		}
	case "short":
		ptrs := make([]*diag.Diagnostic, len(items))
		for i := range items {
			ptrs[i] = &items[i]
		}
		if text := diag.FormatShortDiagnostics(ptrs, s.Files(), withNotes); text != "" {
			fmt.Fprintln(out, text)
		}
	case "json":
		show, err := timingsEnabled(cmd)
		if err != nil {
			return hasErrors, err
		}
		if show {
			items = append(slices.Clip(items), timingsDiagnostic(s.Timer().Report()))
		}
		return hasErrors, diagfmt.JSON(out, items, s.Files(), diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeAuto,
			IncludeNotes:     withNotes,
			IncludeFixes:     withNotes,
		})
	default:
		return hasErrors, fmt.Errorf("unknown format %q (must be pretty, short or json)", format)
	}
	return hasErrors, nil
}

// printTimings writes the session phase summary when --timings is set. JSON
// output carries the timings inside the document instead.
func printTimings(cmd *cobra.Command, w io.Writer, s *session.Session, format string) error {
	show, err := timingsEnabled(cmd)
	if err != nil || !show || format == "json" {
		return err
	}
	fmt.Fprint(w, s.Timer().Summary())
	return nil
}

func timingsEnabled(cmd *cobra.Command) (bool, error) {
	show, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return false, fmt.Errorf("failed to get timings flag: %w", err)
	}
	return show, nil
}

// timingsDiagnostic reports the phases as an info diagnostic with one note
// per phase.
func timingsDiagnostic(rep observ.Report) diag.Diagnostic {
	d := diag.New(diag.SevInfo, diag.ObsTimings, source.Span{},
		fmt.Sprintf("wall %.2f ms, busy %.2f ms", rep.WallMS, rep.BusyMS))
	for _, p := range rep.Phases {
		msg := fmt.Sprintf("%s: %.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			msg += " (" + p.Note + ")"
		}
		d = d.WithNote(source.Span{}, msg)
	}
	return d
}
