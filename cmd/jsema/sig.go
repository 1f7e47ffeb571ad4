package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"jsema/internal/symbols"
	"jsema/internal/types"
)

var sigCmd = &cobra.Command{
	Use:   "sig [flags] <class>...",
	Short: "Show classes as the symbol loader sees them",
	Long: `Resolve classes by binary or canonical name and print their header and
members with every signature parsed. Malformed signatures are reported as
diagnostics after the listing.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSig,
}

var sigCheckCmd = &cobra.Command{
	Use:   "check [flags] <signature>",
	Short: "Validate a raw descriptor or generic signature",
	Args:  cobra.ExactArgs(1),
	RunE:  runSigCheck,
}

func init() {
	sigCmd.Flags().String("format", "pretty", "diagnostics format (pretty|short|json)")
	sigCmd.Flags().Bool("no-members", false, "print the class header only")
	sigCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	sigCheckCmd.Flags().String("kind", "auto", "signature grammar (auto|class|method|field)")
	sigCmd.AddCommand(sigCheckCmd)
}

func runSig(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	headerOnly, err := cmd.Flags().GetBool("no-members")
	if err != nil {
		return fmt.Errorf("failed to get no-members flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	colored, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	var missing []string
	for i, name := range args {
		sym, ok := s.Registry().LookupClass(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		if i > 0 {
			fmt.Fprintln(out)
		}
		symbols.ForceClass(sym)
		printClass(out, sym, !headerOnly, colored)
	}

	hasErrors, err := printDiagnostics(cmd, s, s.Diagnostics(), format, withNotes)
	if err != nil {
		return err
	}
	if err := printTimings(cmd, cmd.ErrOrStderr(), s, format); err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", symbols.ErrNotFound, strings.Join(missing, ", "))
	}
	if hasErrors {
		return errors.New("malformed signatures found")
	}
	return nil
}

func runSigCheck(cmd *cobra.Command, args []string) error {
	kindStr, err := cmd.Flags().GetString("kind")
	if err != nil {
		return fmt.Errorf("failed to get kind flag: %w", err)
	}
	sig := args[0]
	kind, err := signatureKind(kindStr, sig)
	if err != nil {
		return err
	}
	if err := symbols.ValidateSignature(kind, sig); err != nil {
		var mse *symbols.MalformedSignatureError
		if errors.As(err, &mse) {
			fmt.Fprintln(cmd.ErrOrStderr(), mse.Error())
			return errors.New(mse.Summary())
		}
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "ok")
	return nil
}

// signatureKind resolves --kind; auto picks the method grammar for anything
// with a parameter list.
func signatureKind(flag, sig string) (symbols.SignatureKind, error) {
	switch flag {
	case "class":
		return symbols.ClassSignature, nil
	case "method":
		return symbols.MethodSignature, nil
	case "field":
		return symbols.FieldSignature, nil
	case "auto":
		if strings.Contains(sig, "(") {
			return symbols.MethodSignature, nil
		}
		return symbols.FieldSignature, nil
	}
	return 0, fmt.Errorf("unknown kind %q (must be auto, class, method or field)", flag)
}

func printClass(w io.Writer, sym types.ClassSymbol, members, colored bool) {
	bold := color.New(color.Bold)
	dim := color.New(color.Faint)
	if colored {
		bold.EnableColor()
		dim.EnableColor()
	} else {
		bold.DisableColor()
		dim.DisableColor()
	}

	fmt.Fprintln(w, classHeader(sym, bold))
	if sup := sym.SuperclassType(types.EmptySubst); sup != nil {
		fmt.Fprintf(w, "  %s %s\n", dim.Sprint("extends"), sup)
	}
	if itfs := sym.SuperInterfaceTypes(types.EmptySubst); len(itfs) > 0 {
		names := make([]string, len(itfs))
		for i, it := range itfs {
			names[i] = it.String()
		}
		keyword := "implements"
		if sym.IsInterface() {
			keyword = "extends"
		}
		fmt.Fprintf(w, "  %s %s\n", dim.Sprint(keyword), strings.Join(names, ", "))
	}
	if !members {
		return
	}

	var rows [][3]string
	for _, f := range sym.DeclaredFields() {
		rows = append(rows, [3]string{f.Modifiers().String(), f.Type(types.EmptySubst).String(), f.SimpleName()})
	}
	printSection(w, "fields", rows, dim)

	rows = rows[:0]
	for _, c := range sym.Constructors() {
		rows = append(rows, [3]string{c.Modifiers().String(), typeParams(c.TypeParameters()), executable(sym.SimpleName(), c)})
	}
	printSection(w, "constructors", rows, dim)

	rows = rows[:0]
	methods := append([]types.ExecutableSymbol(nil), sym.DeclaredMethods()...)
	sort.SliceStable(methods, func(i, j int) bool { return methods[i].SimpleName() < methods[j].SimpleName() })
	for _, m := range methods {
		ret := m.ReturnType(types.EmptySubst).String()
		if tp := typeParams(m.TypeParameters()); tp != "" {
			ret = tp + " " + ret
		}
		rows = append(rows, [3]string{m.Modifiers().String(), ret, executable(m.SimpleName(), m)})
	}
	printSection(w, "methods", rows, dim)
}

func classHeader(sym types.ClassSymbol, bold *color.Color) string {
	kind := "class"
	switch {
	case sym.IsAnnotation():
		kind = "@interface"
	case sym.IsInterface():
		kind = "interface"
	case sym.IsEnum():
		kind = "enum"
	case sym.IsRecord():
		kind = "record"
	}
	head := kind + " " + bold.Sprint(sym.BinaryName()) + typeParams(sym.TypeParameters())
	if mods := sym.Modifiers().String(); mods != "" {
		head = mods + " " + head
	}
	return head
}

// printSection aligns rows in columns by display width.
func printSection(w io.Writer, title string, rows [][3]string, dim *color.Color) {
	if len(rows) == 0 {
		return
	}
	var width [2]int
	for _, r := range rows {
		width[0] = max(width[0], runewidth.StringWidth(r[0]))
		width[1] = max(width[1], runewidth.StringWidth(r[1]))
	}
	fmt.Fprintf(w, "  %s:\n", dim.Sprint(title))
	for _, r := range rows {
		line := "    " + runewidth.FillRight(r[0], width[0]) + "  " + runewidth.FillRight(r[1], width[1]) + "  " + r[2]
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

func typeParams(tvs []*types.TypeVar) string {
	if len(tvs) == 0 {
		return ""
	}
	parts := make([]string, len(tvs))
	for i, tv := range tvs {
		parts[i] = tv.Name()
		if b := tv.UpperBound(); b != nil && b.String() != "java.lang.Object" {
			parts[i] += " extends " + b.String()
		}
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

func executable(name string, m types.ExecutableSymbol) string {
	formals := m.FormalParameterTypes(types.EmptySubst)
	names := m.ParameterNames()
	params := make([]string, len(formals))
	for i, t := range formals {
		p := t.String()
		if m.IsVarargs() && i == len(formals)-1 {
			p = strings.TrimSuffix(p, "[]") + "..."
		}
		if i < len(names) && names[i] != "" {
			p += " " + names[i]
		}
		params[i] = p
	}
	out := name + "(" + strings.Join(params, ", ") + ")"
	if thrown := m.ThrownExceptionTypes(types.EmptySubst); len(thrown) > 0 {
		ts := make([]string, len(thrown))
		for i, t := range thrown {
			ts[i] = t.String()
		}
		out += " throws " + strings.Join(ts, ", ")
	}
	return out
}
