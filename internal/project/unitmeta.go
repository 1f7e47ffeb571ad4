package project

import (
	"sort"
	"strings"

	"jsema/internal/ast"
	"jsema/internal/source"
)

// UnitMeta is what the session needs to order compilation units: the
// classes a unit declares and the type names it refers to.
type UnitMeta struct {
	Path     string
	Span     source.Span
	Package  string
	Declares []DeclMeta
	// Uses holds candidate binary names for every type the unit's
	// declarations mention: import targets as written, and simple names
	// qualified with the unit's package.
	Uses []UseMeta
}

// DeclMeta is one declared class.
type DeclMeta struct {
	Name string // binary name
	Span source.Span
}

// UseMeta is one referenced type name.
type UseMeta struct {
	Name string
	Span source.Span
}

// DescribeUnit extracts the ordering metadata of u.
func DescribeUnit(u *ast.Unit) UnitMeta {
	meta := UnitMeta{Path: u.Path, Package: u.Package}
	if len(u.Types) > 0 {
		meta.Span = u.Types[0].Span
	}
	seen := map[string]bool{}
	use := func(name string, sp source.Span) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		meta.Uses = append(meta.Uses, UseMeta{Name: name, Span: sp})
	}
	for _, imp := range u.Imports {
		if imp.OnDemand || imp.Static {
			continue
		}
		use(imp.Name, imp.Span)
	}
	var walkRef func(ref *ast.TypeRef)
	walkRef = func(ref *ast.TypeRef) {
		if ref == nil {
			return
		}
		if ref.Bound != nil {
			walkRef(ref.Bound)
		}
		for _, a := range ref.Args {
			walkRef(a)
		}
		if ref.Wildcard != ast.NotWildcard || ref.Outer != nil {
			return
		}
		name := ref.Name
		if !strings.Contains(name, ".") {
			name = qualified(u.Package, name)
		}
		use(name, ref.Span)
	}
	var walkClass func(d *ast.ClassDecl, binary string)
	walkClass = func(d *ast.ClassDecl, binary string) {
		if !d.Anonymous && !d.Local {
			meta.Declares = append(meta.Declares, DeclMeta{Name: binary, Span: d.Span})
		}
		walkRef(d.Extends)
		for _, ref := range d.Implements {
			walkRef(ref)
		}
		for _, tp := range d.TypeParams {
			for _, b := range tp.Bounds {
				walkRef(b)
			}
		}
		for _, n := range d.Nested {
			walkClass(n, binary+"$"+n.Name)
		}
	}
	for _, d := range u.Types {
		walkClass(d, qualified(u.Package, d.Name))
	}
	sort.Slice(meta.Uses, func(i, j int) bool { return meta.Uses[i].Name < meta.Uses[j].Name })
	return meta
}

func qualified(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}
