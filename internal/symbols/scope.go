package symbols

import (
	"fmt"
	"strings"

	"jsema/internal/ast"
	"jsema/internal/diag"
	"jsema/internal/types"
)

// scope resolves type references written inside a source class. Simple
// names are looked up in this order: type variables, classes of the lexical
// chain and their members, single-type imports, the current package,
// on-demand imports and java.lang. Qualified names are tried as written.
type scope struct {
	class *SourceClass
	owner types.TypeParamOwner
	// extra are type variables being declared, not reachable from owner yet.
	extra []*types.TypeVar
	// noInherited skips member classes of supertypes. Supertype clauses set
	// it since their resolution must not depend on the supertypes.
	noInherited bool
}

func (sc *scope) reg() *types.Registry { return sc.class.reg() }

// resolve builds the type a reference denotes. Unknown classes become
// unresolved references; argument count mismatches degrade to raw types.
func (sc *scope) resolve(ref *ast.TypeRef) types.Type {
	reg := sc.reg()
	if ref == nil {
		return reg.Error
	}
	switch ref.Wildcard {
	case ast.WildcardUnbounded:
		return reg.UnboundedWildcard()
	case ast.WildcardExtends:
		return reg.ExtendsWildcard(sc.resolve(ref.Bound))
	case ast.WildcardSuper:
		return reg.SuperWildcard(sc.resolve(ref.Bound))
	}

	var elem types.Type
	switch {
	case ref.Name == "void" && ref.Outer == nil:
		elem = reg.Void
	case ref.Outer == nil && !strings.Contains(ref.Name, "."):
		if p, ok := reg.PrimitiveByName(ref.Name); ok {
			elem = p
		} else if v := sc.typeVar(ref.Name); v != nil && len(ref.Args) == 0 {
			elem = v
		}
	}
	if elem == nil {
		elem = sc.classType(ref)
	}
	return reg.ArrayOf(elem, ref.Dims)
}

// classType resolves a class reference ignoring its dimensions.
func (sc *scope) classType(ref *ast.TypeRef) *types.ClassType {
	reg := sc.reg()
	var outer *types.ClassType
	var sym types.ClassSymbol
	if ref.Outer != nil {
		outer = sc.classType(ref.Outer)
		sym = sc.memberOf(outer.Symbol(), ref.Name)
		if sym == nil {
			sym = sc.unresolved(ref, outer.Symbol().BinaryName()+"."+ref.Name)
		}
	} else {
		sym = sc.lookupSymbol(ref)
	}

	args := make([]types.Type, len(ref.Args))
	for i, a := range ref.Args {
		args[i] = sc.resolve(a)
	}
	if len(args) > 0 && !sym.IsUnresolved() {
		if n := len(sym.TypeParameters()); n != len(args) {
			reg.Report(diag.SymTypeArgCount, diag.SevError, ref.Span,
				fmt.Sprintf("wrong number of type arguments for %s: expected %d, got %d", displayName(sym), n, len(args)))
			args = nil
		}
	}
	if outer != nil {
		return reg.SelectInner(outer, sym, args)
	}
	return reg.Parameterize(sym, args)
}

func displayName(sym types.ClassSymbol) string {
	if n := sym.CanonicalName(); n != "" {
		return n
	}
	return sym.BinaryName()
}

// lookupSymbol finds the class a possibly qualified name denotes. It never
// returns nil: unknown names become unresolved references.
func (sc *scope) lookupSymbol(ref *ast.TypeRef) types.ClassSymbol {
	reg := sc.reg()
	name := ref.Name
	parts := strings.Split(name, ".")
	if sym := sc.simple(parts[0]); sym != nil {
		for _, p := range parts[1:] {
			if sym = sc.memberOf(sym, p); sym == nil {
				break
			}
		}
		if sym != nil {
			return sym
		}
	}
	if len(parts) > 1 {
		if sym, ok := reg.LookupClass(name); ok {
			return sym
		}
	}
	return sc.unresolved(ref, name)
}

func (sc *scope) unresolved(ref *ast.TypeRef, name string) types.ClassSymbol {
	reg := sc.reg()
	reg.Report(diag.SymUnresolvedClass, diag.SevError, ref.Span, "cannot resolve class "+name)
	return reg.Factory().UnresolvedReference(name, len(ref.Args))
}

func (sc *scope) typeVar(name string) *types.TypeVar {
	for _, v := range sc.extra {
		if v.Name() == name {
			return v
		}
	}
	if sc.owner == nil {
		return nil
	}
	return types.FindTypeParam(sc.owner, name)
}

// simple resolves a simple class name, or returns nil.
func (sc *scope) simple(name string) types.ClassSymbol {
	reg := sc.reg()
	for c := sc.class; c != nil; c = c.outer {
		if c.decl.Name == name && !c.decl.Anonymous {
			return c
		}
		if c.method != nil {
			for _, lc := range c.outer.locals {
				if lc.method == c.method && lc.decl.Name == name {
					return lc
				}
			}
		}
		for _, lc := range c.locals {
			if lc.method != nil && sc.inMethod(lc.method) && lc.decl.Name == name {
				return lc
			}
		}
		if sym := sc.memberOf(c, name); sym != nil {
			return sym
		}
	}

	unit := sc.class.unit
	for _, imp := range unit.Imports {
		if imp.OnDemand || imp.Static {
			continue
		}
		if imp.Name == name || strings.HasSuffix(imp.Name, "."+name) {
			if sym, ok := reg.LookupClass(imp.Name); ok {
				return sym
			}
		}
	}
	if sym, ok := reg.LookupClass(qualify(unit.Package, name)); ok {
		return sym
	}
	for _, imp := range unit.Imports {
		if !imp.OnDemand || imp.Static {
			continue
		}
		if sym, ok := reg.LookupClass(imp.Name + "." + name); ok {
			return sym
		}
	}
	if sym, ok := reg.LookupClass("java.lang." + name); ok {
		return sym
	}
	return nil
}

// inMethod reports whether the scope's owner is m or declared inside it.
func (sc *scope) inMethod(m *SourceMethod) bool {
	if sm, ok := sc.owner.(*SourceMethod); ok && sm == m {
		return true
	}
	for c := sc.class; c != nil; c = c.outer {
		if c.method == m {
			return true
		}
	}
	return false
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

// memberOf finds a member class of sym by simple name, searching
// supertypes unless the scope forbids it.
func (sc *scope) memberOf(sym types.ClassSymbol, name string) types.ClassSymbol {
	return sc.memberOfSeen(sym, name, map[string]bool{})
}

func (sc *scope) memberOfSeen(sym types.ClassSymbol, name string, seen map[string]bool) types.ClassSymbol {
	if sym == nil || sym.IsUnresolved() || seen[sym.BinaryName()] {
		return nil
	}
	seen[sym.BinaryName()] = true
	for _, n := range sym.DeclaredClasses() {
		if n.SimpleName() == name {
			return n
		}
	}
	if found, ok := sc.reg().LookupClass(sym.BinaryName() + "$" + name); ok {
		return found
	}
	if sc.noInherited {
		return nil
	}
	if sup := types.Superclass(sym); sup != nil {
		if found := sc.memberOfSeen(sup, name, seen); found != nil {
			return found
		}
	}
	for _, it := range types.SuperInterfaces(sym) {
		if found := sc.memberOfSeen(it, name, seen); found != nil {
			return found
		}
	}
	return nil
}
