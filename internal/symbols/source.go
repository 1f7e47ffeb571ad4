package symbols

import (
	"strconv"
	"sync"

	"jsema/internal/ast"
	"jsema/internal/diag"
	"jsema/internal/types"
)

// SourceClass is a class symbol built from a declaration. Members are
// created with the class; every type they mention is resolved on first use,
// which lets declarations in different units refer to each other freely.
type SourceClass struct {
	loader *Loader
	unit   *ast.Unit
	decl   *ast.ClassDecl
	outer  *SourceClass
	method *SourceMethod
	binary string
	mods   types.Modifiers

	tparams []*types.TypeVar
	nested  []types.ClassSymbol
	locals  []*SourceClass
	fields  []types.FieldSymbol
	methods []types.ExecutableSymbol
	ctors   []types.ExecutableSymbol

	// per enclosing class counters for local and anonymous binary names
	anonSeq  int
	localSeq map[string]int

	superOnce sync.Once
	super     *types.ClassType
	itfs      []*types.ClassType
}

var _ types.ClassSymbol = (*SourceClass)(nil)

func newSourceClass(l *Loader, unit *ast.Unit, decl *ast.ClassDecl, outer *SourceClass, method *SourceMethod) *SourceClass {
	c := &SourceClass{loader: l, unit: unit, decl: decl, outer: outer, method: method}
	c.binary = c.binaryName()
	c.mods = c.impliedModifiers()
	c.tparams = c.declareTypeParams(c, decl.TypeParams)

	for _, n := range decl.Nested {
		c.nested = append(c.nested, newSourceClass(l, unit, n, c, nil))
	}
	c.buildMembers()
	return c
}

func (c *SourceClass) binaryName() string {
	d := c.decl
	switch {
	case c.outer == nil:
		if c.unit.Package == "" {
			return d.Name
		}
		return c.unit.Package + "." + d.Name
	case d.Anonymous:
		c.outer.anonSeq++
		return c.outer.binary + "$" + strconv.Itoa(c.outer.anonSeq)
	case d.Local:
		if c.outer.localSeq == nil {
			c.outer.localSeq = map[string]int{}
		}
		c.outer.localSeq[d.Name]++
		return c.outer.binary + "$" + strconv.Itoa(c.outer.localSeq[d.Name]) + d.Name
	}
	return c.outer.binary + "$" + d.Name
}

func (c *SourceClass) impliedModifiers() types.Modifiers {
	d := c.decl
	mods := d.Modifiers
	switch d.Kind {
	case ast.KindInterface:
		mods |= types.ModInterface | types.ModAbstract
	case ast.KindAnnotation:
		mods |= types.ModAnnotation | types.ModInterface | types.ModAbstract
	case ast.KindEnum:
		mods |= types.ModEnum
	case ast.KindRecord:
		mods |= types.ModRecord | types.ModFinal
	}
	if c.outer != nil && !d.Local && !d.Anonymous {
		if d.Kind != ast.KindClass {
			mods |= types.ModStatic
		}
		if c.outer.IsInterface() {
			mods |= types.ModPublic | types.ModStatic
		}
	}
	if d.Local || d.Anonymous {
		mods &^= types.ModStatic
	}
	return mods
}

func (c *SourceClass) declareTypeParams(owner types.TypeParamOwner, decls []*ast.TypeParamDecl) []*types.TypeVar {
	if len(decls) == 0 {
		return nil
	}
	out := make([]*types.TypeVar, len(decls))
	for i, tp := range decls {
		tp := tp
		out[i] = types.NewTypeParam(owner, tp.Name, i, func() types.Type {
			sc := &scope{class: c, owner: owner, extra: out}
			var bounds []types.Type
			for _, b := range tp.Bounds {
				bounds = append(bounds, sc.resolve(b))
			}
			switch len(bounds) {
			case 0:
				return nil
			case 1:
				return bounds[0]
			}
			return c.reg().Intersect(bounds...)
		})
	}
	return out
}

func (c *SourceClass) buildMembers() {
	d := c.decl
	iface := d.IsInterface()

	// enum constants first, in declaration order
	for _, ec := range d.EnumConstants {
		c.fields = append(c.fields, &SourceField{
			owner: c,
			name:  ec.Name,
			mods:  types.ModPublic | types.ModStatic | types.ModFinal | types.ModEnum,
			ref:   ast.Named(d.Name),
		})
		if ec.Body != nil {
			ec.Body.Anonymous = true
			c.locals = append(c.locals, newSourceClass(c.loader, c.unit, ec.Body, c, nil))
		}
	}
	for _, comp := range d.Components {
		c.fields = append(c.fields, &SourceField{
			owner: c,
			name:  comp.Name,
			mods:  types.ModPrivate | types.ModFinal,
			ref:   componentRef(comp),
		})
	}
	for _, f := range d.Fields {
		mods := f.Modifiers
		if iface {
			mods |= types.ModPublic | types.ModStatic | types.ModFinal
		}
		c.fields = append(c.fields, &SourceField{owner: c, name: f.Name, mods: mods, ref: f.Type})
	}

	for _, md := range d.Methods {
		m := c.newMethod(md)
		if md.Constructor {
			c.ctors = append(c.ctors, m)
		} else {
			c.methods = append(c.methods, m)
		}
		for _, lc := range md.LocalClasses {
			if !lc.Anonymous {
				lc.Local = true
			}
			c.locals = append(c.locals, newSourceClass(c.loader, c.unit, lc, c, m))
		}
	}

	switch d.Kind {
	case ast.KindRecord:
		c.synthesizeRecord()
	case ast.KindEnum:
		c.synthesizeEnum()
	case ast.KindClass:
		if !d.Anonymous && !d.HasConstructor() {
			c.ctors = append(c.ctors, &SourceMethod{
				owner: c,
				name:  "<init>",
				ctor:  true,
				mods:  c.mods & types.AccessMask,
			})
		}
	}
}

func componentRef(comp *ast.RecordComponent) *ast.TypeRef {
	if comp.Varargs {
		return ast.ArrayOf(comp.Type, 1)
	}
	return comp.Type
}

func (c *SourceClass) newMethod(md *ast.MethodDecl) *SourceMethod {
	m := &SourceMethod{
		owner:   c,
		decl:    md,
		name:    md.Name,
		ctor:    md.Constructor,
		mods:    md.Modifiers,
		result:  md.Result,
		throws:  md.Throws,
		varargs: md.IsVarargs(),
	}
	if md.Constructor {
		m.name = "<init>"
	}
	for _, p := range md.Params {
		m.params = append(m.params, p.Type)
		m.names = append(m.names, p.Name)
	}
	if m.varargs {
		m.mods |= types.ModVarargs
	}
	if c.decl.IsInterface() && !md.Constructor {
		if !m.mods.Has(types.ModPrivate) {
			m.mods |= types.ModPublic
		}
		switch {
		case m.mods.Has(types.ModStatic), m.mods.Has(types.ModPrivate):
		case md.HasBody:
			m.mods |= types.ModDefault
		default:
			m.mods |= types.ModAbstract
		}
	}
	m.tparams = c.declareTypeParams(m, md.TypeParams)
	return m
}

func (c *SourceClass) synthesizeRecord() {
	comps := c.decl.Components
	refs := make([]*ast.TypeRef, len(comps))
	names := make([]string, len(comps))
	for i, comp := range comps {
		refs[i] = comp.Type
		names[i] = comp.Name
	}
	varargs := len(comps) > 0 && comps[len(comps)-1].Varargs

	canonical := false
	for _, md := range c.decl.Methods {
		if md.Constructor && sameParamRefs(md, comps) {
			canonical = true
			break
		}
	}
	if !canonical {
		mods := c.mods & types.AccessMask
		if varargs {
			mods |= types.ModVarargs
		}
		c.ctors = append(c.ctors, &SourceMethod{
			owner:   c,
			name:    "<init>",
			ctor:    true,
			mods:    mods,
			params:  refs,
			names:   names,
			varargs: varargs,
		})
	}

	for _, comp := range comps {
		if c.declaresNullary(comp.Name) {
			continue
		}
		c.methods = append(c.methods, &SourceMethod{
			owner:  c,
			name:   comp.Name,
			mods:   types.ModPublic,
			result: componentRef(comp),
		})
	}
}

func sameParamRefs(md *ast.MethodDecl, comps []*ast.RecordComponent) bool {
	if len(md.Params) != len(comps) {
		return false
	}
	for i, p := range md.Params {
		if p.Type.String() != comps[i].Type.String() || p.Varargs != comps[i].Varargs {
			return false
		}
	}
	return true
}

func (c *SourceClass) declaresNullary(name string) bool {
	for _, md := range c.decl.Methods {
		if !md.Constructor && md.Name == name && len(md.Params) == 0 {
			return true
		}
	}
	return false
}

func (c *SourceClass) synthesizeEnum() {
	self := ast.Named(c.decl.Name)
	c.methods = append(c.methods,
		&SourceMethod{
			owner:  c,
			name:   "values",
			mods:   types.ModPublic | types.ModStatic,
			result: ast.ArrayOf(self, 1),
		},
		&SourceMethod{
			owner:  c,
			name:   "valueOf",
			mods:   types.ModPublic | types.ModStatic,
			params: []*ast.TypeRef{ast.Named("java.lang.String")},
			names:  []string{"name"},
			result: self,
		},
	)
	if !c.decl.HasConstructor() {
		c.ctors = append(c.ctors, &SourceMethod{owner: c, name: "<init>", ctor: true, mods: types.ModPrivate})
	}
}

func (c *SourceClass) reg() *types.Registry { return c.loader.reg }

// Decl returns the declaration.
func (c *SourceClass) Decl() *ast.ClassDecl { return c.decl }

// Unit returns the compilation unit declaring the class.
func (c *SourceClass) Unit() *ast.Unit { return c.unit }

// LocalClasses lists the local and anonymous classes declared in the bodies
// of the class's methods and enum constants.
func (c *SourceClass) LocalClasses() []*SourceClass { return c.locals }

func (c *SourceClass) SimpleName() string {
	if c.decl.Anonymous {
		return ""
	}
	return c.decl.Name
}

func (c *SourceClass) SymbolKind() types.SymbolKind { return types.SymClass }
func (c *SourceClass) Registry() *types.Registry    { return c.reg() }
func (c *SourceClass) Modifiers() types.Modifiers   { return c.mods }
func (c *SourceClass) BinaryName() string           { return c.binary }
func (c *SourceClass) PackageName() string          { return c.unit.Package }

func (c *SourceClass) CanonicalName() string {
	switch {
	case c.decl.Local || c.decl.Anonymous:
		return ""
	case c.outer == nil:
		return c.binary
	}
	outer := c.outer.CanonicalName()
	if outer == "" {
		return ""
	}
	return outer + "." + c.decl.Name
}

func (c *SourceClass) EnclosingClass() types.ClassSymbol {
	if c.outer == nil {
		return nil
	}
	return c.outer
}

func (c *SourceClass) EnclosingMethod() types.ExecutableSymbol {
	if c.method == nil {
		return nil
	}
	return c.method
}

func (c *SourceClass) TypeParameters() []*types.TypeVar          { return c.tparams }
func (c *SourceClass) DeclaredClasses() []types.ClassSymbol      { return c.nested }
func (c *SourceClass) DeclaredMethods() []types.ExecutableSymbol { return c.methods }
func (c *SourceClass) Constructors() []types.ExecutableSymbol    { return c.ctors }
func (c *SourceClass) DeclaredFields() []types.FieldSymbol       { return c.fields }
func (*SourceClass) ArrayComponent() types.ClassSymbol           { return nil }

func (c *SourceClass) IsInterface() bool  { return c.mods.Has(types.ModInterface) }
func (c *SourceClass) IsEnum() bool       { return c.decl.Kind == ast.KindEnum }
func (c *SourceClass) IsRecord() bool     { return c.decl.Kind == ast.KindRecord }
func (c *SourceClass) IsAnnotation() bool { return c.decl.Kind == ast.KindAnnotation }
func (c *SourceClass) IsLocal() bool      { return c.decl.Local && !c.decl.Anonymous }
func (c *SourceClass) IsAnonymous() bool  { return c.decl.Anonymous }
func (*SourceClass) IsArray() bool        { return false }
func (*SourceClass) IsPrimitive() bool    { return false }
func (*SourceClass) IsUnresolved() bool   { return false }

func (c *SourceClass) supertypes() {
	c.superOnce.Do(func() {
		reg := c.reg()
		sc := &scope{class: c, owner: c, noInherited: true}
		d := c.decl
		switch {
		case d.Anonymous:
			c.anonymousSupertypes(sc)
			return
		case d.Kind == ast.KindEnum:
			c.super = c.enumSuper()
		case d.Kind == ast.KindRecord:
			c.super = reg.ClassType("java.lang.Record")
		case d.IsInterface():
			if d.Kind == ast.KindAnnotation {
				c.itfs = append(c.itfs, reg.ClassType("java.lang.annotation.Annotation"))
			}
		case d.Extends != nil:
			if c.inheritsFromItself() {
				reg.Report(diag.SymCyclicInheritance, diag.SevError, d.Extends.Span,
					"cyclic inheritance involving "+c.binary)
				c.super = reg.Object()
			} else {
				c.super = sc.classType(d.Extends)
			}
		default:
			c.super = reg.Object()
		}
		for _, ref := range d.Implements {
			if it := sc.classType(ref); it != nil {
				c.itfs = append(c.itfs, it)
			}
		}
	})
}

func (c *SourceClass) enumSuper() *types.ClassType {
	reg := c.reg()
	enum := reg.ClassSymbolFor("java.lang.Enum")
	if len(enum.TypeParameters()) != 1 {
		return reg.RawType(enum)
	}
	return reg.Parameterize(enum, []types.Type{reg.Declaration(c)})
}

func (c *SourceClass) anonymousSupertypes(sc *scope) {
	reg := c.reg()
	if c.decl.Extends == nil {
		// enum constant body
		if c.outer != nil && c.outer.IsEnum() {
			c.super = reg.RawType(c.outer)
		} else {
			c.super = reg.Object()
		}
		return
	}
	t := sc.classType(c.decl.Extends)
	if t != nil && t.Symbol().IsInterface() {
		c.super = reg.Object()
		c.itfs = []*types.ClassType{t}
		return
	}
	if t == nil {
		t = reg.Object()
	}
	c.super = t
}

// inheritsFromItself follows extends clauses among source classes by name
// only, without resolving any supertype.
func (c *SourceClass) inheritsFromItself() bool {
	seen := map[*SourceClass]bool{}
	for cur := c; cur != nil && cur.decl.Extends != nil; {
		next, ok := (&scope{class: cur, owner: cur, noInherited: true}).lookupSymbol(cur.decl.Extends).(*SourceClass)
		if !ok {
			return false
		}
		if next == c {
			return true
		}
		if seen[next] {
			return false
		}
		seen[next] = true
		cur = next
	}
	return false
}

func (c *SourceClass) SuperclassType(s types.Substitution) *types.ClassType {
	c.supertypes()
	if c.super == nil {
		return nil
	}
	return types.SubstClassType(c.super, s)
}

func (c *SourceClass) SuperInterfaceTypes(s types.Substitution) []*types.ClassType {
	c.supertypes()
	out := make([]*types.ClassType, len(c.itfs))
	for i, it := range c.itfs {
		out[i] = types.SubstClassType(it, s)
	}
	return out
}

// SourceField is a declared or synthesized field.
type SourceField struct {
	owner *SourceClass
	name  string
	mods  types.Modifiers
	ref   *ast.TypeRef

	once sync.Once
	typ  types.Type
}

func (f *SourceField) SimpleName() string                { return f.name }
func (f *SourceField) SymbolKind() types.SymbolKind      { return types.SymField }
func (f *SourceField) Registry() *types.Registry         { return f.owner.reg() }
func (f *SourceField) EnclosingClass() types.ClassSymbol { return f.owner }
func (f *SourceField) Modifiers() types.Modifiers        { return f.mods }
func (f *SourceField) IsEnumConstant() bool              { return f.mods.Has(types.ModEnum) }

func (f *SourceField) Type(s types.Substitution) types.Type {
	f.once.Do(func() {
		f.typ = (&scope{class: f.owner, owner: f.owner}).resolve(f.ref)
	})
	return types.Subst(f.typ, s)
}

// SourceMethod is a declared or synthesized method or constructor. Decl is
// nil for synthesized members.
type SourceMethod struct {
	owner   *SourceClass
	decl    *ast.MethodDecl
	name    string
	ctor    bool
	mods    types.Modifiers
	tparams []*types.TypeVar
	params  []*ast.TypeRef
	names   []string
	result  *ast.TypeRef
	throws  []*ast.TypeRef
	varargs bool

	once    sync.Once
	formals []types.Type
	ret     types.Type
	thrown  []types.Type
}

// Decl returns the declaration, nil for synthesized members.
func (m *SourceMethod) Decl() *ast.MethodDecl { return m.decl }

// IsSynthesized reports a member the class did not declare.
func (m *SourceMethod) IsSynthesized() bool { return m.decl == nil }

func (m *SourceMethod) SimpleName() string                { return m.name }
func (m *SourceMethod) Registry() *types.Registry         { return m.owner.reg() }
func (m *SourceMethod) EnclosingClass() types.ClassSymbol { return m.owner }
func (m *SourceMethod) Modifiers() types.Modifiers        { return m.mods }
func (m *SourceMethod) TypeParameters() []*types.TypeVar  { return m.tparams }
func (m *SourceMethod) IsConstructor() bool               { return m.ctor }
func (m *SourceMethod) Arity() int                        { return len(m.params) }
func (m *SourceMethod) IsVarargs() bool                   { return m.varargs }

func (m *SourceMethod) SymbolKind() types.SymbolKind {
	if m.ctor {
		return types.SymConstructor
	}
	return types.SymMethod
}

func (m *SourceMethod) ParameterNames() []string {
	out := make([]string, len(m.params))
	for i := range out {
		if i < len(m.names) && m.names[i] != "" {
			out[i] = m.names[i]
		} else {
			out[i] = "arg" + strconv.Itoa(i)
		}
	}
	return out
}

func (m *SourceMethod) load() {
	m.once.Do(func() {
		reg := m.owner.reg()
		sc := &scope{class: m.owner, owner: m}
		m.formals = make([]types.Type, len(m.params))
		for i, p := range m.params {
			t := sc.resolve(p)
			if m.varargs && i == len(m.params)-1 {
				t = reg.Array(t)
			}
			m.formals[i] = t
		}
		if m.result == nil {
			m.ret = reg.Void
		} else {
			m.ret = sc.resolve(m.result)
		}
		for _, th := range m.throws {
			m.thrown = append(m.thrown, sc.resolve(th))
		}
	})
}

func (m *SourceMethod) FormalParameterTypes(s types.Substitution) []types.Type {
	m.load()
	return types.SubstAll(m.formals, s)
}

func (m *SourceMethod) ReturnType(s types.Substitution) types.Type {
	m.load()
	return types.Subst(m.ret, s)
}

func (m *SourceMethod) ThrownExceptionTypes(s types.Substitution) []types.Type {
	m.load()
	return types.SubstAll(m.thrown, s)
}
