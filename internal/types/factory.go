package types

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	// ErrAnonymousArrayComponent is the panic value for an array symbol
	// requested over an anonymous class.
	ErrAnonymousArrayComponent = errors.New("types: array component cannot be an anonymous class")
	// ErrEmptyName is the panic value for an unresolved reference with no name.
	ErrEmptyName = errors.New("types: empty class name")
)

// SymbolFactory produces the symbols the registry synthesizes itself:
// unresolved references, arrays, intersections and primitives.
type SymbolFactory struct {
	reg        *Registry
	unresolved sync.Map // canonical name -> *unresolvedClass
	arrays     sync.Map // ClassSymbol -> *arraySymbol
	prims      [PrimDouble + 1]*primitiveSymbol
}

func newSymbolFactory(reg *Registry) *SymbolFactory {
	f := &SymbolFactory{reg: reg}
	for k := PrimBoolean; k <= PrimDouble; k++ {
		f.prims[k] = &primitiveSymbol{synthBase: synthBase{reg: reg}, kind: k}
	}
	return f
}

// UnresolvedReference returns the unresolved symbol interned under
// canonicalName, creating it on first use. The recorded type-parameter
// count is overwritten with typeArity on every call, including for an
// existing instance: the last request wins and conflicting requests are not
// reconciled.
func (f *SymbolFactory) UnresolvedReference(canonicalName string, typeArity int) ClassSymbol {
	u := f.unresolvedFor(canonicalName)
	u.setArity(typeArity)
	return u
}

func (f *SymbolFactory) unresolvedFor(canonicalName string) *unresolvedClass {
	if canonicalName == "" {
		panic(ErrEmptyName)
	}
	if v, ok := f.unresolved.Load(canonicalName); ok {
		return v.(*unresolvedClass)
	}
	fresh := &unresolvedClass{synthBase: synthBase{reg: f.reg}, canonical: canonicalName}
	v, loaded := f.unresolved.LoadOrStore(canonicalName, fresh)
	if !loaded {
		f.reg.tracePoint("unresolved", canonicalName)
	}
	return v.(*unresolvedClass)
}

// UnresolvedCount reports how many distinct unresolved names were interned.
func (f *SymbolFactory) UnresolvedCount() int {
	n := 0
	f.unresolved.Range(func(any, any) bool {
		n++
		return true
	})
	return n
}

// UnresolvedNames lists the interned unresolved names in no particular order.
func (f *SymbolFactory) UnresolvedNames() []string {
	var names []string
	f.unresolved.Range(func(k, _ any) bool {
		names = append(names, k.(string))
		return true
	})
	return names
}

// ArraySymbol returns the one-dimensional array symbol over component.
// Panics with ErrAnonymousArrayComponent when component is anonymous.
func (f *SymbolFactory) ArraySymbol(component ClassSymbol) ClassSymbol {
	if component == nil {
		panic("types: nil array component")
	}
	if component.IsAnonymous() {
		panic(fmt.Errorf("%w: %s", ErrAnonymousArrayComponent, component.BinaryName()))
	}
	if v, ok := f.arrays.Load(component); ok {
		return v.(*arraySymbol)
	}
	v, _ := f.arrays.LoadOrStore(component, &arraySymbol{
		synthBase: synthBase{reg: f.reg},
		component: component,
	})
	return v.(*arraySymbol)
}

// PrimitiveSymbol returns the pseudo class symbol of a primitive kind.
func (f *SymbolFactory) PrimitiveSymbol(kind PrimitiveKind) ClassSymbol {
	return f.prims[kind]
}

// IntersectionSymbol synthesizes the symbol induced by an intersection
// type. It is an interface when super is nil or Object.
func (f *SymbolFactory) IntersectionSymbol(super *ClassType, itfs []*ClassType) ClassSymbol {
	var b strings.Builder
	if super != nil {
		b.WriteString(super.String())
	}
	for _, it := range itfs {
		if b.Len() > 0 {
			b.WriteString(" & ")
		}
		b.WriteString(it.String())
	}
	return &intersectionSymbol{
		synthBase: synthBase{reg: f.reg},
		name:      b.String(),
		super:     super,
		itfs:      itfs,
	}
}
