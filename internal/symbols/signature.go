package symbols

import (
	"strings"

	"jsema/internal/types"
)

// sigKind classifies the nodes of a parsed signature.
type sigKind uint8

const (
	sigBase sigKind = iota + 1
	sigVoid
	sigClass
	sigTypeVar
	sigArray
	sigWildcard     // *
	sigExtendsBound // +T
	sigSuperBound   // -T
)

// sigType is the syntax of one type in a signature, before names are
// resolved against a registry.
type sigType struct {
	kind  sigKind
	base  types.PrimitiveKind
	name  string     // binary name with dots (class), or variable name
	args  []*sigType // class type arguments
	outer *sigType   // Outer<..>.Inner: the qualifying type
	elem  *sigType   // array component or wildcard bound
	pos   int
}

type sigTypeParam struct {
	name string
	// bounds holds the class bound (nil when absent) followed by the
	// interface bounds.
	bounds []*sigType
}

type classSignature struct {
	typeParams []*sigTypeParam
	super      *sigType
	interfaces []*sigType
}

type methodSignature struct {
	typeParams []*sigTypeParam
	params     []*sigType
	ret        *sigType
	throws     []*sigType
}

// sigParser is a recursive descent parser over JVMS 4.7.9.1 signatures and
// plain descriptors, which are a subset. Errors unwind with panic(bail) and
// are turned back into a *MalformedSignatureError at the entry points.
type sigParser struct {
	sig string
	pos int
}

type bail struct{ err *MalformedSignatureError }

func newSigParser(sig string) *sigParser {
	if sig == "" {
		panic(ErrEmptyDescriptor)
	}
	return &sigParser{sig: sig}
}

func (p *sigParser) fail(expected string) {
	panic(bail{&MalformedSignatureError{Signature: p.sig, Pos: p.pos, Expected: expected}})
}

func (p *sigParser) recover(err *error) {
	if r := recover(); r != nil {
		b, ok := r.(bail)
		if !ok {
			panic(r)
		}
		*err = b.err
	}
}

func (p *sigParser) eof() bool { return p.pos >= len(p.sig) }

func (p *sigParser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.sig[p.pos]
}

func (p *sigParser) expect(c byte, what string) {
	if p.peek() != c {
		p.fail(what)
	}
	p.pos++
}

func (p *sigParser) done() {
	if !p.eof() {
		p.fail("end of signature")
	}
}

// identifier reads up to one of the JVMS reserved characters.
func (p *sigParser) identifier() string {
	start := p.pos
	for !p.eof() {
		switch p.sig[p.pos] {
		case '.', ';', '[', '/', '<', '>', ':':
			if p.pos == start {
				p.fail("identifier")
			}
			return p.sig[start:p.pos]
		}
		p.pos++
	}
	if p.pos == start {
		p.fail("identifier")
	}
	return p.sig[start:p.pos]
}

func baseKind(c byte) (types.PrimitiveKind, bool) {
	for k := types.PrimBoolean; k <= types.PrimDouble; k++ {
		if k.Descriptor() == c {
			return k, true
		}
	}
	return 0, false
}

// javaType: BaseType | ReferenceTypeSignature
func (p *sigParser) javaType() *sigType {
	if k, ok := baseKind(p.peek()); ok {
		t := &sigType{kind: sigBase, base: k, pos: p.pos}
		p.pos++
		return t
	}
	return p.referenceType("type")
}

func (p *sigParser) referenceType(what string) *sigType {
	switch p.peek() {
	case 'L':
		return p.classType()
	case 'T':
		return p.typeVar()
	case '[':
		t := &sigType{kind: sigArray, pos: p.pos}
		p.pos++
		t.elem = p.javaType()
		return t
	}
	p.fail(what)
	return nil
}

func (p *sigParser) typeVar() *sigType {
	t := &sigType{kind: sigTypeVar, pos: p.pos}
	p.expect('T', "type variable")
	t.name = p.identifier()
	p.expect(';', "';'")
	return t
}

// classType: L pkg/Simple<args>.Inner<args>;
func (p *sigParser) classType() *sigType {
	start := p.pos
	p.expect('L', "class type")
	var b strings.Builder
	for {
		b.WriteString(p.identifier())
		if p.peek() != '/' {
			break
		}
		p.pos++
		b.WriteByte('.')
	}
	t := &sigType{kind: sigClass, name: b.String(), pos: start}
	t.args = p.typeArgs()
	for p.peek() == '.' {
		p.pos++
		inner := &sigType{kind: sigClass, outer: t, pos: p.pos}
		inner.name = t.name + "$" + p.identifier()
		inner.args = p.typeArgs()
		t = inner
	}
	p.expect(';', "';'")
	return t
}

func (p *sigParser) typeArgs() []*sigType {
	if p.peek() != '<' {
		return nil
	}
	p.pos++
	var args []*sigType
	for p.peek() != '>' {
		if p.eof() {
			p.fail("'>'")
		}
		args = append(args, p.typeArg())
	}
	p.pos++
	if len(args) == 0 {
		p.fail("type argument")
	}
	return args
}

func (p *sigParser) typeArg() *sigType {
	start := p.pos
	switch p.peek() {
	case '*':
		p.pos++
		return &sigType{kind: sigWildcard, pos: start}
	case '+':
		p.pos++
		return &sigType{kind: sigExtendsBound, elem: p.referenceType("wildcard bound"), pos: start}
	case '-':
		p.pos++
		return &sigType{kind: sigSuperBound, elem: p.referenceType("wildcard bound"), pos: start}
	}
	return p.referenceType("type argument")
}

// typeParams: < Identifier : [ClassBound] {: InterfaceBound} ... >
func (p *sigParser) typeParams() []*sigTypeParam {
	if p.peek() != '<' {
		return nil
	}
	p.pos++
	var out []*sigTypeParam
	for p.peek() != '>' {
		if p.eof() {
			p.fail("'>'")
		}
		tp := &sigTypeParam{name: p.identifier()}
		p.expect(':', "':'")
		switch p.peek() {
		case 'L', 'T', '[':
			tp.bounds = append(tp.bounds, p.referenceType("class bound"))
		default:
			tp.bounds = append(tp.bounds, nil)
		}
		for p.peek() == ':' {
			p.pos++
			tp.bounds = append(tp.bounds, p.referenceType("interface bound"))
		}
		out = append(out, tp)
	}
	p.pos++
	if len(out) == 0 {
		p.fail("type parameter")
	}
	return out
}

func parseClassSignature(sig string) (cs *classSignature, err error) {
	p := newSigParser(sig)
	defer p.recover(&err)
	cs = &classSignature{typeParams: p.typeParams()}
	cs.super = p.classType()
	for !p.eof() {
		cs.interfaces = append(cs.interfaces, p.classType())
	}
	return cs, nil
}

// parseMethodSignature accepts both method descriptors and generic method
// signatures.
func parseMethodSignature(sig string) (ms *methodSignature, err error) {
	p := newSigParser(sig)
	defer p.recover(&err)
	ms = &methodSignature{typeParams: p.typeParams()}
	p.expect('(', "'('")
	for p.peek() != ')' {
		if p.eof() {
			p.fail("')'")
		}
		ms.params = append(ms.params, p.javaType())
	}
	p.pos++
	if p.peek() == 'V' {
		ms.ret = &sigType{kind: sigVoid, pos: p.pos}
		p.pos++
	} else {
		ms.ret = p.javaType()
	}
	for p.peek() == '^' {
		p.pos++
		switch p.peek() {
		case 'L':
			ms.throws = append(ms.throws, p.classType())
		case 'T':
			ms.throws = append(ms.throws, p.typeVar())
		default:
			p.fail("exception type")
		}
	}
	p.done()
	return ms, nil
}

// parseFieldSignature accepts a field descriptor or a field signature.
func parseFieldSignature(sig string) (t *sigType, err error) {
	p := newSigParser(sig)
	defer p.recover(&err)
	t = p.javaType()
	p.done()
	return t, nil
}

// SignatureKind selects the grammar ValidateSignature checks.
type SignatureKind uint8

const (
	ClassSignature SignatureKind = iota
	MethodSignature
	FieldSignature
)

// ValidateSignature parses sig without binding it to a registry. A rejected
// signature yields a *MalformedSignatureError; an empty one ErrEmptyDescriptor.
func ValidateSignature(kind SignatureKind, sig string) error {
	if sig == "" {
		return ErrEmptyDescriptor
	}
	var err error
	switch kind {
	case ClassSignature:
		_, err = parseClassSignature(sig)
	case MethodSignature:
		_, err = parseMethodSignature(sig)
	default:
		_, err = parseFieldSignature(sig)
	}
	return err
}
