package symbols

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"jsema/internal/source"
	"jsema/internal/types"
)

// IndexSchema is the version of the stub index format.
const IndexSchema = 1

// Index is a decoded stub index: the class records of one TOML file, as a
// binary scanner would have produced them.
type Index struct {
	Schema  int            `toml:"schema" msgpack:"schema"`
	Path    string         `toml:"-" msgpack:"path"`
	File    source.FileID  `toml:"-" msgpack:"-"`
	Classes []*ClassRecord `toml:"class" msgpack:"classes"`

	// Warnings lists keys the decoder did not recognize.
	Warnings []string `toml:"-" msgpack:"-"`

	byName map[string]*ClassRecord
}

// ClassRecord describes one class. Names are binary names with dots for
// packages and '$' for nesting. Signature is the generic class signature;
// without one Super and Interfaces give the erased supertypes.
type ClassRecord struct {
	Name       string          `toml:"name" msgpack:"name"`
	Access     []string        `toml:"access" msgpack:"access"`
	Signature  string          `toml:"signature" msgpack:"signature,omitempty"`
	Super      string          `toml:"super" msgpack:"super,omitempty"`
	Interfaces []string        `toml:"interfaces" msgpack:"interfaces,omitempty"`
	Outer      string          `toml:"outer" msgpack:"outer,omitempty"`
	Kind       string          `toml:"kind" msgpack:"kind,omitempty"`
	Fields     []*FieldRecord  `toml:"field" msgpack:"fields,omitempty"`
	Methods    []*MethodRecord `toml:"method" msgpack:"methods,omitempty"`

	// Span locates the record in its index file; members carry their own.
	Span    source.Span `toml:"-" msgpack:"span"`
	SigSpan source.Span `toml:"-" msgpack:"sig_span"`
}

// FieldRecord describes a field. Signature, when present, wins over
// Descriptor.
type FieldRecord struct {
	Name       string      `toml:"name" msgpack:"name"`
	Access     []string    `toml:"access" msgpack:"access"`
	Descriptor string      `toml:"descriptor" msgpack:"descriptor"`
	Signature  string      `toml:"signature" msgpack:"signature,omitempty"`
	Span       source.Span `toml:"-" msgpack:"span"`
}

// MethodRecord describes a method or, with name "<init>", a constructor.
type MethodRecord struct {
	Name       string      `toml:"name" msgpack:"name"`
	Access     []string    `toml:"access" msgpack:"access"`
	Descriptor string      `toml:"descriptor" msgpack:"descriptor"`
	Signature  string      `toml:"signature" msgpack:"signature,omitempty"`
	Params     []string    `toml:"params" msgpack:"params,omitempty"`
	Span       source.Span `toml:"-" msgpack:"span"`
}

// TypeSignature returns the string the member's type is parsed from.
func (f *FieldRecord) TypeSignature() string {
	if f.Signature != "" {
		return f.Signature
	}
	return f.Descriptor
}

// TypeSignature returns the string the member's type is parsed from.
func (m *MethodRecord) TypeSignature() string {
	if m.Signature != "" {
		return m.Signature
	}
	return m.Descriptor
}

// Lookup returns the record of a binary name.
func (idx *Index) Lookup(name string) (*ClassRecord, bool) {
	if idx.byName == nil {
		idx.reindex()
	}
	r, ok := idx.byName[name]
	return r, ok
}

// Names returns the binary names of all classes, sorted.
func (idx *Index) Names() []string {
	out := make([]string, 0, len(idx.Classes))
	for _, c := range idx.Classes {
		out = append(out, c.Name)
	}
	sort.Strings(out)
	return out
}

func (idx *Index) reindex() {
	idx.byName = make(map[string]*ClassRecord, len(idx.Classes))
	for _, c := range idx.Classes {
		idx.byName[c.Name] = c
	}
}

// DecodeIndex parses a stub index from the content of file in fs and
// records spans for every signature it holds.
func DecodeIndex(fs *source.FileSet, file source.FileID) (*Index, error) {
	f := fs.Get(file)
	idx := &Index{}
	md, err := toml.Decode(string(f.Content), idx)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.Path, err)
	}
	if idx.Schema != 0 && idx.Schema != IndexSchema {
		return nil, fmt.Errorf("decode %s: unsupported schema %d", f.Path, idx.Schema)
	}
	idx.Schema = IndexSchema
	idx.Path = f.Path
	idx.File = file
	for _, k := range md.Undecoded() {
		idx.Warnings = append(idx.Warnings, k.String())
	}
	for i, c := range idx.Classes {
		if c.Name == "" {
			return nil, fmt.Errorf("decode %s: class #%d has no name", f.Path, i+1)
		}
		c.Name = strings.TrimSpace(c.Name)
	}
	locateSpans(idx, f)
	idx.reindex()
	return idx, nil
}

// locateSpans finds the string literals of names and signatures in the
// file. Records decode in file order, so one forward cursor per class is
// enough; members are searched from the class name onward. Names are
// matched with their key so a supertype list mentioning a later class does
// not capture its span.
func locateSpans(idx *Index, f *source.File) {
	text := string(f.Content)
	cursor := 0
	find := func(from int, key, value string) (source.Span, int) {
		if value == "" || from > len(text) {
			return source.Span{File: f.ID}, from
		}
		pat := regexp.QuoteMeta(value)
		if key != "" {
			pat = `(?m)^\s*` + key + `\s*=\s*["']` + pat + `["']`
		} else {
			pat = `["']` + pat + `["']`
		}
		loc := regexp.MustCompile(pat).FindStringIndex(text[from:])
		if loc == nil {
			return source.Span{File: f.ID}, from
		}
		end := from + loc[1] - 1
		start := end - len(value)
		return spanOf(f.ID, start, end), end
	}
	for _, c := range idx.Classes {
		var next int
		c.Span, next = find(cursor, "name", c.Name)
		classStart := max(cursor, next)
		c.SigSpan, _ = find(classStart, "signature", c.Signature)
		member := classStart
		for _, fr := range c.Fields {
			_, at := find(member, "name", fr.Name)
			fr.Span, at = find(at, "", fr.TypeSignature())
			member = max(member, at)
		}
		member = classStart
		for _, mr := range c.Methods {
			_, at := find(member, "name", mr.Name)
			mr.Span, at = find(at, "", mr.TypeSignature())
			member = max(member, at)
		}
		cursor = classStart
	}
}

func spanOf(file source.FileID, start, end int) source.Span {
	return source.Span{File: file, Start: offset32(start), End: offset32(end)}
}

// ParseAccess maps access words ("public", "static", "interface", ...) to
// modifiers. Unknown words are returned separately.
func ParseAccess(words []string) (types.Modifiers, []string) {
	var mods types.Modifiers
	var unknown []string
	for _, w := range words {
		switch strings.ToLower(strings.TrimSpace(w)) {
		case "public":
			mods |= types.ModPublic
		case "private":
			mods |= types.ModPrivate
		case "protected":
			mods |= types.ModProtected
		case "static":
			mods |= types.ModStatic
		case "final":
			mods |= types.ModFinal
		case "synchronized":
			mods |= types.ModSynchronized
		case "bridge":
			mods |= types.ModBridge
		case "varargs":
			mods |= types.ModVarargs
		case "native":
			mods |= types.ModNative
		case "interface":
			mods |= types.ModInterface | types.ModAbstract
		case "abstract":
			mods |= types.ModAbstract
		case "strict":
			mods |= types.ModStrict
		case "synthetic":
			mods |= types.ModSynthetic
		case "annotation":
			mods |= types.ModAnnotation | types.ModInterface | types.ModAbstract
		case "enum":
			mods |= types.ModEnum
		case "record":
			mods |= types.ModRecord
		case "default":
			mods |= types.ModDefault
		default:
			unknown = append(unknown, w)
		}
	}
	return mods, unknown
}
