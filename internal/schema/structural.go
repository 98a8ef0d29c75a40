package schema

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/vvka-141/imdix/internal/xmlnode"
)

// Structural validates in process against the subset of XML Schema that the
// IMDI and OPEX schemas use: global and local element declarations, element
// references, named and anonymous complex and simple types, sequence, choice
// and group references with occurrence bounds, attributes and attribute
// groups, simple and complex content extension and restriction, enumeration
// facets and element wildcards (always lax).
//
// Not evaluated: imports and includes, identity constraints, lexical checks
// of built-in types, and the ordering rules of xs:all. Names are matched by
// local name.
type Structural struct {
	cache *lru.Cache[[sha256.Size]byte, *compiled]
}

// NewStructural creates a backend that keeps the most recently used compiled
// schemas.
func NewStructural() *Structural {
	cache, err := lru.New[[sha256.Size]byte, *compiled](8)
	if err != nil {
		panic(err)
	}
	return &Structural{cache: cache}
}

// Validate implements Backend.
func (s *Structural) Validate(ctx context.Context, document []byte, schemaName string, schema []byte) (Result, error) {
	c, err := s.compile(schemaName, schema)
	if err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	root, err := xmlnode.Parse(bytes.NewReader(document))
	if err != nil {
		r := Result{}
		var se *xmlnode.SyntaxError
		if errors.As(err, &se) {
			r.AddError(se.Line, "%s", se.Msg)
		} else {
			r.AddError(0, "%v", err)
		}
		return r, nil
	}
	return c.validate(root), nil
}

func (s *Structural) compile(name string, schema []byte) (*compiled, error) {
	key := sha256.Sum256(append([]byte(name+"\x00"), schema...))
	if c, ok := s.cache.Get(key); ok {
		return c, nil
	}

	root, err := xmlnode.Parse(bytes.NewReader(schema))
	if err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", name, err)
	}
	if root.Name() != "schema" {
		return nil, fmt.Errorf("parse schema %s: root element is <%s>, not <schema>", name, root.Name())
	}

	c := &compiled{
		elements:     make(map[string]*xmlnode.Node),
		complexTypes: make(map[string]*xmlnode.Node),
		simpleTypes:  make(map[string]*xmlnode.Node),
		groups:       make(map[string]*xmlnode.Node),
		attrGroups:   make(map[string]*xmlnode.Node),
		types:        make(map[*xmlnode.Node]*typeDef),
		decls:        make(map[*xmlnode.Node]*elementDecl),
	}
	for _, n := range root.Elements("") {
		name, _ := n.Attr("name")
		switch n.Name() {
		case "element":
			c.elements[name] = n
		case "complexType":
			c.complexTypes[name] = n
		case "simpleType":
			c.simpleTypes[name] = n
		case "group":
			c.groups[name] = n
		case "attributeGroup":
			c.attrGroups[name] = n
		}
	}
	s.cache.Add(key, c)
	return c, nil
}

// compiled indexes a schema's global components. Types and declarations are
// compiled on first use and memoized, so recursive types resolve lazily.
type compiled struct {
	mu sync.Mutex

	elements     map[string]*xmlnode.Node
	complexTypes map[string]*xmlnode.Node
	simpleTypes  map[string]*xmlnode.Node
	groups       map[string]*xmlnode.Node
	attrGroups   map[string]*xmlnode.Node

	types map[*xmlnode.Node]*typeDef
	decls map[*xmlnode.Node]*elementDecl
}

type typeDef struct {
	any           bool // xs:anyType or unresolvable: content is not checked
	simple        bool // simple type: text only, no attributes
	simpleContent bool // complex type with text content and attributes
	mixed         bool
	enums         []string
	attrs         []attrDef
	anyAttr       bool
	content       *particle
}

var anyType = &typeDef{any: true}

type attrDef struct {
	name     string
	required bool
	enums    []string
}

type particleKind int

const (
	elementParticle particleKind = iota
	sequenceParticle
	choiceParticle
	anyParticle
)

const unbounded = -1

type particle struct {
	kind     particleKind
	min, max int
	decl     *elementDecl
	children []*particle
}

type elementDecl struct {
	name string
	node *xmlnode.Node
	typ  *typeDef
}

var builtinTypes = map[string]bool{
	"string": true, "normalizedString": true, "token": true, "language": true,
	"Name": true, "NCName": true, "NMTOKEN": true, "NMTOKENS": true, "ID": true,
	"IDREF": true, "IDREFS": true, "anyURI": true, "QName": true, "boolean": true,
	"decimal": true, "integer": true, "int": true, "long": true, "short": true,
	"nonNegativeInteger": true, "positiveInteger": true, "unsignedInt": true,
	"unsignedLong": true, "float": true, "double": true, "date": true,
	"dateTime": true, "time": true, "duration": true, "gYear": true,
	"gYearMonth": true, "base64Binary": true, "hexBinary": true, "anySimpleType": true,
}

func localName(qname string) string {
	if i := strings.LastIndexByte(qname, ':'); i >= 0 {
		return qname[i+1:]
	}
	return qname
}

func occurs(n *xmlnode.Node) (int, int) {
	lo, hi := 1, 1
	if v, ok := n.Attr("minOccurs"); ok {
		if x, err := strconv.Atoi(v); err == nil {
			lo = x
		}
	}
	if v, ok := n.Attr("maxOccurs"); ok {
		if v == "unbounded" {
			hi = unbounded
		} else if x, err := strconv.Atoi(v); err == nil {
			hi = x
		}
	}
	return lo, hi
}

func enumerations(restriction *xmlnode.Node) []string {
	var out []string
	for _, e := range restriction.Elements("enumeration") {
		if v, ok := e.Attr("value"); ok {
			out = append(out, v)
		}
	}
	return out
}

func (c *compiled) decl(n *xmlnode.Node) *elementDecl {
	if ref, ok := n.Attr("ref"); ok {
		global, found := c.elements[localName(ref)]
		if !found {
			return &elementDecl{name: localName(ref), typ: anyType}
		}
		n = global
	}
	if d, ok := c.decls[n]; ok {
		return d
	}
	name, _ := n.Attr("name")
	d := &elementDecl{name: name, node: n}
	c.decls[n] = d
	return d
}

func (c *compiled) declType(d *elementDecl) *typeDef {
	if d.typ != nil {
		return d.typ
	}
	n := d.node
	if typ, ok := n.Attr("type"); ok {
		d.typ = c.namedType(typ)
	} else if ct := n.Elements("complexType"); len(ct) > 0 {
		d.typ = c.complexType(ct[0])
	} else if st := n.Elements("simpleType"); len(st) > 0 {
		d.typ = c.simpleType(st[0])
	} else {
		d.typ = anyType
	}
	return d.typ
}

func (c *compiled) namedType(qname string) *typeDef {
	name := localName(qname)
	if n, ok := c.complexTypes[name]; ok {
		return c.complexType(n)
	}
	if n, ok := c.simpleTypes[name]; ok {
		return c.simpleType(n)
	}
	if builtinTypes[name] {
		return &typeDef{simple: true}
	}
	return anyType
}

func (c *compiled) simpleType(n *xmlnode.Node) *typeDef {
	if t, ok := c.types[n]; ok {
		return t
	}
	t := &typeDef{simple: true}
	c.types[n] = t

	if r := n.Elements("restriction"); len(r) > 0 {
		t.enums = enumerations(r[0])
		if len(t.enums) == 0 {
			if base, ok := r[0].Attr("base"); ok {
				t.enums = c.namedType(base).enums
			} else if inner := r[0].Elements("simpleType"); len(inner) > 0 {
				t.enums = c.simpleType(inner[0]).enums
			}
		}
	}
	return t
}

func (c *compiled) complexType(n *xmlnode.Node) *typeDef {
	if t, ok := c.types[n]; ok {
		return t
	}
	t := &typeDef{}
	c.types[n] = t

	if v, _ := n.Attr("mixed"); v == "true" {
		t.mixed = true
	}
	for _, child := range n.Elements("") {
		switch child.Name() {
		case "sequence", "choice", "all", "group":
			t.content = c.particle(child)
		case "simpleContent":
			c.simpleContent(t, child)
		case "complexContent":
			c.complexContent(t, child)
		default:
			c.attributeUse(t, child)
		}
	}
	return t
}

func (c *compiled) simpleContent(t *typeDef, sc *xmlnode.Node) {
	for _, derivation := range sc.Elements("") {
		if derivation.Name() != "extension" && derivation.Name() != "restriction" {
			continue
		}
		base := anyType
		if b, ok := derivation.Attr("base"); ok {
			base = c.namedType(b)
		}
		t.simpleContent = true
		t.enums = base.enums
		t.attrs = append([]attrDef(nil), base.attrs...)
		t.anyAttr = t.anyAttr || base.anyAttr
		if derivation.Name() == "restriction" {
			if own := enumerations(derivation); len(own) > 0 {
				t.enums = own
			}
		}
		for _, child := range derivation.Elements("") {
			c.attributeUse(t, child)
		}
	}
}

func (c *compiled) complexContent(t *typeDef, cc *xmlnode.Node) {
	if v, _ := cc.Attr("mixed"); v == "true" {
		t.mixed = true
	}
	for _, derivation := range cc.Elements("") {
		if derivation.Name() != "extension" && derivation.Name() != "restriction" {
			continue
		}
		base := anyType
		if b, ok := derivation.Attr("base"); ok {
			base = c.namedType(b)
		}
		t.mixed = t.mixed || base.mixed
		t.attrs = append([]attrDef(nil), base.attrs...)
		t.anyAttr = t.anyAttr || base.anyAttr

		var own *particle
		for _, child := range derivation.Elements("") {
			switch child.Name() {
			case "sequence", "choice", "all", "group":
				own = c.particle(child)
			default:
				c.attributeUse(t, child)
			}
		}
		if derivation.Name() == "extension" && !base.any {
			t.content = sequenceOf(base.content, own)
		} else {
			t.content = own
		}
	}
}

func sequenceOf(parts ...*particle) *particle {
	var children []*particle
	for _, p := range parts {
		if p != nil {
			children = append(children, p)
		}
	}
	switch len(children) {
	case 0:
		return nil
	case 1:
		return children[0]
	}
	return &particle{kind: sequenceParticle, min: 1, max: 1, children: children}
}

// attributeUse applies xs:attribute, xs:attributeGroup and xs:anyAttribute.
func (c *compiled) attributeUse(t *typeDef, n *xmlnode.Node) {
	switch n.Name() {
	case "anyAttribute":
		t.anyAttr = true
	case "attributeGroup":
		ref, _ := n.Attr("ref")
		if g, ok := c.attrGroups[localName(ref)]; ok {
			for _, child := range g.Elements("") {
				c.attributeUse(t, child)
			}
		}
	case "attribute":
		name, ok := n.Attr("name")
		if !ok {
			ref, _ := n.Attr("ref")
			name = localName(ref)
		}
		use, _ := n.Attr("use")

		kept := t.attrs[:0]
		for _, a := range t.attrs {
			if a.name != name {
				kept = append(kept, a)
			}
		}
		t.attrs = kept
		if use == "prohibited" {
			return
		}

		a := attrDef{name: name, required: use == "required"}
		if typ, ok := n.Attr("type"); ok {
			a.enums = c.namedType(typ).enums
		} else if st := n.Elements("simpleType"); len(st) > 0 {
			a.enums = c.simpleType(st[0]).enums
		}
		t.attrs = append(t.attrs, a)
	}
}

func (c *compiled) particle(n *xmlnode.Node) *particle {
	lo, hi := occurs(n)
	p := &particle{min: lo, max: hi}

	switch n.Name() {
	case "element":
		p.kind = elementParticle
		p.decl = c.decl(n)
	case "any":
		p.kind = anyParticle
	case "sequence", "choice":
		p.kind = sequenceParticle
		if n.Name() == "choice" {
			p.kind = choiceParticle
		}
		for _, child := range n.Elements("") {
			switch child.Name() {
			case "element", "any", "sequence", "choice", "group", "all":
				p.children = append(p.children, c.particle(child))
			}
		}
	case "all":
		// any order, each at most once: approximated as a repeated choice
		p.kind = choiceParticle
		p.min, p.max = 0, unbounded
		for _, child := range n.Elements("element") {
			p.children = append(p.children, c.particle(child))
		}
	case "group":
		ref, _ := n.Attr("ref")
		g, ok := c.groups[localName(ref)]
		if !ok {
			p.kind = anyParticle
			p.min, p.max = 0, unbounded
			return p
		}
		p.kind = sequenceParticle
		for _, child := range g.Elements("") {
			switch child.Name() {
			case "sequence", "choice", "all":
				p.children = append(p.children, c.particle(child))
			}
		}
	}
	return p
}

func (c *compiled) validate(root *xmlnode.Node) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	r := &run{c: c, result: valid()}
	global, ok := c.elements[root.Name()]
	if !ok {
		r.result.AddError(root.Line(), "Element '%s': No matching global declaration available for the validation root.", root.Name())
		return r.result
	}
	r.element(root, c.decl(global))
	return r.result
}

type run struct {
	c      *compiled
	result Result
}

func (r *run) element(n *xmlnode.Node, d *elementDecl) {
	t := r.c.declType(d)
	if t.any {
		return
	}
	r.attributes(n, t)

	kids := n.Elements("")
	if t.simple || t.simpleContent {
		if len(kids) > 0 {
			r.result.AddError(kids[0].Line(), "Element '%s': Element content is not allowed, because the content type is a simple type.", n.Name())
			return
		}
		if value := strings.TrimSpace(n.Text()); len(t.enums) > 0 && !contains(t.enums, value) {
			r.result.AddError(n.Line(), "Element '%s': [facet 'enumeration'] The value '%s' is not an element of the set %s.", n.Name(), value, enumSet(t.enums))
		}
		return
	}

	if !t.mixed && strings.TrimSpace(n.Text()) != "" {
		r.result.AddError(n.Line(), "Element '%s': Character content other than whitespace is not allowed because the content type is 'element-only'.", n.Name())
	}

	if t.content == nil {
		if len(kids) > 0 {
			r.result.AddError(kids[0].Line(), "Element '%s': This element is not expected.", kids[0].Name())
		}
		return
	}

	m := &matcher{kids: kids, assign: make([]*elementDecl, len(kids))}
	next, ok := m.match(t.content, 0)
	switch {
	case ok && next == len(kids):
	case m.furthest < len(kids):
		r.result.AddError(kids[m.furthest].Line(), "Element '%s': This element is not expected.%s", kids[m.furthest].Name(), m.expectation())
	case ok:
		r.result.AddError(kids[next].Line(), "Element '%s': This element is not expected.", kids[next].Name())
	default:
		r.result.AddError(n.Line(), "Element '%s': Missing child element(s).%s", n.Name(), m.expectation())
	}

	for i, kid := range kids {
		if m.assign[i] != nil {
			r.element(kid, m.assign[i])
		}
	}
}

func (r *run) attributes(n *xmlnode.Node, t *typeDef) {
	declared := make(map[string]bool, len(t.attrs))
	for _, a := range t.attrs {
		declared[a.name] = true
		value, ok := attrValue(n, a.name)
		if !ok {
			if a.required {
				r.result.AddError(n.Line(), "Element '%s': The attribute '%s' is required but missing.", n.Name(), a.name)
			}
			continue
		}
		if len(a.enums) > 0 && !contains(a.enums, strings.TrimSpace(value)) {
			r.result.AddError(n.Line(), "Element '%s', attribute '%s': [facet 'enumeration'] The value '%s' is not an element of the set %s.", n.Name(), a.name, value, enumSet(a.enums))
		}
	}
	if t.anyAttr {
		return
	}
	for _, name := range attrNames(n) {
		if namespaceAttr(name) || declared[localName(name)] {
			continue
		}
		r.result.AddError(n.Line(), "Element '%s', attribute '%s': The attribute '%s' is not allowed.", n.Name(), name, name)
	}
}

func attrNames(n *xmlnode.Node) []string {
	attrs := n.Attrs()
	names := make([]string, len(attrs))
	for i, a := range attrs {
		names[i] = a.Name
	}
	return names
}

func namespaceAttr(name string) bool {
	return name == "xmlns" || strings.HasPrefix(name, "xmlns:") || strings.HasPrefix(name, "xsi:")
}

func attrValue(n *xmlnode.Node, name string) (string, bool) {
	for _, candidate := range attrNames(n) {
		if !namespaceAttr(candidate) && localName(candidate) == name {
			return n.Attr(candidate)
		}
	}
	return "", false
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func enumSet(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return "{" + strings.Join(quoted, ", ") + "}"
}

// matcher assigns child elements to element declarations of a content model.
// Matching is greedy; the unique particle attribution rule of XML Schema
// makes that sufficient for deterministic models.
type matcher struct {
	kids   []*xmlnode.Node
	assign []*elementDecl

	furthest int
	expected []string
}

func (m *matcher) match(p *particle, i int) (int, bool) {
	count := 0
	for p.max == unbounded || count < p.max {
		next, ok := m.once(p, i)
		if !ok {
			break
		}
		if next == i {
			// an empty match can stand in for every remaining repetition
			return i, true
		}
		i = next
		count++
	}
	return i, count >= p.min
}

func (m *matcher) once(p *particle, i int) (int, bool) {
	switch p.kind {
	case elementParticle:
		if i < len(m.kids) && m.kids[i].Name() == p.decl.name {
			m.assign[i] = p.decl
			m.reach(i + 1)
			return i + 1, true
		}
		m.expect(i, p.decl.name)
		return i, false

	case anyParticle:
		if i < len(m.kids) {
			m.assign[i] = nil
			m.reach(i + 1)
			return i + 1, true
		}
		return i, false

	case sequenceParticle:
		j := i
		for _, c := range p.children {
			next, ok := m.match(c, j)
			if !ok {
				return i, false
			}
			j = next
		}
		return j, true

	case choiceParticle:
		emptyOK := false
		for _, c := range p.children {
			next, ok := m.match(c, i)
			if ok && next > i {
				return next, true
			}
			emptyOK = emptyOK || ok
		}
		return i, emptyOK
	}
	return i, false
}

func (m *matcher) reach(i int) {
	if i > m.furthest {
		m.furthest = i
		m.expected = nil
	}
}

func (m *matcher) expect(i int, name string) {
	if i == m.furthest && !contains(m.expected, name) {
		m.expected = append(m.expected, name)
	}
}

func (m *matcher) expectation() string {
	switch len(m.expected) {
	case 0:
		return ""
	case 1:
		return " Expected is ( " + m.expected[0] + " )."
	}
	return " Expected is one of ( " + strings.Join(m.expected, ", ") + " )."
}
