package mqo

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/binzume/blockmodelconv/geom"
	"github.com/binzume/blockmodelconv/logger"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

var utf8CodePage = regexp.MustCompile(`CodePage\s+utf8`)

// Parser for mqo file.
type Parser struct {
	r        io.Reader
	s        scanner.Scanner
	err      error
	skipping bool
}

// NewParser returns new parser. path is only used in error messages.
func NewParser(r io.Reader, path string) *Parser {
	p := &Parser{r: r}
	p.s.Filename = path
	return p
}

// backSlashReplacer turns backslashes into slashes. Texture paths are
// written with backslashes, which text/scanner would read as escapes.
type backSlashReplacer struct{ transform.NopResetter }

func (backSlashReplacer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	n := copy(dst, src)
	for i := 0; i < n; i++ {
		if dst[i] == '\\' {
			dst[i] = '/'
		}
	}
	if n < len(src) {
		err = transform.ErrShortDst
	}
	return n, n, err
}

func (p *Parser) fail(format string, args ...interface{}) {
	if p.err == nil {
		p.err = errors.Errorf("%v: %s", p.s.Pos(), fmt.Sprintf(format, args...))
	}
}

func (p *Parser) readFloat() float32 {
	tok := p.s.Scan()
	var sign float32 = 1
	if p.s.TokenText() == "-" {
		tok = p.s.Scan()
		sign = -1
	}
	if tok != scanner.Int && tok != scanner.Float {
		p.fail("number expected, got %q", p.s.TokenText())
		return 0
	}
	n, err := strconv.ParseFloat(p.s.TokenText(), 32)
	if err != nil {
		p.fail("invalid number %q", p.s.TokenText())
	}
	return float32(n) * sign
}

func (p *Parser) readInt() int {
	tok := p.s.Scan()
	sign := 1
	if p.s.TokenText() == "-" {
		tok = p.s.Scan()
		sign = -1
	}
	if tok != scanner.Int {
		p.fail("integer expected, got %q", p.s.TokenText())
		return 0
	}
	n, _ := strconv.Atoi(p.s.TokenText())
	return n * sign
}

func (p *Parser) readStr() string {
	p.s.Scan()
	return strings.Trim(p.s.TokenText(), "\"")
}

func (p *Parser) expect(t string) {
	p.s.Scan()
	if p.s.TokenText() != t {
		p.fail("%q expected, got %q", t, p.s.TokenText())
	}
}

func (p *Parser) endOfLine() bool {
	for c := p.s.Peek(); c == ' ' || c == '\t'; c = p.s.Peek() {
		p.s.Next()
	}
	c := p.s.Peek()
	return c == '\r' || c == '\n' || c == scanner.EOF
}

// procAttrs reads `name(args...)` pairs up to the end of the current line.
func (p *Parser) procAttrs(handlers map[string]func(), context string) {
	line := p.s.Pos().Line
	for !p.endOfLine() && p.err == nil {
		tok := p.s.Scan()
		if tok == scanner.EOF || p.s.Pos().Line != line {
			return
		}
		name := p.s.TokenText()
		p.expect("(")
		if handler, ok := handlers[name]; ok {
			handler()
			p.expect(")")
			continue
		}
		logger.Sugar.Debugf("mqo: skip %s in %s", name, context)
		for tok := p.s.Scan(); tok != scanner.EOF && p.s.TokenText() != ")"; tok = p.s.Scan() {
		}
	}
}

func (p *Parser) skipBlock() {
	p.skipping = true
	defer func() { p.skipping = false }()
	depth := 1
	for tok := p.s.Scan(); tok != scanner.EOF; tok = p.s.Scan() {
		switch p.s.TokenText() {
		case "{":
			depth++
		case "}":
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

func (p *Parser) procArray(init, elem func(n int)) {
	n := p.readInt()
	p.expect("{")
	if p.err != nil {
		return
	}
	init(n)
	for i := 0; i < n && p.err == nil; i++ {
		elem(i)
	}
	p.expect("}")
}

// procObj dispatches `key ...` entries of a `{ ... }` block.
func (p *Parser) procObj(handlers map[string]func()) {
	p.expect("{")
	for tok := p.s.Scan(); tok != scanner.EOF && p.err == nil; tok = p.s.Scan() {
		switch text := p.s.TokenText(); text {
		case "}":
			return
		case "{":
			p.skipBlock()
		default:
			if handler, ok := handlers[text]; ok {
				handler()
			}
		}
	}
	p.fail("unexpected end of block")
}

func (p *Parser) readMaterial() *Material {
	m := &Material{Name: p.readStr()}
	p.procAttrs(nil, "Material "+m.Name)
	return m
}

func (p *Parser) readFace(o *Object, i int) *Face {
	f := &Face{Material: -1}
	vn := p.readInt()
	p.procAttrs(map[string]func(){
		"V": func() {
			f.Verts = make([]int, vn)
			for i := range f.Verts {
				f.Verts[i] = p.readInt()
			}
		},
		"M": func() { f.Material = p.readInt() },
		"UV": func() {
			f.UVs = make([]geom.Vector2, vn)
			for i := range f.UVs {
				f.UVs[i] = geom.Vector2{X: p.readFloat(), Y: p.readFloat()}
			}
		},
	}, fmt.Sprintf("Object %v F%v", o.Name, i))
	if len(f.Verts) != vn {
		p.fail("object %q face %d: V() missing", o.Name, i)
	}
	return f
}

func (p *Parser) readObject() *Object {
	o := NewObject(p.readStr())
	p.procObj(map[string]func(){
		"visible": func() { o.Visible = p.readInt() > 0 },
		"vertex": func() {
			p.procArray(func(n int) {
				o.Vertexes = make([]*geom.Vector3, n)
			}, func(i int) {
				o.Vertexes[i] = &geom.Vector3{X: p.readFloat(), Y: p.readFloat(), Z: p.readFloat()}
			})
		},
		"face": func() {
			p.procArray(func(n int) {
				o.Faces = make([]*Face, n)
			}, func(i int) {
				o.Faces[i] = p.readFace(o, i)
			})
		},
	})
	return o
}

func (p *Parser) detectCodePage() {
	buf := make([]byte, 128)
	n, _ := io.ReadFull(p.r, buf)
	p.r = io.MultiReader(bytes.NewReader(buf[:n]), p.r)
	if utf8CodePage.Match(buf[:n]) {
		p.r = transform.NewReader(p.r, backSlashReplacer{})
	} else {
		p.r = transform.NewReader(p.r, transform.Chain(japanese.ShiftJIS.NewDecoder(), backSlashReplacer{}))
	}
}

func (p *Parser) Parse() (*Document, error) {
	p.detectCodePage()
	p.s.Init(p.r)
	p.s.Error = func(s *scanner.Scanner, msg string) {
		if !p.skipping {
			p.fail("%s", msg)
		}
	}

	doc := NewDocument()
	for tok := p.s.Scan(); tok != scanner.EOF && p.err == nil; tok = p.s.Scan() {
		if tok != scanner.Ident {
			continue
		}
		switch p.s.TokenText() {
		case "Material":
			p.procArray(func(n int) {}, func(i int) {
				doc.Materials = append(doc.Materials, p.readMaterial())
			})
		case "Object":
			doc.Objects = append(doc.Objects, p.readObject())
		case "Thumbnail", "Scene", "MaterialEx2", "BackImage", "Blob":
			for tok := p.s.Scan(); tok != scanner.EOF && p.s.TokenText() != "{"; tok = p.s.Scan() {
			}
			p.skipBlock()
		case "Eof":
			return doc, nil
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	return doc, nil
}

func Parse(r io.Reader, path string) (*Document, error) {
	return NewParser(r, path).Parse()
}

func LoadMQOZ(path string) (*Document, error) {
	z, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer z.Close()
	for _, f := range z.File {
		if strings.HasSuffix(strings.ToLower(f.Name), ".mqo") {
			r, err := f.Open()
			if err != nil {
				return nil, errors.Wrapf(err, "open %s in %s", f.Name, path)
			}
			defer r.Close()
			return Parse(r, path+"/"+f.Name)
		}
	}
	return nil, errors.Errorf("%s: no .mqo file in archive", path)
}

func Load(path string) (*Document, error) {
	if strings.HasSuffix(strings.ToLower(path), ".mqoz") {
		return LoadMQOZ(path)
	}
	r, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer r.Close()
	return Parse(r, path)
}
