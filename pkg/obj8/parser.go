// Package obj8 parses X-Plane OBJ8 model files into a scene tree of
// animation groups and meshes with resolved keyframe tracks.
package obj8

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/obj8conv/pkg/math"
)

// ImageLoader loads texture images referenced by TEXTURE commands.
type ImageLoader interface {
	LoadImage(path string) (image.Image, error)
}

// Options configures a parse.
type Options struct {
	// Images loads textures. When nil, textures are recorded by name only.
	Images ImageLoader
	// Logger receives diagnostics and traces. Defaults to a no-op logger.
	Logger *zap.Logger
	// Progress, if set, is called with the number of bytes consumed
	// whenever the completed percentage changes. It needs Size.
	Progress func(done, total int64)
	// Size is the input length in bytes, used for progress reporting.
	Size int64
}

// Result is the outcome of a parse. Log is filled on success and failure;
// Root is nil when parsing failed.
type Result struct {
	Root    *Root
	Version int
	Log     []string
}

// vertex is an entry of the VT table.
type vertex struct {
	pos    math.Vec3
	normal math.Vec3
	uv     math.Vec2
}

// parser is the state of one parse job.
type parser struct {
	opts  Options
	log   *zap.Logger
	sugar *zap.SugaredLogger
	lex   *Lexer
	dir   string

	version int
	vt      []vertex
	idx     []int

	root     *Root
	material *Material
	b        *builder
	meshes   []*Mesh
	lines    map[*Mesh]int

	rot   *rotateBuilder
	trans *transBuilder

	diag     []string
	progress int64
}

// ParseFile parses the OBJ8 file at path. Texture paths are resolved
// against the file's directory.
func ParseFile(path string, opts Options) (*Result, error) {
	return ParseFileContext(context.Background(), path, opts)
}

// ParseFileContext is ParseFile with cancellation.
func ParseFileContext(ctx context.Context, path string, opts Options) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening OBJ file: %w", err)
	}
	defer f.Close()

	if opts.Size == 0 {
		if info, err := f.Stat(); err == nil {
			opts.Size = info.Size()
		}
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return ParseContext(ctx, f, path, opts)
}

// Parse reads an OBJ8 model from r. filename names the model and anchors
// relative texture paths.
func Parse(r io.Reader, filename string, opts Options) (*Result, error) {
	return ParseContext(context.Background(), r, filename, opts)
}

// ParseContext is Parse with cancellation. A cancelled parse returns the
// context's error and no tree.
func ParseContext(ctx context.Context, r io.Reader, filename string, opts Options) (*Result, error) {
	p := newParser(r, filename, opts)
	err := p.run(ctx)
	res := &Result{Version: p.version, Log: p.diag}
	if err != nil {
		p.log.Warn("import failed", zap.String("file", filename), zap.Error(err))
		return res, err
	}
	res.Root = p.root
	return res, nil
}

func newParser(r io.Reader, filename string, opts Options) *parser {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	root := &Root{node: node{name: filepath.Base(filename)}, Filename: filename}
	p := &parser{
		opts:     opts,
		log:      log,
		sugar:    log.Sugar(),
		lex:      NewLexer(r),
		dir:      filepath.Dir(filename),
		root:     root,
		material: &Material{},
		lines:    make(map[*Mesh]int),
		progress: -1,
	}
	p.b = newBuilder(root, p.material, p.notef)
	return p
}

// notef records a diagnostic line for the caller.
func (p *parser) notef(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.diag = append(p.diag, msg)
	p.sugar.Info(msg)
}

// warnf records a diagnostic line about something that was skipped.
func (p *parser) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.diag = append(p.diag, msg)
	p.sugar.Warn(msg)
}

func (p *parser) run(ctx context.Context) error {
	p.log.Info("starting OBJ reading", zap.String("file", p.root.Filename))

	if err := p.readHeader(); err != nil {
		return err
	}
	if err := p.readBody(ctx); err != nil {
		return err
	}
	if err := p.finish(); err != nil {
		return err
	}

	p.notef("Finished - imported %d primitives", p.primitives())
	return nil
}

// readHeader checks the three header lines: "A" or "I", "800", "OBJ".
func (p *parser) readHeader() error {
	line, _, err := p.lex.readLine()
	if err != nil {
		return err
	}
	if c := strings.TrimSpace(line); c != "A" && c != "I" {
		return newError(ErrHeader, p.lex.Line(), c, "")
	}

	line, _, err = p.lex.readLine()
	if err != nil {
		return err
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return newError(ErrHeader, p.lex.Line(), "", "missing version")
	}
	if fields[0] != "800" {
		return newError(ErrHeader, p.lex.Line(), fields[0], "unsupported version "+fields[0])
	}

	line, _, err = p.lex.readLine()
	if err != nil {
		return err
	}
	fields = strings.Fields(stripComment(line))
	if len(fields) == 0 || fields[0] != "OBJ" {
		return newError(ErrHeader, p.lex.Line(), "", "missing OBJ line")
	}

	p.version = 8
	p.log.Debug("X-Plane v8 format file")
	return nil
}

func (p *parser) readBody(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.reportProgress()

		tokens, err := p.lex.Next(true)
		if err != nil {
			return err
		}
		if tokens == nil {
			return nil
		}

		cmd := LookupCommand(tokens[0])
		if cmd == CmdEnd {
			return nil
		}

		p.log.Debug("input", zap.Int("line", p.lex.Line()), zap.Strings("tokens", tokens))
		rec := newRecord(tokens[1:], p.lex.Line())
		if err := p.dispatch(cmd, tokens[0], rec); err != nil {
			return err
		}
	}
}

func (p *parser) reportProgress() {
	if p.opts.Progress == nil || p.opts.Size <= 0 {
		return
	}
	pct := p.lex.Offset() * 100 / p.opts.Size
	if pct != p.progress {
		p.progress = pct
		p.opts.Progress(p.lex.Offset(), p.opts.Size)
	}
}

// dispatch runs the handler for one command record.
func (p *parser) dispatch(cmd Command, tok string, rec *record) error {
	switch cmd {
	case CmdTexture, CmdTextureLit, CmdTextureNormal:
		return p.texture(cmd, rec)
	case CmdVT:
		return p.vertex(rec)
	case CmdVLine:
		return p.vline(rec)
	case CmdIDX10:
		return p.indices(rec, 10)
	case CmdIDX:
		return p.indices(rec, 1)
	case CmdTris:
		return p.tris(rec)
	case CmdAnimBegin:
		g := p.b.beginGroup()
		p.log.Debug("append animation group", zap.String("name", g.name), zap.Int("depth", p.b.depth()))
		return nil
	case CmdAnimEnd:
		if err := p.b.endGroup(rec.line); err != nil {
			return err
		}
		p.log.Debug("remove animation group", zap.Int("depth", p.b.depth()))
		return nil
	case CmdAnimTrans:
		return p.animTrans(rec)
	case CmdAnimRotate:
		return p.animRotate(rec)
	case CmdAnimRotateBegin:
		return p.animRotateBegin(rec)
	case CmdAnimRotateKey:
		return p.animRotateKey(rec)
	case CmdAnimRotateEnd:
		return p.animRotateEnd(rec)
	case CmdAnimTransBegin:
		return p.animTransBegin(rec)
	case CmdAnimTransKey:
		return p.animTransKey(rec)
	case CmdAnimTransEnd:
		return p.animTransEnd(rec)
	case CmdMetadata:
		p.root.Metadata = append(p.root.Metadata, tok)
		return nil
	default:
		p.warnf("Unrecognised command %q at line %d", tok, rec.line)
		return nil
	}
}

// texture handles TEXTURE, TEXTURE_LIT and TEXTURE_NORMAL. Only a failure
// to load the primary texture is fatal.
func (p *parser) texture(cmd Command, rec *record) error {
	name, _ := rec.token(true)
	if name == "" {
		p.notef("No texture defined for %s", cmd)
		return nil
	}

	ref := &TextureRef{
		Name: name,
		Path: filepath.Join(p.dir, filepath.FromSlash(strings.ReplaceAll(name, `\`, "/"))),
	}

	if p.opts.Images != nil {
		p.log.Info("loading texture file", zap.String("texture", name), zap.String("path", ref.Path))
		img, err := p.opts.Images.LoadImage(ref.Path)
		if err != nil {
			if cmd == CmdTexture {
				return miscError(rec.line, "Cannot read texture file %q: %v", name, err)
			}
			p.warnf("Cannot read texture file %q", name)
		} else {
			ref.Image = img
		}
	}

	switch cmd {
	case CmdTexture:
		p.root.Texture = ref
		p.material.Diffuse = ref
	case CmdTextureLit:
		p.root.TextureLit = ref
		p.material.Lit = ref
	case CmdTextureNormal:
		p.root.TextureNormal = ref
		p.material.Normal = ref
	}
	return nil
}

// vertex handles VT x y z nx ny nz s t.
func (p *parser) vertex(rec *record) error {
	pos, err := rec.vertex()
	if err != nil {
		return err
	}
	normal, err := rec.vertex()
	if err != nil {
		return err
	}
	uv, err := rec.uv()
	if err != nil {
		return err
	}
	p.vt = append(p.vt, vertex{pos: pos, normal: normal, uv: uv})
	return nil
}

// vline handles VLINE x y z r g b.
func (p *parser) vline(rec *record) error {
	pos, err := rec.vertex()
	if err != nil {
		return err
	}
	c, err := rec.color(p.version)
	if err != nil {
		return err
	}
	p.root.Lines = append(p.root.Lines, LineVertex{Position: pos, Color: c})
	return nil
}

// indices handles IDX and IDX10.
func (p *parser) indices(rec *record, n int) error {
	for i := 0; i < n; i++ {
		v, err := rec.int()
		if err != nil {
			return err
		}
		p.idx = append(p.idx, v)
	}
	return nil
}

// tris handles TRIS offset count.
func (p *parser) tris(rec *record) error {
	offset, err := rec.int()
	if err != nil {
		return err
	}
	count, err := rec.int()
	if err != nil {
		return err
	}
	m := p.b.addMesh(offset, count)
	p.meshes = append(p.meshes, m)
	p.lines[m] = rec.line
	p.log.Debug("create mesh", zap.String("name", m.name), zap.Int("offset", offset), zap.Int("count", count))
	return nil
}

// animTrans handles ANIM_trans x1 y1 z1 x2 y2 z2 [v1 v2 [dataref]].
func (p *parser) animTrans(rec *record) error {
	p1, err := rec.vertex()
	if err != nil {
		return err
	}
	p2, err := rec.vertex()
	if err != nil {
		return err
	}
	v1, _ := rec.float(true)
	v2, _ := rec.float(true)
	dataref, _ := rec.token(true)

	return p.b.pushParam(animParam{
		kind:      paramTranslate,
		positions: []math.Vec3{p1, p2},
		values:    []float32{float32(v1), float32(v2)},
		dataref:   dataref,
		line:      rec.line,
	})
}

// animRotate handles ANIM_rotate x y z r1 r2 [v1 v2 [dataref]].
func (p *parser) animRotate(rec *record) error {
	axis, err := rec.vertex()
	if err != nil {
		return err
	}
	r1, err := rec.float(false)
	if err != nil {
		return err
	}
	r2, err := rec.float(false)
	if err != nil {
		return err
	}
	v1, _ := rec.float(true)
	v2, _ := rec.float(true)
	dataref, _ := rec.token(true)

	r2, v2 = normalizeRotation(r2, v2)

	return p.b.pushParam(animParam{
		kind:    paramRotate,
		axis:    axis,
		angles:  []float32{radians(r1), radians(r2)},
		values:  []float32{float32(v1), float32(v2)},
		dataref: dataref,
		line:    rec.line,
	})
}

// animRotateBegin handles ANIM_rotate_begin x y z dataref.
func (p *parser) animRotateBegin(rec *record) error {
	if p.rot != nil {
		return miscError(rec.line, "ANIM_rotate_begin inside ANIM_rotate_begin (opened at line %d)", p.rot.line)
	}
	axis, err := rec.vertex()
	if err != nil {
		return err
	}
	dataref, err := rec.name()
	if err != nil {
		return err
	}
	p.rot = &rotateBuilder{axis: axis, dataref: dataref, line: rec.line}
	p.log.Debug("found ANIM_rotate_begin", zap.String("dataref", dataref))
	return nil
}

// animRotateKey handles ANIM_rotate_key value angle.
func (p *parser) animRotateKey(rec *record) error {
	if p.rot == nil {
		return miscError(rec.line, "ANIM_rotate_key without ANIM_rotate_begin")
	}
	v, err := rec.float(false)
	if err != nil {
		return err
	}
	r, err := rec.float(false)
	if err != nil {
		return err
	}
	p.rot.addKey(v, r)
	return nil
}

func (p *parser) animRotateEnd(rec *record) error {
	if p.rot == nil {
		return miscError(rec.line, "ANIM_rotate_end without ANIM_rotate_begin")
	}
	p.log.Debug("found ANIM_rotate_end", zap.String("dataref", p.rot.dataref))
	param := p.rot.param()
	p.rot = nil
	return p.b.pushParam(param)
}

// animTransBegin handles ANIM_trans_begin dataref.
func (p *parser) animTransBegin(rec *record) error {
	if p.trans != nil {
		return miscError(rec.line, "ANIM_trans_begin inside ANIM_trans_begin (opened at line %d)", p.trans.line)
	}
	dataref, err := rec.name()
	if err != nil {
		return err
	}
	p.trans = &transBuilder{dataref: dataref, line: rec.line}
	p.log.Debug("found ANIM_trans_begin", zap.String("dataref", dataref))
	return nil
}

// animTransKey handles ANIM_trans_key value x y z.
func (p *parser) animTransKey(rec *record) error {
	if p.trans == nil {
		return miscError(rec.line, "ANIM_trans_key without ANIM_trans_begin")
	}
	v, err := rec.float(false)
	if err != nil {
		return err
	}
	pos, err := rec.vertex()
	if err != nil {
		return err
	}
	p.trans.addKey(v, pos)
	return nil
}

func (p *parser) animTransEnd(rec *record) error {
	if p.trans == nil {
		return miscError(rec.line, "ANIM_trans_end without ANIM_trans_begin")
	}
	p.log.Debug("found ANIM_trans_end", zap.String("dataref", p.trans.dataref))
	param := p.trans.param()
	p.trans = nil
	return p.b.pushParam(param)
}

// finish checks that every block was closed and builds mesh geometry from
// the vertex and index tables.
func (p *parser) finish() error {
	line := p.lex.Line()
	if p.rot != nil {
		return miscError(line, "Missing ANIM_rotate_end for ANIM_rotate_begin at line %d", p.rot.line)
	}
	if p.trans != nil {
		return miscError(line, "Missing ANIM_trans_end for ANIM_trans_begin at line %d", p.trans.line)
	}
	if d := p.b.depth(); d > 0 {
		return miscError(line, "Missing ANIM_end for %d open animation(s)", d)
	}

	for _, m := range p.meshes {
		if err := p.buildGeometry(m); err != nil {
			return err
		}
	}
	return nil
}

// buildGeometry fills m.Triangles from its index range. Corners are taken
// in reverse order to flip the winding, and shifted by -m.Centre.
func (p *parser) buildGeometry(m *Mesh) error {
	line := p.lines[m]
	if m.Offset < 0 || m.Count < 0 || m.Offset > len(p.idx) || m.Count > len(p.idx)-m.Offset {
		return miscError(line, "TRIS %d %d outside index table of %d entries", m.Offset, m.Count, len(p.idx))
	}
	if m.Count%3 != 0 {
		return miscError(line, "TRIS count %d is not a multiple of 3", m.Count)
	}

	m.Triangles = make([]Triangle, 0, m.Count/3)
	for i := m.Offset; i < m.Offset+m.Count; i += 3 {
		var tri Triangle
		for k := 0; k < 3; k++ {
			vi := p.idx[i+2-k]
			if vi < 0 || vi >= len(p.vt) {
				return miscError(line, "Vertex index %d outside vertex table of %d entries", vi, len(p.vt))
			}
			v := p.vt[vi]
			tri.Vertices[k] = v.pos.Sub(m.Centre)
			tri.UVs[k] = v.uv
		}
		m.Triangles = append(m.Triangles, tri)
	}
	return nil
}

func (p *parser) primitives() int {
	n := 0
	for _, m := range p.meshes {
		if !m.IsEmpty() {
			n++
		}
	}
	return n
}
