package managed

import (
	"fmt"
	"slices"

	"github.com/gogpu/shaderkit"
	"github.com/gogpu/shaderkit/asset"
	"github.com/gogpu/shaderkit/gpucore"
	"github.com/gogpu/shaderkit/shader"
	"github.com/gogpu/shaderkit/ssl"
)

// Device is the part of gpucore.Device a ManagedProgram needs.
type Device interface {
	gpucore.ShaderDevice
	gpucore.ProgramDevice
}

// Option configures a ManagedProgram.
type Option func(*ManagedProgram)

// WithCompileOptions sets the options DoRecompile compiles with.
func WithCompileOptions(opts shader.CompileOptions) Option {
	return func(mp *ManagedProgram) { mp.compileOpts = opts }
}

// WithLinkOptions sets the options DoRecompile links with.
func WithLinkOptions(opts shader.LinkOptions) Option {
	return func(mp *ManagedProgram) { mp.linkOpts = opts }
}

// WithStrictParse parses sources in strict mode.
func WithStrictParse() Option {
	return func(mp *ManagedProgram) { mp.strictParse = true }
}

// WithStrictImports makes an unresolved @import a reload error.
func WithStrictImports() Option {
	return func(mp *ManagedProgram) { mp.strictImports = true }
}

// RecompileReport collects the outcome of DoRecompile.
type RecompileReport struct {
	Compile map[gpucore.ShaderStage]shader.CompileResult
	Link    shader.LinkResult
}

// OK reports whether every stage compiled and the program linked.
func (r RecompileReport) OK() bool {
	for _, c := range r.Compile {
		if !c.OK() {
			return false
		}
	}
	return r.Link.OK()
}

// ManagedProgram is a shader.Program built from a descriptor asset. It can
// be reloaded from disk while the application runs: ReloadFromAsset builds
// a new program from the current files and DoRecompile compiles it on the
// render thread.
//
// ManagedProgram is not safe for concurrent use.
type ManagedProgram struct {
	path asset.Path
	res  asset.Resolver
	dev  Device

	compileOpts   shader.CompileOptions
	linkOpts      shader.LinkOptions
	strictParse   bool
	strictImports bool
	parseCache    *ParseCache

	id             string
	program        *shader.Program
	transpiled     map[gpucore.ShaderStage]string
	deps           []asset.Path
	needsRecompile bool
}

// New returns a ManagedProgram for the descriptor at path. Nothing is read
// until ReloadFromAsset.
func New(path asset.Path, res asset.Resolver, dev Device, opts ...Option) *ManagedProgram {
	mp := &ManagedProgram{
		path:        path,
		res:         res,
		dev:         dev,
		compileOpts: shader.DefaultCompileOptions(),
		linkOpts:    shader.DefaultLinkOptions(),
		deps:        []asset.Path{path},
	}
	for _, opt := range opts {
		opt(mp)
	}
	return mp
}

// Path returns the descriptor path.
func (mp *ManagedProgram) Path() asset.Path { return mp.path }

// ID returns the descriptor id of the last successful reload.
func (mp *ManagedProgram) ID() string { return mp.id }

// Program returns the current program, or nil before the first reload.
func (mp *ManagedProgram) Program() *shader.Program { return mp.program }

// NeedsRecompile reports whether a reload is waiting for DoRecompile.
func (mp *ManagedProgram) NeedsRecompile() bool { return mp.needsRecompile }

// MarkRecompileNeeded forces the next DoRecompile.
func (mp *ManagedProgram) MarkRecompileNeeded() { mp.needsRecompile = true }

// TranspiledSource returns the transpiled source of stage from the last
// successful reload.
func (mp *ManagedProgram) TranspiledSource(stage gpucore.ShaderStage) (string, bool) {
	src, ok := mp.transpiled[stage]
	return src, ok
}

// Dependencies returns the descriptor, include and stage source paths seen
// by the reloads so far.
func (mp *ManagedProgram) Dependencies() []asset.Path {
	return slices.Clone(mp.deps)
}

// ReloadFromAsset reads the descriptor and every source it references and
// builds a new, uncompiled program. The current program is replaced only
// when every step succeeded; on error it stays in place together with the
// recompile flag.
func (mp *ManagedProgram) ReloadFromAsset() error {
	deps := []asset.Path{mp.path}
	b, err := mp.build(&deps)
	mp.addDeps(deps)
	if err != nil {
		if b != nil && b.program != nil {
			b.program.Dispose()
		}
		return err
	}

	if mp.program != nil {
		mp.program.Dispose()
	}
	mp.id = b.id
	mp.program = b.program
	mp.transpiled = b.transpiled
	mp.needsRecompile = true

	shaderkit.Logger().Info("shader program reloaded",
		"path", mp.path.String(), "id", mp.id, "stages", len(b.transpiled))
	return nil
}

type buildResult struct {
	id         string
	program    *shader.Program
	transpiled map[gpucore.ShaderStage]string
}

func (mp *ManagedProgram) build(deps *[]asset.Path) (*buildResult, error) {
	text, err := mp.res.ReadToString(mp.path)
	if err != nil {
		return nil, &DescriptorError{Name: mp.path.String(), Err: err}
	}
	desc, err := DecodeDescriptor(mp.path.String(), []byte(text))
	if err != nil {
		return nil, err
	}

	includes := make([]*ssl.ParsedSource, 0, len(desc.Includes))
	for _, inc := range desc.Includes {
		p := mp.path.Resolve(asset.NewPath(inc))
		*deps = append(*deps, p)
		parsed, err := mp.parse(p)
		if err != nil {
			return nil, err
		}
		includes = append(includes, parsed)
	}

	b := &buildResult{
		id:         desc.ID,
		program:    shader.NewProgram(mp.dev),
		transpiled: make(map[gpucore.ShaderStage]string, len(desc.Shaders)),
	}
	for _, def := range desc.Shaders {
		stage, err := def.ParsedStage()
		if err != nil {
			return b, &DescriptorError{Name: mp.path.String(), Err: err}
		}
		p := mp.path.Resolve(asset.NewPath(def.Source))
		*deps = append(*deps, p)

		unit, err := mp.parse(p)
		if err != nil {
			return b, err
		}
		var topts []ssl.TranspileOption
		if mp.strictImports {
			topts = append(topts, ssl.WithStrictImports())
		}
		t := ssl.NewTranspiler(unit, topts...)
		for _, inc := range includes {
			t.AddInclude(inc)
		}
		out, err := t.Transpile()
		if err != nil {
			return b, &SourceError{Path: p.String(), Err: err}
		}
		shaderkit.Logger().Debug("shader transpiled", "path", p.String(), "stage", stage, "bytes", len(out))

		s := shader.NewShader(mp.dev, stage)
		s.SetSource(shader.Code{Text: out, Language: languageOf(unit.Dialect)})
		if !b.program.AttachShader(s) {
			return b, &DescriptorError{Name: mp.path.String(), Err: fmt.Errorf("%w: %s", ErrDuplicateStage, stage)}
		}
		b.transpiled[stage] = out
	}
	return b, nil
}

func (mp *ManagedProgram) parse(p asset.Path) (*ssl.ParsedSource, error) {
	text, err := mp.res.ReadToString(p)
	if err != nil {
		return nil, &SourceError{Path: p.String(), Err: err}
	}
	dialect := ssl.DialectForPath(p.String())
	var parsed *ssl.ParsedSource
	if mp.parseCache != nil {
		parsed, err = mp.parseCache.parse(text, dialect, mp.strictParse)
	} else {
		parsed, err = parseSource(text, dialect, mp.strictParse)
	}
	if err != nil {
		return nil, &SourceError{Path: p.String(), Err: err}
	}
	return parsed, nil
}

func (mp *ManagedProgram) addDeps(deps []asset.Path) {
	for _, d := range deps {
		if !slices.Contains(mp.deps, d) {
			mp.deps = append(mp.deps, d)
		}
	}
}

func languageOf(d ssl.Dialect) gpucore.SourceLanguage {
	if d == ssl.WGSL {
		return gpucore.LanguageWGSL
	}
	return gpucore.LanguageGLSL
}

// DoRecompile compiles and links the current program and clears the
// recompile flag, whatever the outcome. Failures are logged. An empty
// program is created if no reload has succeeded yet.
func (mp *ManagedProgram) DoRecompile() RecompileReport {
	if mp.program == nil {
		mp.program = shader.NewProgram(mp.dev)
	}
	log := shaderkit.Logger()

	report := RecompileReport{Compile: mp.program.CompileAll(mp.compileOpts)}
	report.Link = mp.program.Link(mp.linkOpts)
	if !report.Link.OK() {
		log.Warn("shader program link failed",
			"path", mp.path.String(), "status", report.Link.Status, "log", report.Link.Log)
	} else {
		log.Debug("shader program ready", "path", mp.path.String(), "handle", uint64(mp.program.Handle()))
	}

	mp.needsRecompile = false
	return report
}

// Dispose releases the program and its shaders.
func (mp *ManagedProgram) Dispose() {
	if mp.program != nil {
		mp.program.Dispose()
		mp.program = nil
	}
	mp.transpiled = nil
	mp.needsRecompile = false
}
