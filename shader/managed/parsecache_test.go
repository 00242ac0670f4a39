package managed

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shaderkit/asset"
	"github.com/gogpu/shaderkit/gpucore"
	"github.com/gogpu/shaderkit/internal/gputest"
	"github.com/gogpu/shaderkit/ssl"
)

func TestParseCacheSharedBetweenPrograms(t *testing.T) {
	fsys := sceneFS()
	fsys["shaders/other.program"] = &fstest.MapFile{Data: []byte(`id: other
includes: [lib/common.glsl]
shaders:
  - {stage: Vertex, source: scene.vert}
  - {stage: Fragment, source: scene.frag}
`)}
	res := asset.NewFS(fsys)
	pc := NewParseCache(0)
	dev := gputest.New()

	a := New(asset.NewPath("/shaders/scene.program"), res, dev, WithParseCache(pc))
	b := New(asset.NewPath("/shaders/other.program"), res, dev, WithParseCache(pc))
	require.NoError(t, a.ReloadFromAsset())
	require.NoError(t, b.ReloadFromAsset())

	// common, vert and frag are parsed once.
	assert.Equal(t, 3, pc.Len())
	hits, misses := pc.Stats()
	assert.Equal(t, uint64(3), hits)
	assert.Equal(t, uint64(3), misses)

	fa, _ := a.TranspiledSource(gpucore.StageFragment)
	fb, _ := b.TranspiledSource(gpucore.StageFragment)
	assert.Equal(t, fa, fb)
}

func TestParseCacheEditedSource(t *testing.T) {
	fsys := sceneFS()
	pc := NewParseCache(0)
	mp := New(asset.NewPath("/shaders/scene.program"), asset.NewFS(fsys), gputest.New(), WithParseCache(pc))
	require.NoError(t, mp.ReloadFromAsset())

	fsys["shaders/scene.vert"] = &fstest.MapFile{Data: []byte(vertSrc + "// edited\n")}
	require.NoError(t, mp.ReloadFromAsset())

	vert, ok := mp.TranspiledSource(gpucore.StageVertex)
	require.True(t, ok)
	assert.Contains(t, vert, "// edited")
	assert.Equal(t, 4, pc.Len(), "the edited text is a new entry")
}

func TestParseCacheStrictKey(t *testing.T) {
	pc := NewParseCache(0)
	src := "@exportfunc\nint f() {\n"

	lenient, err := pc.parse(src, ssl.GLSL, false)
	require.NoError(t, err)
	assert.NotNil(t, lenient)

	_, err = pc.parse(src, ssl.GLSL, true)
	assert.Error(t, err, "strict parse of an unterminated block must not hit the lenient entry")
	assert.Equal(t, 1, pc.Len())
}
