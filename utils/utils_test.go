package utils

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/sceneditor/scene"
)

func TestEulerRoundTrip(t *testing.T) {
	for _, deg := range []mgl32.Vec3{
		{0, 0, 0},
		{90, 0, 0},
		{10, 20, 30},
		{-45, 60, 170},
	} {
		q := EulerToQuat(DegreeToRadiansV3(deg))
		back := RadiansToDegreeV3(QuatToEuler(q))
		assert.True(t, back.ApproxEqualThreshold(deg, 1e-3), "%v -> %v", deg, back)
	}
}

func TestEulerMatchesAxisRotation(t *testing.T) {
	q := EulerToQuat(mgl32.Vec3{0, 0, mgl32.DegToRad(90)})
	expected := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1})
	assert.True(t, q.ApproxEqualThreshold(expected, 1e-6), "%v", q)
}

func TestDumpScene(t *testing.T) {
	root := scene.NewScene("Scene")
	group := scene.NewGroup("Props")
	root.InsertChild(group, -1)
	group.InsertChild(scene.NewModel("Chair", "chair.glb"), -1)

	var buf bytes.Buffer
	require.NoError(t, DumpScene(&buf, root))
	out := buf.String()
	assert.Contains(t, out, `Name: (string) (len=5) "Scene"`)
	assert.Contains(t, out, `  Name: (string) (len=5) "Props"`)
	assert.Contains(t, out, `    Name: (string) (len=5) "Chair"`)
	assert.Equal(t, 3, strings.Count(out, "Kind: (string)"))
}

func TestRandomNamesAreUnique(t *testing.T) {
	rng := NewRandomNameGenerator(42)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		name := rng.RandomName()
		assert.False(t, seen[name], name)
		seen[name] = true
	}

	v := rng.Float(-1, 1)
	assert.True(t, v >= -1 && v < 1, "%v", v)
}

func TestZeroGeneratorKeepsSeededSource(t *testing.T) {
	seeded := NewRandomNameGenerator(5)
	var zero RandomNameGenerator
	first, second := seeded.RandomName(), zero.RandomName()

	again := NewRandomNameGenerator(5)
	assert.Equal(t, first, again.RandomName())
	assert.Equal(t, second, again.RandomName())
}
