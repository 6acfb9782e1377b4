package scriptlang_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/sceneditor/editor"
	"github.com/mogaika/sceneditor/scene"
	"github.com/mogaika/sceneditor/scriptlang"
)

func names(nodes []scene.Node) []string {
	result := make([]string, len(nodes))
	for i, n := range nodes {
		result[i] = n.AsObject().Name
	}
	return result
}

func TestRunBuildsScene(t *testing.T) {
	e := editor.New()
	in := scriptlang.NewInterpreter()

	require.NoError(t, in.RunScript(e, []byte(`
add $props group "Props"
add $chair model "Chair" $props
add $lamp light.point "Lamp"
position $chair 1 2 3 world
rotate $lamp 0 1 0 90
set $lamp "Intensity" 2
set $chair "Visible" false
duplicate $chair as $chair2
reparent $lamp $props $chair2
group $props as $level
`)))

	props := in.Label("props")
	chair := in.Label("chair")
	lamp := in.Label("lamp")
	require.NotNil(t, props)
	assert.Equal(t, []string{"Chair", "Lamp", "Chair 1"}, names(props.AsObject().Children()))
	assert.Equal(t, "Chair 1", in.Label("chair2").AsObject().Name)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, chair.AsObject().Position)
	assert.False(t, chair.AsObject().Visible)
	assert.True(t, lamp.AsObject().Rotation.ApproxEqualThreshold(mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0}), 1e-5))
	assert.Equal(t, float32(2), lamp.(*scene.Light).Intensity)

	level := in.Label("level")
	assert.Equal(t, scene.Node(e.Scene()), level.AsObject().Parent())
	assert.Equal(t, level, props.AsObject().Parent())
	assert.Equal(t, []scene.Node{level}, e.Selected())
}

func TestRunUndoRedo(t *testing.T) {
	e := editor.New()
	in := scriptlang.NewInterpreter()

	require.NoError(t, in.RunScript(e, []byte(`
add $a group "A"
translate $a 1 0 0
undo
undo
redo
`)))
	a := in.Label("a")
	assert.True(t, e.HasNode(a))
	assert.Equal(t, mgl32.Vec3{}, a.AsObject().Position)
}

func TestRunSelection(t *testing.T) {
	e := editor.New()
	in := scriptlang.NewInterpreter()
	require.NoError(t, in.RunScript(e, []byte(`
add $a group "A"
add $b group "B"
deselectall
select $a $b
deselect $a
toggle $a
`)))
	assert.Equal(t, []string{"B", "A"}, names(e.Selected()))
}

func TestRunErrors(t *testing.T) {
	e := editor.New()
	in := scriptlang.NewInterpreter()

	err := in.RunScript(e, []byte(`remove $ghost`))
	assert.True(t, errors.Is(err, scriptlang.ErrUnknownLabel))
	assert.Contains(t, err.Error(), "line 1")

	assert.Error(t, in.RunScript(e, []byte(`explode`)))
	assert.Error(t, in.RunScript(e, []byte(`add $x teapot "x"`)))
	assert.Error(t, in.RunScript(e, []byte(`add $x group "x" 12`)))

	require.NoError(t, in.RunScript(e, []byte(`add $g group "G"`)))
	err = in.RunScript(e, []byte(`set $g "Visible" 1`))
	assert.True(t, errors.Is(err, scene.ErrPropertyType))
	assert.Error(t, in.RunScript(e, []byte(`position $g 1 2 3 sideways`)))
	err = in.RunScript(e, []byte(`reparent $g $g`))
	assert.True(t, errors.Is(err, editor.ErrCycle))
}
