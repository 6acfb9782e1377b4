package fbxutils

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mogaika/fbx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/sceneditor/scene"
)

func testScene() (*scene.Scene, *scene.Group, *scene.Model) {
	root := scene.NewScene("Level")
	props := scene.NewGroup("Props")
	props.Position = mgl32.Vec3{1, 2, 3}
	props.Rotation = mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1})
	chair := scene.NewModel("Chair", "chair.glb")
	chair.Scale = mgl32.Vec3{2, 3, 4}

	root.InsertChild(props, -1)
	props.InsertChild(chair, -1)
	root.InsertChild(scene.NewLight(scene.KindPointLight, "Lamp"), -1)
	return root, props, chair
}

func property(t *testing.T, model *fbx.Node, name string) []interface{} {
	for _, p := range model.GetNode("Properties70").GetNodes("P") {
		if p.Properties[0].(string) == name {
			return p.Properties[4:]
		}
	}
	t.Fatalf("property %q not found", name)
	return nil
}

func TestExportSceneHierarchy(t *testing.T) {
	root, props, chair := testScene()
	f := ExportScene(root)

	var models []*fbx.Node
	for _, o := range f.Objects() {
		if o.Name == "Model" {
			models = append(models, o)
		}
	}
	require.Len(t, models, 3)
	assert.Len(t, f.Objects(), 6)
	assert.Equal(t, "Props\x00\x01Model", models[0].Properties[1])
	assert.Equal(t, "Null", models[0].Properties[2])
	assert.Equal(t, "Chair\x00\x01Model", models[1].Properties[1])
	assert.Equal(t, "Lamp\x00\x01Model", models[2].Properties[1])

	assert.Equal(t, []interface{}{float64(1), float64(2), float64(3)}, property(t, models[0], "Lcl Translation"))
	rotation := property(t, models[0], "Lcl Rotation")
	assert.InDelta(t, 90, rotation[2].(float64), 1e-3)
	assert.Equal(t, []interface{}{float64(2), float64(3), float64(4)}, property(t, models[1], "Lcl Scaling"))
	assert.Equal(t, []interface{}{chair.UUID.String()}, property(t, models[1], "SceneNodeUUID"))

	propsId, ok := f.GetCached(props.UUID)
	require.True(t, ok)
	chairId, ok := f.GetCached(chair.UUID)
	require.True(t, ok)

	parents := map[int64]int64{}
	for _, c := range f.Connections() {
		require.Equal(t, "OO", c.Properties[0])
		parents[c.Properties[1].(int64)] = c.Properties[2].(int64)
	}
	assert.Equal(t, int64(0), parents[propsId])
	assert.Equal(t, propsId, parents[chairId])
}

func TestWriteBinary(t *testing.T) {
	root, _, _ := testScene()
	f := ExportScene(root)

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("Kaydara FBX Binary")))

	definitions := f.Root().GetNode("Definitions")
	assert.Equal(t, int32(7), definitions.GetNode("Count").Properties[0])
}
