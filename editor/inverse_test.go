package editor

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/sceneditor/scene"
)

// inverseScene builds
//
//	Scene
//	├── A (rotated, scaled)
//	│   ├── B
//	│   └── C
//	└── D
//	    └── E
//
// with B and D selected.
func inverseScene(f *fixture) map[string]*probe {
	nodes := map[string]*probe{}
	nodes["A"] = f.attached("A", nil)
	nodes["B"] = f.attached("B", nodes["A"])
	nodes["C"] = f.attached("C", nodes["A"])
	nodes["D"] = f.attached("D", nil)
	nodes["E"] = f.attached("E", nodes["D"])

	nodes["A"].Position = mgl32.Vec3{1, 2, 3}
	nodes["A"].Rotation = mgl32.QuatRotate(0.3, mgl32.Vec3{0, 1, 0})
	nodes["A"].Scale = mgl32.Vec3{2, 2, 2}
	nodes["B"].Position = mgl32.Vec3{0, 1, 0}
	nodes["E"].Position = mgl32.Vec3{0, 0, -2}
	f.Scene().UpdateMatrixWorld()

	f.SetSelection([]scene.Node{nodes["B"], nodes["D"]}, NoHistory)
	return nodes
}

func TestInverseLaw(t *testing.T) {
	axis := mgl32.Vec3{0, 0, 1}
	for name, op := range map[string]func(f *fixture, n map[string]*probe) error{
		"select":            func(f *fixture, n map[string]*probe) error { f.Select(n["C"]); return nil },
		"select multiple":   func(f *fixture, n map[string]*probe) error { f.SelectMultiple([]scene.Node{n["E"], n["A"]}); return nil },
		"select all":        func(f *fixture, n map[string]*probe) error { f.SelectAll(); return nil },
		"deselect":          func(f *fixture, n map[string]*probe) error { f.Deselect(n["B"]); return nil },
		"deselect multiple": func(f *fixture, n map[string]*probe) error { f.DeselectMultiple([]scene.Node{n["B"], n["D"]}); return nil },
		"deselect all":      func(f *fixture, n map[string]*probe) error { f.DeselectAll(); return nil },
		"set selection":     func(f *fixture, n map[string]*probe) error { f.SetSelection([]scene.Node{n["E"], n["B"]}); return nil },
		"add": func(f *fixture, n map[string]*probe) error {
			return f.AddObject(f.probe("new"), n["A"], n["C"])
		},
		"add multiple": func(f *fixture, n map[string]*probe) error {
			return f.AddMultipleObjects([]scene.Node{f.probe("x"), f.probe("y")}, n["D"], nil)
		},
		"remove": func(f *fixture, n map[string]*probe) error { return f.RemoveObject(n["B"]) },
		"remove multiple": func(f *fixture, n map[string]*probe) error {
			return f.RemoveMultipleObjects([]scene.Node{n["E"], n["A"], n["C"], n["D"]})
		},
		"duplicate": func(f *fixture, n map[string]*probe) error {
			_, err := f.Duplicate(n["A"], nil, nil)
			return err
		},
		"duplicate multiple": func(f *fixture, n map[string]*probe) error {
			_, err := f.DuplicateMultiple([]scene.Node{n["B"], n["E"]}, n["D"], n["E"])
			return err
		},
		"reparent": func(f *fixture, n map[string]*probe) error { return f.Reparent(n["E"], n["A"], n["B"]) },
		"reparent multiple": func(f *fixture, n map[string]*probe) error {
			return f.ReparentMultiple([]scene.Node{n["C"], n["E"], n["B"]}, n["D"], nil)
		},
		"group": func(f *fixture, n map[string]*probe) error {
			_, err := f.GroupMultiple([]scene.Node{n["E"], n["B"]})
			return err
		},
		"set position":   func(f *fixture, n map[string]*probe) error { return f.SetPosition(n["B"], mgl32.Vec3{5, 5, 5}, World) },
		"set rotation":   func(f *fixture, n map[string]*probe) error { return f.SetRotation(n["B"], mgl32.QuatRotate(1, axis), World) },
		"set scale":      func(f *fixture, n map[string]*probe) error { return f.SetScale(n["B"], mgl32.Vec3{3, 3, 3}, World) },
		"translate":      func(f *fixture, n map[string]*probe) error { return f.Translate(n["B"], mgl32.Vec3{1, 0, 0}, LocalSelection) },
		"rotate on axis": func(f *fixture, n map[string]*probe) error { return f.RotateOnAxis(n["A"], axis, 0.7, World) },
		"rotate around": func(f *fixture, n map[string]*probe) error {
			return f.RotateAround(n["B"], mgl32.Vec3{1, 1, 1}, axis, 0.7, World)
		},
		"scale": func(f *fixture, n map[string]*probe) error { return f.Scale(n["B"], mgl32.Vec3{1, 2, 3}, World) },
		"set position multiple": func(f *fixture, n map[string]*probe) error {
			return f.SetPositionMultiple([]scene.Node{n["B"], n["E"]}, mgl32.Vec3{1, 1, 1}, LocalSelection)
		},
		"set rotation multiple": func(f *fixture, n map[string]*probe) error {
			return f.SetRotationMultiple([]scene.Node{n["B"], n["E"]}, mgl32.QuatRotate(1, axis), Local)
		},
		"set scale multiple": func(f *fixture, n map[string]*probe) error {
			return f.SetScaleMultiple([]scene.Node{n["B"], n["E"]}, mgl32.Vec3{2, 1, 1}, Local)
		},
		"translate multiple": func(f *fixture, n map[string]*probe) error {
			return f.TranslateMultiple([]scene.Node{n["B"], n["E"]}, mgl32.Vec3{0, 1, 0}, World)
		},
		"rotate on axis multiple": func(f *fixture, n map[string]*probe) error {
			return f.RotateOnAxisMultiple([]scene.Node{n["B"], n["E"]}, axis, 0.5, LocalSelection)
		},
		"rotate around multiple": func(f *fixture, n map[string]*probe) error {
			return f.RotateAroundMultiple([]scene.Node{n["B"], n["E"]}, mgl32.Vec3{}, axis, 0.5, Local)
		},
		"scale multiple": func(f *fixture, n map[string]*probe) error {
			return f.ScaleMultiple([]scene.Node{n["B"], n["E"]}, mgl32.Vec3{2, 2, 2}, LocalSelection)
		},
		"set property": func(f *fixture, n map[string]*probe) error { return f.SetProperty(n["B"], "Name", "renamed") },
		"set property multiple": func(f *fixture, n map[string]*probe) error {
			return f.SetPropertyMultiple([]scene.Node{n["B"], n["C"]}, "Visible", false)
		},
		"set properties": func(f *fixture, n map[string]*probe) error {
			return f.SetProperties(n["B"], map[string]any{"Visible": false, "DisableTransform": true})
		},
		"set properties multiple": func(f *fixture, n map[string]*probe) error {
			return f.SetPropertiesMultiple([]scene.Node{n["B"], n["E"]}, map[string]any{"Visible": false, "Position": mgl32.Vec3{9, 9, 9}})
		},
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			nodes := inverseScene(f)
			before := state(f.Editor)

			require.NoError(t, op(f, nodes))
			require.Len(t, f.History().Undos(), 1)
			afterExecute := state(f.Editor)
			assert.NotEqual(t, before, afterExecute)

			_, err := f.Undo()
			require.NoError(t, err)
			assert.Equal(t, before, state(f.Editor))

			_, err = f.Redo()
			require.NoError(t, err)
			assert.Equal(t, afterExecute, state(f.Editor))
		})
	}
}

func TestSelectionInvariantAfterEdits(t *testing.T) {
	f := newFixture()
	n := inverseScene(f)
	f.SelectAll()

	require.NoError(t, f.RemoveObject(n["C"]))
	require.NoError(t, f.Reparent(n["D"], n["B"], nil))
	_, err := f.Duplicate(n["A"], nil, nil)
	require.NoError(t, err)
	require.NoError(t, f.RemoveObject(n["A"]))
	_, err = f.Undo()
	require.NoError(t, err)
	_, err = f.Undo()
	require.NoError(t, err)

	checkSelectionInvariant(t, f.Editor)
}

func checkSelectionInvariant(t *testing.T, e *Editor) {
	t.Helper()
	selected := e.Selected()
	for _, n := range selected {
		assert.True(t, scene.Reachable(e.Scene(), n), "%s is selected but detached", nodeName(n))
	}
	roots := e.SelectedTransformRoots()
	for _, r := range roots {
		assert.Contains(t, selected, r)
		for p := r.AsObject().Parent(); p != nil; p = p.AsObject().Parent() {
			if contains(roots, p) {
				assert.True(t, p.AsObject().DisableTransform, "%s has root ancestor %s", nodeName(r), nodeName(p))
			}
		}
	}
	assert.Equal(t, scene.TransformRoots(e.Scene(), roots), roots)
}
