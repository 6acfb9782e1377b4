package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

var (
	KindScene            = &Kind{Name: "scene", Singleton: true, NoDuplicate: true}
	KindGroup            = &Kind{Name: "group"}
	KindModel            = &Kind{Name: "model"}
	KindDirectionalLight = &Kind{Name: "light.directional"}
	KindPointLight       = &Kind{Name: "light.point"}
	KindSpotLight        = &Kind{Name: "light.spot"}
	KindAmbientLight     = &Kind{Name: "light.ambient"}
	KindImage            = &Kind{Name: "media.image"}
	KindVideo            = &Kind{Name: "media.video"}
	KindAudio            = &Kind{Name: "media.audio"}
	KindEnvironment      = &Kind{Name: "environment", Singleton: true, NoDuplicate: true}
	KindCamera           = &Kind{Name: "camera", Singleton: true, NoDuplicate: true}
)

func init() {
	KindScene.New = func(name string) Node { return NewScene(name) }
	KindGroup.New = func(name string) Node { return NewGroup(name) }
	KindModel.New = func(name string) Node { return NewModel(name, "") }
	KindDirectionalLight.New = func(name string) Node { return NewLight(KindDirectionalLight, name) }
	KindPointLight.New = func(name string) Node { return NewLight(KindPointLight, name) }
	KindSpotLight.New = func(name string) Node { return NewLight(KindSpotLight, name) }
	KindAmbientLight.New = func(name string) Node { return NewLight(KindAmbientLight, name) }
	KindImage.New = func(name string) Node { return NewMedia(KindImage, name, "") }
	KindVideo.New = func(name string) Node { return NewMedia(KindVideo, name, "") }
	KindAudio.New = func(name string) Node { return NewMedia(KindAudio, name, "") }
	KindEnvironment.New = func(name string) Node { return NewEnvironment(name) }
	KindCamera.New = func(name string) Node { return NewCamera(name) }

	for _, k := range []*Kind{
		KindScene, KindGroup, KindModel,
		KindDirectionalLight, KindPointLight, KindSpotLight, KindAmbientLight,
		KindImage, KindVideo, KindAudio,
		KindEnvironment, KindCamera,
	} {
		RegisterKind(k)
	}
}

// Scene is the root of the graph.
type Scene struct {
	Object
	Background mgl32.Vec3
}

func NewScene(name string) *Scene {
	s := &Scene{Background: mgl32.Vec3{0.15, 0.15, 0.2}}
	s.Init(s, name)
	return s
}

func (s *Scene) Kind() *Kind { return KindScene }

func (s *Scene) Clone() Node {
	c := *s
	c.CloneFrom(&s.Object, &c)
	return &c
}

type Group struct {
	Object
}

func NewGroup(name string) *Group {
	g := &Group{}
	g.Init(g, name)
	return g
}

func (g *Group) Kind() *Kind { return KindGroup }

func (g *Group) Clone() Node {
	c := *g
	c.CloneFrom(&g.Object, &c)
	return &c
}

// Model references geometry loaded from an interchange file.
type Model struct {
	Object
	Src           string
	CastShadow    bool
	ReceiveShadow bool
}

func NewModel(name, src string) *Model {
	m := &Model{Src: src, CastShadow: true, ReceiveShadow: true}
	m.Init(m, name)
	return m
}

func (m *Model) Kind() *Kind { return KindModel }

func (m *Model) Clone() Node {
	c := *m
	c.CloneFrom(&m.Object, &c)
	return &c
}

type Light struct {
	Object
	kind *Kind

	Color      mgl32.Vec3
	Intensity  float32
	Range      float32
	InnerAngle float32
	OuterAngle float32
	CastShadow bool
}

func NewLight(kind *Kind, name string) *Light {
	l := &Light{
		kind:       kind,
		Color:      mgl32.Vec3{1, 1, 1},
		Intensity:  1,
		OuterAngle: mgl32.DegToRad(45),
	}
	l.Init(l, name)
	return l
}

func (l *Light) Kind() *Kind { return l.kind }

func (l *Light) Clone() Node {
	c := *l
	c.CloneFrom(&l.Object, &c)
	return &c
}

// Media is an image, video or audio source placed in the scene.
type Media struct {
	Object
	kind *Kind

	Src      string
	Volume   float32
	Loop     bool
	Autoplay bool
}

func NewMedia(kind *Kind, name, src string) *Media {
	m := &Media{kind: kind, Src: src, Volume: 0.5, Autoplay: true}
	m.Init(m, name)
	return m
}

func (m *Media) Kind() *Kind { return m.kind }

func (m *Media) Clone() Node {
	c := *m
	c.CloneFrom(&m.Object, &c)
	return &c
}

// Fog is shared by reference with anything rendering the environment, so
// property edits copy into it instead of replacing the pointer.
type Fog struct {
	Color   mgl32.Vec3
	Density float32
	Near    float32
	Far     float32
}

func (f *Fog) CopyFrom(src any) error {
	s, ok := src.(*Fog)
	if !ok || s == nil {
		return errors.Wrapf(ErrPropertyType, "cannot copy %T into *Fog", src)
	}
	*f = *s
	return nil
}

func (f *Fog) CloneValue() any {
	c := *f
	return &c
}

type Environment struct {
	Object
	Skybox  string
	Ambient mgl32.Vec3
	Fog     *Fog
}

func NewEnvironment(name string) *Environment {
	e := &Environment{
		Ambient: mgl32.Vec3{0.2, 0.2, 0.2},
		Fog:     &Fog{Color: mgl32.Vec3{1, 1, 1}, Density: 0.0025, Near: 1, Far: 1000},
	}
	e.Init(e, name)
	e.DisableTransform = true
	return e
}

func (e *Environment) Kind() *Kind { return KindEnvironment }

func (e *Environment) Clone() Node {
	c := *e
	c.CloneFrom(&e.Object, &c)
	if e.Fog != nil {
		c.Fog = e.Fog.CloneValue().(*Fog)
	}
	return &c
}

// Camera is the editor viewpoint. It is kept outside the scene graph, so
// it has no parent and cannot be removed.
type Camera struct {
	Object
	FOV  float32
	Near float32
	Far  float32
}

func NewCamera(name string) *Camera {
	c := &Camera{FOV: 75, Near: 0.1, Far: 1000}
	c.Init(c, name)
	return c
}

func (c *Camera) Kind() *Kind { return KindCamera }

func (c *Camera) Clone() Node {
	cc := *c
	cc.CloneFrom(&c.Object, &cc)
	return &cc
}
