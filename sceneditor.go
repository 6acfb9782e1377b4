package main

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mogaika/sceneditor/config"
	"github.com/mogaika/sceneditor/editor"
	"github.com/mogaika/sceneditor/scene"
	"github.com/mogaika/sceneditor/scriptlang"
	"github.com/mogaika/sceneditor/utils"
	"github.com/mogaika/sceneditor/utils/fbxutils"
	"github.com/mogaika/sceneditor/utils/gltfutils"
	"github.com/mogaika/sceneditor/web"
)

var log = logrus.WithField("pkg", "main")

// demoScene fills e with a few randomly named and placed nodes.
func demoScene(e *editor.Editor, seed int64) error {
	rng := utils.NewRandomNameGenerator(seed)
	kinds := []*scene.Kind{scene.KindGroup, scene.KindModel, scene.KindPointLight, scene.KindImage}

	var parent scene.Node
	for i := 0; i < 8; i++ {
		n, err := scene.NewNode(kinds[i%len(kinds)].Name, rng.RandomName())
		if err != nil {
			return err
		}
		if err := e.AddObject(n, parent, nil, editor.NoHistory, editor.UniqueName); err != nil {
			return err
		}
		position := mgl32.Vec3{rng.Float(-10, 10), 0, rng.Float(-10, 10)}
		if err := e.SetPosition(n, position, editor.World, editor.NoHistory); err != nil {
			return err
		}
		if n.Kind() == scene.KindGroup {
			parent = n
		}
	}
	return e.AddObject(scene.NewEnvironment("Environment"), nil, nil, editor.NoHistory, editor.NoSelect)
}

// exportScene writes FBX when path ends with .fbx and GLB otherwise.
func exportScene(root scene.Node, path string) error {
	var buf bytes.Buffer
	if strings.EqualFold(filepath.Ext(path), ".fbx") {
		if err := fbxutils.ExportScene(root).Write(&buf); err != nil {
			return err
		}
	} else if err := gltfutils.ExportBinary(&buf, gltfutils.ExportScene(root).Doc); err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(path, buf.Bytes(), 0666), "Can't write %q", path)
}

func main() {
	var configPath, addr, scriptPath, exportPath string
	var dump, demo bool
	var seed int64
	flag.StringVar(&configPath, "config", "", "Path to yaml config")
	flag.StringVar(&addr, "i", "", "Address of server, overrides web.addr")
	flag.StringVar(&scriptPath, "script", "", "Run editor script file")
	flag.StringVar(&exportPath, "export", "", "Write scene as glb (or fbx by extension) after the script and exit")
	flag.BoolVar(&dump, "dump", false, "Dump scene to stdout and exit")
	flag.BoolVar(&demo, "demo", false, "Start with a random demo scene")
	flag.Int64Var(&seed, "seed", 0, "Random seed of the demo scene")
	flag.Parse()

	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			log.Fatal(err)
		}
	}
	if addr != "" {
		cfg.Web.Addr = addr
	}
	config.Set(cfg)
	cfg.ApplyLogLevel()

	e := editor.New(editor.WithConfig(cfg))

	if demo {
		if err := demoScene(e, seed); err != nil {
			log.Fatal(err)
		}
	}

	if scriptPath != "" {
		text, err := os.ReadFile(scriptPath)
		if err != nil {
			log.Fatal(err)
		}
		if err := scriptlang.NewInterpreter().RunScript(e, text); err != nil {
			log.Fatal(err)
		}
		log.Infof("Script %q done, %d undo steps", scriptPath, len(e.History().Undos()))
	}

	if dump {
		if err := utils.DumpScene(os.Stdout, e.Scene()); err != nil {
			log.Fatal(err)
		}
	}

	if exportPath != "" {
		if err := exportScene(e.Scene(), exportPath); err != nil {
			log.Fatal(err)
		}
		log.Infof("Exported %q", exportPath)
	}

	if dump || exportPath != "" {
		return
	}

	if err := web.StartServer(cfg.Web.Addr, e); err != nil {
		log.Fatal(err)
	}
}
