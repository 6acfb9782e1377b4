package web

import (
	"bytes"
	"net/http"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/mogaika/sceneditor/editor"
	"github.com/mogaika/sceneditor/history"
	"github.com/mogaika/sceneditor/scene"
	"github.com/mogaika/sceneditor/utils"
	"github.com/mogaika/sceneditor/utils/fbxutils"
	"github.com/mogaika/sceneditor/utils/gltfutils"
	"github.com/mogaika/sceneditor/webutils"
)

var ErrNodeNotFound = errors.New("node not found")

type jsonNode struct {
	UUID     string      `json:"uuid"`
	Name     string      `json:"name"`
	Kind     string      `json:"kind"`
	Position mgl32.Vec3  `json:"position"`
	Rotation [4]float32  `json:"rotation"`
	Scale    mgl32.Vec3  `json:"scale"`
	Visible  bool        `json:"visible"`
	Fixed    bool        `json:"fixed"`
	Selected bool        `json:"selected,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

func (s *Server) marshalNode(n scene.Node) *jsonNode {
	o := n.AsObject()
	jn := &jsonNode{
		UUID:     o.UUID.String(),
		Name:     o.Name,
		Kind:     n.Kind().Name,
		Position: o.Position,
		Rotation: o.Rotation.V.Vec4(o.Rotation.W),
		Scale:    o.Scale,
		Visible:  o.Visible,
		Fixed:    o.DisableTransform,
		Selected: s.editor.IsSelected(n),
	}
	for _, child := range o.Children() {
		jn.Children = append(jn.Children, s.marshalNode(child))
	}
	return jn
}

func uuids(nodes []scene.Node) []string {
	result := make([]string, len(nodes))
	for i, n := range nodes {
		result[i] = n.AsObject().UUID.String()
	}
	return result
}

// statusCode maps editor errors to http codes.
func statusCode(err error) int {
	switch {
	case errors.Is(err, ErrNodeNotFound), errors.Is(err, scene.ErrUnknownKind):
		return http.StatusNotFound
	case errors.Is(err, history.ErrDisabled):
		return http.StatusConflict
	}
	return http.StatusBadRequest
}

func writeError(w http.ResponseWriter, err error) {
	webutils.WriteError(w, statusCode(err), err)
}

func (s *Server) node(r *http.Request, key string) (scene.Node, error) {
	id := mux.Vars(r)[key]
	if n := s.editor.FindByUUID(id); n != nil {
		return n, nil
	}
	return nil, errors.Wrapf(ErrNodeNotFound, "%q", id)
}

// optionalNode resolves a uuid from a request body, empty means none.
func (s *Server) optionalNode(id string) (scene.Node, error) {
	if id == "" {
		return nil, nil
	}
	if n := s.editor.FindByUUID(id); n != nil {
		return n, nil
	}
	return nil, errors.Wrapf(ErrNodeNotFound, "%q", id)
}

func (s *Server) HandlerJsonScene(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, s.marshalNode(s.editor.Scene()))
}

func (s *Server) writeSelection(w http.ResponseWriter) {
	result := struct {
		Selected []string `json:"selected"`
		Roots    []string `json:"roots"`
		Active   string   `json:"active,omitempty"`
	}{
		Selected: uuids(s.editor.Selected()),
		Roots:    uuids(s.editor.SelectedTransformRoots()),
	}
	if active := s.editor.ActiveObject(); active != nil {
		result.Active = active.AsObject().UUID.String()
	}
	webutils.WriteJson(w, result)
}

func (s *Server) HandlerJsonSelection(w http.ResponseWriter, r *http.Request) {
	s.writeSelection(w)
}

type jsonRecord struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func records(list []history.Record) []jsonRecord {
	result := make([]jsonRecord, len(list))
	for i, rec := range list {
		result[i] = jsonRecord{ID: rec.ID, Name: rec.Command.String()}
	}
	return result
}

func (s *Server) writeHistory(w http.ResponseWriter) {
	h := s.editor.History()
	webutils.WriteJson(w, struct {
		Enabled bool         `json:"enabled"`
		Undos   []jsonRecord `json:"undos"`
		Redos   []jsonRecord `json:"redos"`
	}{
		Enabled: h.Enabled(),
		Undos:   records(h.Undos()),
		Redos:   records(h.Redos()),
	})
}

func (s *Server) HandlerJsonHistory(w http.ResponseWriter, r *http.Request) {
	s.writeHistory(w)
}

func (s *Server) HandlerActionAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string `json:"name"`
		Parent string `json:"parent"`
		Before string `json:"before"`
	}
	if err := webutils.ReadJson(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Name == "" {
		req.Name = s.names.RandomName()
	}
	parent, err := s.optionalNode(req.Parent)
	if err != nil {
		writeError(w, err)
		return
	}
	before, err := s.optionalNode(req.Before)
	if err != nil {
		writeError(w, err)
		return
	}

	n, err := scene.NewNode(mux.Vars(r)["kind"], req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	if !s.editor.CanAdd(n.Kind()) {
		writeError(w, errors.Errorf("Scene already has a %s", n.Kind().Name))
		return
	}
	if err := s.editor.AddObject(n, parent, before, editor.UniqueName); err != nil {
		writeError(w, err)
		return
	}
	webutils.WriteJson(w, s.marshalNode(n))
}

func (s *Server) HandlerActionRemove(w http.ResponseWriter, r *http.Request) {
	n, err := s.node(r, "uuid")
	if err == nil {
		err = s.editor.RemoveObject(n)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	s.writeSelection(w)
}

func (s *Server) HandlerActionDuplicate(w http.ResponseWriter, r *http.Request) {
	n, err := s.node(r, "uuid")
	if err != nil {
		writeError(w, err)
		return
	}
	clone, err := s.editor.Duplicate(n, nil, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	if clone == nil {
		writeError(w, errors.Errorf("%s cannot be duplicated", n.Kind().Name))
		return
	}
	webutils.WriteJson(w, s.marshalNode(clone))
}

func (s *Server) HandlerActionSelect(w http.ResponseWriter, r *http.Request) {
	n, err := s.node(r, "uuid")
	if err != nil {
		writeError(w, err)
		return
	}
	s.editor.Select(n)
	s.writeSelection(w)
}

func (s *Server) HandlerActionDeselect(w http.ResponseWriter, r *http.Request) {
	n, err := s.node(r, "uuid")
	if err != nil {
		writeError(w, err)
		return
	}
	s.editor.Deselect(n)
	s.writeSelection(w)
}

func (s *Server) HandlerActionReparent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Before string `json:"before"`
	}
	if err := webutils.ReadJson(r, &req); err != nil {
		writeError(w, err)
		return
	}
	n, err := s.node(r, "uuid")
	if err != nil {
		writeError(w, err)
		return
	}
	parent, err := s.node(r, "parent")
	if err != nil {
		writeError(w, err)
		return
	}
	before, err := s.optionalNode(req.Before)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.editor.Reparent(n, parent, before); err != nil {
		writeError(w, err)
		return
	}
	webutils.WriteJson(w, s.marshalNode(n))
}

func (s *Server) HandlerActionPosition(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Position mgl32.Vec3 `json:"position"`
		Space    string     `json:"space"`
	}
	if err := webutils.ReadJson(r, &req); err != nil {
		writeError(w, err)
		return
	}
	n, err := s.node(r, "uuid")
	if err != nil {
		writeError(w, err)
		return
	}
	space, err := editor.ParseSpace(req.Space)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.editor.SetPosition(n, req.Position, space); err != nil {
		writeError(w, err)
		return
	}
	webutils.WriteJson(w, s.marshalNode(n))
}

// propertyValue turns decoded JSON into a value the property setters
// accept. Arrays of three numbers become vectors.
func propertyValue(v interface{}) (interface{}, error) {
	list, ok := v.([]interface{})
	if !ok {
		return v, nil
	}
	var result mgl32.Vec3
	if len(list) != len(result) {
		return nil, errors.Errorf("Expected %d numbers, got %d", len(result), len(list))
	}
	for i, item := range list {
		f, ok := item.(float64)
		if !ok {
			return nil, errors.Errorf("Expected number, got %v", item)
		}
		result[i] = float32(f)
	}
	return result, nil
}

func (s *Server) HandlerActionProperty(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value interface{} `json:"value"`
	}
	if err := webutils.ReadJson(r, &req); err != nil {
		writeError(w, err)
		return
	}
	n, err := s.node(r, "uuid")
	if err != nil {
		writeError(w, err)
		return
	}
	value, err := propertyValue(req.Value)
	if err != nil {
		writeError(w, err)
		return
	}
	name := mux.Vars(r)["name"]
	if err := s.editor.SetProperty(n, name, value); err != nil {
		writeError(w, err)
		return
	}
	current, err := scene.GetProperty(n, name)
	if err != nil {
		writeError(w, err)
		return
	}
	webutils.WriteJson(w, map[string]interface{}{"value": current})
}

func (s *Server) HandlerActionUndo(w http.ResponseWriter, r *http.Request) {
	if _, err := s.editor.Undo(); err != nil {
		writeError(w, err)
		return
	}
	s.writeHistory(w)
}

func (s *Server) HandlerActionRedo(w http.ResponseWriter, r *http.Request) {
	if _, err := s.editor.Redo(); err != nil {
		writeError(w, err)
		return
	}
	s.writeHistory(w)
}

func (s *Server) HandlerDumpScene(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := utils.DumpScene(w, s.editor.Scene()); err != nil {
		log.Errorf("Dump error: %v", err)
	}
}

func (s *Server) HandlerExportScene(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := gltfutils.ExportBinary(&buf, gltfutils.ExportScene(s.editor.Scene()).Doc); err != nil {
		webutils.WriteError(w, http.StatusInternalServerError, err)
		return
	}
	webutils.WriteFile(w, &buf, "scene.glb")
}

func (s *Server) HandlerExportSceneFbx(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := fbxutils.ExportScene(s.editor.Scene()).Write(&buf); err != nil {
		webutils.WriteError(w, http.StatusInternalServerError, err)
		return
	}
	webutils.WriteFile(w, &buf, "scene.fbx")
}
