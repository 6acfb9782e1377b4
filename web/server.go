// Package web serves the JSON API of one editor.
package web

import (
	"net/http"
	"os"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/mogaika/sceneditor/editor"
	"github.com/mogaika/sceneditor/status"
	"github.com/mogaika/sceneditor/utils"
)

var log = logrus.WithField("pkg", "web")

// Server serialises every request on one lock, the editor itself is not
// safe for concurrent use.
type Server struct {
	lock   sync.Mutex
	editor *editor.Editor
	hub    *status.Hub
	names  utils.RandomNameGenerator
}

func NewServer(e *editor.Editor, hub *status.Hub) *Server {
	return &Server{editor: e, hub: hub}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/json/scene", s.locked(s.HandlerJsonScene)).Methods(http.MethodGet)
	r.HandleFunc("/json/selection", s.locked(s.HandlerJsonSelection)).Methods(http.MethodGet)
	r.HandleFunc("/json/history", s.locked(s.HandlerJsonHistory)).Methods(http.MethodGet)

	action := r.PathPrefix("/action").Methods(http.MethodPost).Subrouter()
	action.HandleFunc("/add/{kind}", s.locked(s.HandlerActionAdd))
	action.HandleFunc("/remove/{uuid}", s.locked(s.HandlerActionRemove))
	action.HandleFunc("/duplicate/{uuid}", s.locked(s.HandlerActionDuplicate))
	action.HandleFunc("/select/{uuid}", s.locked(s.HandlerActionSelect))
	action.HandleFunc("/deselect/{uuid}", s.locked(s.HandlerActionDeselect))
	action.HandleFunc("/reparent/{uuid}/{parent}", s.locked(s.HandlerActionReparent))
	action.HandleFunc("/position/{uuid}", s.locked(s.HandlerActionPosition))
	action.HandleFunc("/property/{uuid}/{name}", s.locked(s.HandlerActionProperty))
	action.HandleFunc("/undo", s.locked(s.HandlerActionUndo))
	action.HandleFunc("/redo", s.locked(s.HandlerActionRedo))

	r.HandleFunc("/dump/scene", s.locked(s.HandlerDumpScene)).Methods(http.MethodGet)
	r.HandleFunc("/export/scene.glb", s.locked(s.HandlerExportScene)).Methods(http.MethodGet)
	r.HandleFunc("/export/scene.fbx", s.locked(s.HandlerExportSceneFbx)).Methods(http.MethodGet)
	if s.hub != nil {
		r.Handle("/ws/status", s.hub)
	}
	return r
}

func (s *Server) locked(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.lock.Lock()
		defer s.lock.Unlock()
		h(w, r)
	}
}

// Handler wraps the router with request logging and panic recovery.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.Router()
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(log), handlers.PrintRecoveryStack(true))(h)
	return handlers.LoggingHandler(os.Stdout, h)
}

func StartServer(addr string, e *editor.Editor) error {
	hub := status.NewHub()
	defer hub.Close()
	unwatch := hub.Watch(e)
	defer unwatch()

	s := NewServer(e, hub)
	log.Infof("Starting server %v", addr)
	return http.ListenAndServe(addr, s.Handler())
}
