package web

import (
	"log"
	"net/http"
	"os"
	"path"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// Handler builds the full http surface: the extraction api, the status
// websocket and the static ui, wrapped in recovery and access-log
// middleware.
func Handler(webPath string) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/json/extract", HandlerExtractUpload)
	r.HandleFunc("/ws/status", HandlerStatusWs)

	r.PathPrefix("/").Handler(http.FileServer(http.Dir(path.Join(webPath, "data"))))

	h := handlers.RecoveryHandler()(r)
	h = handlers.LoggingHandler(os.Stdout, h)
	return h
}

func StartServer(addr string, webPath string) error {
	log.Printf("[web] Starting server %v", addr)

	return http.ListenAndServe(addr, Handler(webPath))
}
