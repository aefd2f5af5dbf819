package web

import (
	"io/ioutil"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/mogaika/layer_browser/config"
	"github.com/mogaika/layer_browser/extract"
	"github.com/mogaika/layer_browser/status"
	"github.com/mogaika/layer_browser/webutils"
)

// ExtractResponse is the body of /json/extract: per-file results in
// upload order plus the aggregate stats.
type ExtractResponse struct {
	Results []extract.Result `json:"results"`
	Stats   extract.Report   `json:"stats"`
}

func HandlerExtractUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		webutils.WriteError(w, errors.Errorf("Invalid http method %q", r.Method))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBytes())
	if err := r.ParseMultipartForm(config.MaxUploadBytes()); err != nil {
		webutils.WriteError(w, errors.Wrapf(err, "Failed to parse upload"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	parts := r.MultipartForm.File["data"]
	if len(parts) == 0 {
		webutils.WriteError(w, errors.Errorf("No files in %q form field", "data"))
		return
	}

	results := make([]extract.Result, 0, len(parts))
	for i, part := range parts {
		data, err := readPart(part)
		if err != nil {
			log.Printf("[web] Error reading part %q: %v", part.Filename, err)
			results = append(results, extract.Result{
				Filename: part.Filename,
				FileType: "UNKNOWN",
				Names:    []string{},
				Failure:  err.Error(),
			})
		} else {
			results = append(results, extract.ExtractFile(part.Filename, data))
		}
		status.Progress(float32(i+1)/float32(len(parts)), "Processed %s", part.Filename)
	}

	report := extract.Summarize(results)
	status.Info("Extracted %d names from %d files", report.TotalNames, report.TotalFiles)

	webutils.WriteJson(w, &ExtractResponse{Results: results, Stats: report})
}

func readPart(part *multipart.FileHeader) ([]byte, error) {
	f, err := part.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open uploaded file")
	}
	defer f.Close()
	return ioutil.ReadAll(f)
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The tool is served and used from the same host.
	CheckOrigin: func(r *http.Request) bool { return true },
}

func HandlerStatusWs(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[web] ws upgrade error: %v", err)
		return
	}
	status.NewClient(conn)
}
