package extract

import (
	"path/filepath"
	"sort"
	"strings"
)

// Extractor pulls layer/material names out of one uploaded file buffer.
// It returns the names in order of appearance, or an error describing
// why the buffer could not be decoded.
type Extractor func(name string, data []byte) ([]string, error)

type handler struct {
	label   string
	extract Extractor
}

var gHandlers map[string]handler = make(map[string]handler, 0)

func SetHandler(format string, label string, e Extractor) {
	gHandlers[strings.ToUpper(format)] = handler{label: label, extract: e}
}

// File is one uploaded file: display name plus raw contents.
type File struct {
	Name string
	Data []byte
}

// Result is the per-file outcome. Exactly one of Names or Failure is
// meaningful: a file with an empty Failure succeeded, even if Names is
// empty.
type Result struct {
	Filename string   `json:"filename"`
	FileType string   `json:"file_type"`
	Names    []string `json:"layers"`
	Failure  string   `json:"error,omitempty"`
}

// ExtractFile dispatches on the file extension and never lets a handler
// error escape: every failure becomes the Failure field of the result.
func ExtractFile(name string, data []byte) Result {
	ext := strings.ToUpper(filepath.Ext(name))

	h, found := gHandlers[ext]
	if !found {
		return Result{
			Filename: name,
			FileType: "UNKNOWN",
			Names:    []string{},
			Failure:  "Unsupported file type",
		}
	}

	names, err := h.extract(name, data)
	if err != nil {
		return Result{
			Filename: name,
			FileType: h.label,
			Names:    []string{},
			Failure:  err.Error(),
		}
	}
	if names == nil {
		names = []string{}
	}
	return Result{
		Filename: name,
		FileType: h.label,
		Names:    names,
	}
}

// ExtractBatch processes files independently, in order. A failing file
// only marks its own result; siblings are unaffected.
func ExtractBatch(files []File) []Result {
	results := make([]Result, 0, len(files))
	for _, f := range files {
		results = append(results, ExtractFile(f.Name, f.Data))
	}
	return results
}

// Report aggregates a batch for the stats cards.
type Report struct {
	TotalFiles      int      `json:"total_files"`
	TotalNames      int      `json:"total_layers"`
	SuccessfulFiles int      `json:"successful_files"`
	UniqueNames     []string `json:"unique_layers"`
}

// Summarize counts totals across all results and collects the sorted set
// of distinct names from files that produced no failure. Name equality
// is exact and case-sensitive.
func Summarize(results []Result) Report {
	report := Report{
		TotalFiles:  len(results),
		UniqueNames: []string{},
	}

	unique := make(map[string]bool)
	for _, r := range results {
		report.TotalNames += len(r.Names)
		if r.Failure == "" {
			report.SuccessfulFiles++
			for _, n := range r.Names {
				unique[n] = true
			}
		}
	}

	for n := range unique {
		report.UniqueNames = append(report.UniqueNames, n)
	}
	sort.Strings(report.UniqueNames)

	return report
}
