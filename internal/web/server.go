package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"p4g/internal/flat"
	"p4g/internal/model"
	"p4g/internal/printer"
)

//go:embed static/*
var staticFS embed.FS

//go:embed help.md
var helpMD string

// Server serves a record stream that has already been read in full.
type Server struct {
	records  []model.Record
	summary  model.Summary
	report   string
	asm      *flat.Assembler
	splitter *flat.Splitter
	splitMu  sync.Mutex
	logger   *slog.Logger
}

// NewServer analyzes records and prepares the handlers.
func NewServer(records []model.Record, cfg model.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	vf := flat.NewFormatter(cfg)
	asm := flat.NewAssembler(flat.NewParser(cfg), vf)
	analyzer := flat.NewAnalyzer(asm, cfg)
	for _, rec := range records {
		analyzer.Add(rec)
	}
	summary := analyzer.Result()

	return &Server{
		records:  records,
		summary:  summary,
		report:   flat.GenerateReport(summary, vf),
		asm:      asm,
		splitter: flat.NewSplitter(asm, logger),
		logger:   logger,
	}
}

// Handler returns the HTTP handler for the UI and API endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	subFS, _ := fs.Sub(staticFS, "static")
	mux.Handle("/", http.FileServer(http.FS(subFS)))

	// API Endpoints
	mux.HandleFunc("/api/keys", s.handleKeys)
	mux.HandleFunc("/api/report", s.handleReport)
	mux.HandleFunc("/api/records", s.handleRecords)
	mux.HandleFunc("/api/help", handleHelp)
	return mux
}

// StartServer serves s on the given port until the listener fails.
func StartServer(s *Server, port int) error {
	addr := fmt.Sprintf("localhost:%d", port)
	fmt.Printf("Starting p4g web server at http://%s\n", addr)
	fmt.Printf("Serving %d records.\n", len(s.records))
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleKeys(w http.ResponseWriter, r *http.Request) {
	response := struct {
		model.Summary
		Version string `json:"version"`
	}{
		Summary: s.summary,
		Version: model.Version,
	}
	writeJSON(w, response)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(s.report))
}

// handleRecords returns records as JSON objects with indexed fields as arrays.
// Query parameters: split=1, offset, limit (default 100).
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offset, err := intParam(q.Get("offset"), 0)
	if err != nil {
		http.Error(w, "invalid offset", http.StatusBadRequest)
		return
	}
	limit, err := intParam(q.Get("limit"), 100)
	if err != nil || limit <= 0 {
		http.Error(w, "invalid limit", http.StatusBadRequest)
		return
	}
	split := q.Get("split") == "1" || q.Get("split") == "true"

	type recordView struct {
		Num     int              `json:"num"`
		Records []map[string]any `json:"records"`
	}

	views := []recordView{}
	for i := offset; i < len(s.records) && i < offset+limit; i++ {
		recs := []model.Record{s.records[i]}
		if split {
			s.splitMu.Lock()
			recs, err = s.splitter.Split(s.records[i])
			s.splitMu.Unlock()
			if err != nil {
				s.logger.Debug("split left fields out", "record", i+1, "err", err)
			}
		}
		v := recordView{Num: i + 1}
		for _, rec := range recs {
			v.Records = append(v.Records, printer.StructureMap(s.asm, rec))
		}
		views = append(views, v)
	}

	writeJSON(w, struct {
		Total   int          `json:"total"`
		Records []recordView `json:"records"`
	}{Total: len(s.records), Records: views})
}

func handleHelp(w http.ResponseWriter, r *http.Request) {
	// Use the embedded help content
	text := strings.ReplaceAll(helpMD, "{{VERSION}}", model.Version)

	w.Header().Set("Content-Type", "text/markdown")
	w.Write([]byte(text))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func intParam(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return n, nil
}
