package server

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/refdiff/refdiff/internal/analyzer"
	"github.com/refdiff/refdiff/internal/dedupe"
	"github.com/refdiff/refdiff/internal/record"
	"github.com/refdiff/refdiff/internal/ris"
	"github.com/refdiff/refdiff/internal/storage"
)

// recordView is the template-facing projection of a record.
type recordView struct {
	Title   string
	Authors string
	Year    string
	Journal string
	DOI     string
	Fuzzy   bool
}

// analyzePage feeds the analyze template.
type analyzePage struct {
	Filename string
	Stats    analyzer.Stats
	Records  []recordView
}

// comparePage feeds the compare template.
type comparePage struct {
	SessionID string
	FilenameA string
	FilenameB string
	TotalA    int
	TotalB    int
	Overlap   []recordView
	UniqueA   []recordView
	UniqueB   []recordView
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, "index.html", nil)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow() {
		http.Error(w, "too many uploads, slow down", http.StatusTooManyRequests)
		return
	}

	recs, filename, ok := s.parseUpload(w, r, "ris_file")
	if !ok {
		return
	}

	page := analyzePage{
		Filename: filename,
		Stats:    analyzer.Analyze(recs),
		Records:  toViews(recs),
	}
	s.render(w, "analyze.html", page)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow() {
		http.Error(w, "too many uploads, slow down", http.StatusTooManyRequests)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 2*maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	fileA, headerA, err := r.FormFile("file_a")
	if err != nil {
		http.Error(w, "file_a is required", http.StatusBadRequest)
		return
	}
	defer fileA.Close()
	fileB, headerB, err := r.FormFile("file_b")
	if err != nil {
		http.Error(w, "file_b is required", http.StatusBadRequest)
		return
	}
	defer fileB.Close()

	sessionID := uuid.NewString()
	pathA, err := s.saveUpload(fileA, sessionID+"-a-"+sanitizeFilename(headerA.Filename))
	if err != nil {
		s.serverError(w, "saving upload", err)
		return
	}
	pathB, err := s.saveUpload(fileB, sessionID+"-b-"+sanitizeFilename(headerB.Filename))
	if err != nil {
		s.serverError(w, "saving upload", err)
		return
	}

	recsA, err := parseRISFile(pathA)
	if err != nil {
		http.Error(w, "parsing "+headerA.Filename+": "+err.Error(), http.StatusBadRequest)
		return
	}
	recsB, err := parseRISFile(pathB)
	if err != nil {
		http.Error(w, "parsing "+headerB.Filename+": "+err.Error(), http.StatusBadRequest)
		return
	}

	overlap, uniqueA, uniqueB := dedupe.Compare(recsA, recsB, dedupe.Options{
		UseFuzzy:  true,
		Threshold: s.cfg.Threshold,
	})

	session := storage.Session{
		ID:           sessionID,
		FilenameA:    headerA.Filename,
		FilenameB:    headerB.Filename,
		PathA:        pathA,
		PathB:        pathB,
		OverlapCount: len(overlap),
		UniqueACount: len(uniqueA),
		UniqueBCount: len(uniqueB),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.sessions.Put(session); err != nil {
		s.serverError(w, "storing session", err)
		return
	}

	s.log.Info("comparison complete",
		zap.String("session", sessionID),
		zap.Int("total_a", len(recsA)),
		zap.Int("total_b", len(recsB)),
		zap.Int("overlap", len(overlap)),
	)

	page := comparePage{
		SessionID: sessionID,
		FilenameA: headerA.Filename,
		FilenameB: headerB.Filename,
		TotalA:    len(recsA),
		TotalB:    len(recsB),
		Overlap:   toViews(overlap),
		UniqueA:   toViews(uniqueA),
		UniqueB:   toViews(uniqueB),
	}
	s.render(w, "compare.html", page)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	subset := r.URL.Query().Get("subset")
	if sessionID == "" || subset == "" {
		http.Error(w, "session and subset are required", http.StatusBadRequest)
		return
	}

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		s.serverError(w, "loading session", err)
		return
	}
	if session == nil {
		http.Error(w, "session expired or unknown, please re-upload", http.StatusNotFound)
		return
	}

	recsA, err := parseRISFile(session.PathA)
	if err != nil {
		http.Error(w, "uploaded files expired, please re-upload", http.StatusNotFound)
		return
	}
	recsB, err := parseRISFile(session.PathB)
	if err != nil {
		http.Error(w, "uploaded files expired, please re-upload", http.StatusNotFound)
		return
	}

	overlap, uniqueA, uniqueB := dedupe.Compare(recsA, recsB, dedupe.Options{
		UseFuzzy:  true,
		Threshold: s.cfg.Threshold,
	})

	var target []record.Record
	var exportName string
	switch subset {
	case "overlap":
		target = overlap
		exportName = fmt.Sprintf("overlap_%s_%s", session.FilenameA, session.FilenameB)
	case "unique_a":
		target = uniqueA
		exportName = "unique_to_" + session.FilenameA
	case "unique_b":
		target = uniqueB
		exportName = "unique_to_" + session.FilenameB
	default:
		http.Error(w, "subset must be overlap, unique_a or unique_b", http.StatusBadRequest)
		return
	}

	if !strings.HasSuffix(exportName, ".ris") {
		exportName += ".ris"
	}

	w.Header().Set("Content-Type", "application/x-research-info-systems")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportName))
	io.WriteString(w, ris.Write(target))
}

// parseUpload reads one multipart file field and parses it as RIS. On
// failure it writes the HTTP error itself and returns ok=false.
func (s *Server) parseUpload(w http.ResponseWriter, r *http.Request, field string) ([]record.Record, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid upload: "+err.Error(), http.StatusBadRequest)
		return nil, "", false
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		http.Error(w, field+" is required", http.StatusBadRequest)
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.serverError(w, "reading upload", err)
		return nil, "", false
	}

	recs, err := ris.Parse(data)
	if err != nil {
		http.Error(w, "parsing "+header.Filename+": "+err.Error(), http.StatusBadRequest)
		return nil, "", false
	}
	return recs, header.Filename, true
}

// saveUpload stores an uploaded file under the uploads directory.
func (s *Server) saveUpload(file multipart.File, name string) (string, error) {
	path := filepath.Join(s.cfg.UploadsDir, name)
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		s.log.Error("rendering template", zap.String("template", name), zap.Error(err))
	}
}

func (s *Server) serverError(w http.ResponseWriter, msg string, err error) {
	s.log.Error(msg, zap.Error(err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func parseRISFile(path string) ([]record.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ris.Parse(data)
}

// sanitizeFilename keeps upload names safe for the local filesystem.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, string(os.PathSeparator), "_")
	if name == "" || name == "." {
		name = "upload.ris"
	}
	return name
}

func toViews(recs []record.Record) []recordView {
	views := make([]recordView, len(recs))
	for i, rec := range recs {
		views[i] = recordView{
			Title:   rec.Title(),
			Authors: strings.Join(rec.Authors(), "; "),
			Year:    rec.Year(),
			Journal: rec.Journal(),
			DOI:     rec.DOI(),
			Fuzzy:   rec.IsFuzzyMatch(),
		}
	}
	return views
}
