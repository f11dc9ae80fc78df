package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/penwyp/go-pkviz/internal/application/dashboard"
	"github.com/penwyp/go-pkviz/internal/core/model"
	"github.com/penwyp/go-pkviz/internal/data/source"
	"github.com/penwyp/go-pkviz/internal/pipeline"
	"github.com/penwyp/go-pkviz/internal/presentation/formatter"
)

type optionsResponse struct {
	Status   string             `json:"status,omitempty"`
	Controls []pipeline.Control `json:"controls"`
}

type summaryResponse struct {
	Status  string                    `json:"status,omitempty"`
	Summary []pipeline.SubjectSummary `json:"summary"`
}

// session resolves the request's session and applies its query to it.
// It writes a 400 response and returns nil for a malformed query.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *dashboard.Session {
	params, err := DecodeParams(r.URL.Query(), s.config.Dashboard)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}
	sess := s.sessions.Get(w, r)
	params.Apply(sess)
	// load failures are recorded in the graph and reported as status
	_ = sess.Load(r.Context())
	return sess
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	report := sess.Report()

	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, report.Chart); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	report := sess.Report()
	writeJSON(w, formatter.ChartPayload{
		Status:   report.Status,
		Chart:    report.Chart,
		Controls: report.Controls,
	})
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	controls, _, err := sess.Options()
	resp := optionsResponse{Controls: controls}
	if err != nil {
		resp.Status = dashboard.StatusFor(err)
	}
	if resp.Controls == nil {
		resp.Controls = []pipeline.Control{}
	}
	writeJSON(w, resp)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	summary, err := sess.Summary()
	resp := summaryResponse{Summary: summary}
	if err != nil {
		resp.Status = dashboard.StatusFor(err)
	}
	if resp.Summary == nil {
		resp.Summary = []pipeline.SubjectSummary{}
	}
	writeJSON(w, resp)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	table, err := sess.Filtered()
	if err != nil {
		http.Error(w, dashboard.StatusFor(err), errorCode(err))
		return
	}

	var buf bytes.Buffer
	if err := formatter.WriteTableCSV(&buf, table); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	filename := strings.ToLower(sess.Schema().Table) + ".csv"
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, v any) {
	var buf bytes.Buffer
	if err := formatter.WriteJSON(&buf, v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(buf.Bytes())
}

func errorCode(err error) int {
	var mismatch *model.SchemaMismatchError
	switch {
	case errors.As(err, &mismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded), source.IsUnavailable(err):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
