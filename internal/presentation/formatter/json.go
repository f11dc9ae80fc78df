package formatter

import (
	"io"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-pkviz/internal/pipeline"
)

// ChartPayload is the JSON document describing a rendered view.
type ChartPayload struct {
	Status   string                    `json:"status,omitempty"`
	Chart    pipeline.ChartSpec        `json:"chart"`
	Controls []pipeline.Control        `json:"controls,omitempty"`
	Summary  []pipeline.SubjectSummary `json:"summary,omitempty"`
}

type JSONFormatter struct {
	w io.Writer
}

func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{w: w}
}

func (f *JSONFormatter) Format(r Report) error {
	return WriteJSON(f.w, ChartPayload{
		Status:   r.Status,
		Chart:    r.Chart,
		Controls: r.Controls,
		Summary:  r.Summary,
	})
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
