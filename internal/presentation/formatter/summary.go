package formatter

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// SummaryFormatter prints the per-subject study summary.
type SummaryFormatter struct {
	w io.Writer
}

func NewSummaryFormatter(w io.Writer) *SummaryFormatter {
	return &SummaryFormatter{w: w}
}

func (f *SummaryFormatter) Format(r Report) error {
	fmt.Fprintln(f.w, strings.Repeat("=", 60))
	fmt.Fprintln(f.w, "Study Summary")
	fmt.Fprintln(f.w, strings.Repeat("=", 60))
	if r.Status != "" {
		fmt.Fprintln(f.w, r.Status)
	}

	if len(r.Summary) == 0 {
		fmt.Fprintln(f.w, "No data to summarize")
		fmt.Fprintln(f.w, strings.Repeat("=", 60))
		return nil
	}

	headers := []string{"Study", "Compound", "Animal", "Species", "Strain", "Dose", "Obs"}
	rows := make([][]string, 0, len(r.Summary))
	studies := make(map[string]struct{})
	compounds := make(map[string]struct{})
	observations := 0
	for _, s := range r.Summary {
		rows = append(rows, []string{s.Study, s.Compound, s.Animal, s.Species, s.Strain, s.Dose, fmt.Sprintf("%d", s.Observations)})
		studies[s.Study] = struct{}{}
		compounds[s.Compound] = struct{}{}
		observations += s.Observations
	}

	box := newBoxTable(headers, len(headers)-1)
	box.addRows(rows)
	box.render(f.w)

	fmt.Fprintln(f.w)
	fmt.Fprintf(f.w, "Subjects:     %s\n", formatNumber(len(r.Summary)))
	fmt.Fprintf(f.w, "Observations: %s\n", formatNumber(observations))
	fmt.Fprintf(f.w, "Studies:      %s\n", strings.Join(sortedKeys(studies), ", "))
	fmt.Fprintf(f.w, "Compounds:    %s\n", strings.Join(sortedKeys(compounds), ", "))
	fmt.Fprintln(f.w, strings.Repeat("=", 60))
	return nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
