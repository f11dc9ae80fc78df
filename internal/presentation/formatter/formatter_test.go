package formatter

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-pkviz/internal/core/model"
	"github.com/penwyp/go-pkviz/internal/data/source"
	"github.com/penwyp/go-pkviz/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pkTable() *model.Table {
	rec := func(compound, strain string, t float64, conc *float64) model.Record {
		r := model.Record{
			Dims: map[model.Dimension]string{
				model.DimCompound: compound, model.DimStudy: "S1", model.DimStrain: strain,
				model.DimAnimal: "A1", model.DimSpecies: "Mouse", model.DimDose: "10",
			},
			Time:   t,
			Values: map[model.Measure]float64{},
		}
		if conc != nil {
			r.Values[model.MeasureConc] = *conc
		}
		return r
	}
	v1, v2 := 100.0, 0.125
	return model.NewTable(model.PKSchema, []model.Record{
		rec("A", "X", 0, &v1),
		rec("A", "X", 0.5, &v2),
		rec("B", "Y, with comma", 7, nil),
	})
}

func TestWriteTableCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTableCSV(&buf, pkTable()))

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, model.PKSchema.Columns(), rows[0])
	assert.Equal(t, []string{"A", "S1", "X", "A1", "Mouse", "10", "0", "100"}, rows[1])
	assert.Equal(t, "0.5", rows[2][6])
	assert.Equal(t, "0.125", rows[2][7])
	assert.Equal(t, "", rows[3][7], "missing value is an empty cell")
}

func TestCSVRoundTrip(t *testing.T) {
	table := pkTable()
	var buf bytes.Buffer
	require.NoError(t, NewCSVFormatter(&buf).Format(Report{Table: table}))

	parsed, err := source.ReadCSV(&buf, model.PKSchema)
	require.NoError(t, err)
	assert.Equal(t, table.Len(), parsed.Len())
	assert.Equal(t, table.Schema.Columns(), parsed.Schema.Columns())
	for i := range table.Records {
		assert.Equal(t, table.Records[i].Dims, parsed.Records[i].Dims)
		assert.Equal(t, table.Records[i].Time, parsed.Records[i].Time)
		assert.Equal(t, table.Records[i].Values, parsed.Records[i].Values)
	}
}

func TestWriteTableCSVNilTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTableCSV(&buf, nil))
	assert.Empty(t, buf.String())
}

func sampleReport(t *testing.T) Report {
	t.Helper()
	table := pkTable()
	groups, err := pipeline.Aggregate(table, model.MeasureConc, model.PKSchema.Keys)
	require.NoError(t, err)
	summary, err := pipeline.Summarize(table)
	require.NoError(t, err)
	chart := pipeline.BuildChart(pipeline.Annotate(groups), pipeline.DefaultChartOptions(model.PKSchema, model.MeasureConc))
	return Report{Measure: model.MeasureConc, Table: table, Groups: groups, Chart: chart, Summary: summary}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	report := sampleReport(t)
	report.Status = "3 records"
	require.NoError(t, NewJSONFormatter(&buf).Format(report))

	var payload ChartPayload
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &payload))
	assert.Equal(t, "3 records", payload.Status)
	assert.Equal(t, "Mean Concentrations Over Time", payload.Chart.Title)
	require.Len(t, payload.Chart.Series, 1, "the all-missing group is dropped from the chart")
	assert.Equal(t, []float64{0, 0.5}, payload.Chart.Series[0].X)
	assert.Len(t, payload.Summary, 2)
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(&buf).Format(sampleReport(t)))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "┌"))
	assert.Contains(t, out, "COMPOUND_ID")
	assert.Contains(t, out, "100.00")
	assert.Contains(t, out, "Total")
	assert.Contains(t, out, "Concentration (ng/mL), 3 groups")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	width := len([]rune(lines[0]))
	for _, line := range lines[:len(lines)-1] {
		assert.Equal(t, width, len([]rune(line)), "line %q", line)
	}
}

func TestTableFormatterNoData(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(&buf).Format(Report{Status: "upstream unavailable"}))
	assert.Equal(t, "upstream unavailable\nNo data\n", buf.String())
}

func TestSummaryFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewSummaryFormatter(&buf).Format(sampleReport(t)))
	out := buf.String()
	assert.Contains(t, out, "Study Summary")
	assert.Contains(t, out, "Subjects:     2")
	assert.Contains(t, out, "Observations: 3")
	assert.Contains(t, out, "Compounds:    A, B")

	buf.Reset()
	require.NoError(t, NewSummaryFormatter(&buf).Format(Report{}))
	assert.Contains(t, buf.String(), "No data to summarize")
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	for _, name := range []string{"", "table", "json", "csv", "summary"} {
		f, err := New(name, &buf)
		require.NoError(t, err, name)
		assert.NotNil(t, f)
	}
	_, err := New("xml", &buf)
	assert.Error(t, err)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "999", formatNumber(999))
	assert.Equal(t, "1,000", formatNumber(1000))
	assert.Equal(t, "1,234,567", formatNumber(1234567))
}
