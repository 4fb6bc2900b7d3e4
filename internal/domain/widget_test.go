package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWidget_UnmarshalJSONPicksPayload(t *testing.T) {
	raw := `[
		{"id":"a","type":"metric","position":{"x":1,"y":2},"size":{"width":3,"height":4},"data":{"value":"$1","change":"1%","trend":"up"}},
		{"id":"b","type":"table","position":{"x":0,"y":0},"size":{"width":1,"height":1},"data":{"headers":["h"],"rows":[["c"]]}},
		{"id":"c","type":"text","position":{"x":0,"y":0},"size":{"width":1,"height":1},"data":null}
	]`

	var widgets []*Widget
	require.NoError(t, json.Unmarshal([]byte(raw), &widgets))
	require.Len(t, widgets, 3)

	assert.Equal(t, &MetricData{Value: "$1", Change: "1%", Trend: TrendUp}, widgets[0].Data)
	assert.Equal(t, Position{X: 1, Y: 2}, widgets[0].Position)
	assert.Equal(t, &TableData{Headers: []string{"h"}, Rows: [][]string{{"c"}}}, widgets[1].Data)
	assert.Nil(t, widgets[2].Data)
	assert.ErrorIs(t, widgets[2].Validate(), ErrInvalidWidgetData)
}

func TestMergeWidgetData(t *testing.T) {
	base := &ProgressData{Value: 10, Max: 100, Label: "Meta"}

	merged, err := MergeWidgetData(base, map[string]any{"value": "25"})
	require.NoError(t, err)

	assert.Equal(t, &ProgressData{Value: 25, Max: 100, Label: "Meta"}, merged)
	assert.Equal(t, 10.0, base.Value)

	_, err = MergeWidgetData(base, map[string]any{"color": "red"})
	assert.ErrorIs(t, err, ErrInvalidWidgetData)
}

func TestMergeWidgetConfig(t *testing.T) {
	base := WidgetConfig{Color: "#fff", ChartType: ChartTypeLine}

	merged, err := MergeWidgetConfig(base, map[string]any{"chartType": "bar", "showLegend": true})
	require.NoError(t, err)
	assert.Equal(t, WidgetConfig{Color: "#fff", ChartType: ChartTypeBar, ShowLegend: true}, merged)

	_, err = MergeWidgetConfig(base, map[string]any{"unknown": 1})
	assert.ErrorIs(t, err, ErrInvalidWidgetData)
}

func TestLayout_ValidateRejectsDuplicates(t *testing.T) {
	widget := &Widget{ID: "a", Type: WidgetTypeText, Data: &TextData{Content: "x"}}
	layout := &DashboardLayout{Widgets: []*Widget{widget, widget.Clone()}}

	assert.ErrorIs(t, layout.Validate(), ErrInvalidLayout)

	layout.Widgets = layout.Widgets[:1]
	assert.NoError(t, layout.Validate())
}
