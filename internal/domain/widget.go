package domain

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/mapstructure"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	ErrUnknownWidgetType  = errors.New("tipo de widget desconhecido")
	ErrInvalidWidgetData  = errors.New("dados do widget inválidos")
	ErrWidgetTypeMismatch = errors.New("dados não correspondem ao tipo do widget")
)

type WidgetType string

const (
	WidgetTypeMetric   WidgetType = "metric"
	WidgetTypeChart    WidgetType = "chart"
	WidgetTypeTable    WidgetType = "table"
	WidgetTypeProgress WidgetType = "progress"
	WidgetTypeText     WidgetType = "text"
)

var WidgetTypes = []WidgetType{
	WidgetTypeMetric,
	WidgetTypeChart,
	WidgetTypeTable,
	WidgetTypeProgress,
	WidgetTypeText,
}

func (t WidgetType) IsValid() bool {
	for _, known := range WidgetTypes {
		if t == known {
			return true
		}
	}
	return false
}

type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

type ChartType string

const (
	ChartTypeLine     ChartType = "line"
	ChartTypeBar      ChartType = "bar"
	ChartTypePie      ChartType = "pie"
	ChartTypeDoughnut ChartType = "doughnut"
)

type Position struct {
	X int `json:"x" mapstructure:"x"`
	Y int `json:"y" mapstructure:"y"`
}

type Size struct {
	Width  int `json:"width" mapstructure:"width"`
	Height int `json:"height" mapstructure:"height"`
}

// WidgetConfig contém a configuração visual; nem todo campo se aplica a todo tipo
type WidgetConfig struct {
	Color      string    `json:"color,omitempty" mapstructure:"color"`
	ChartType  ChartType `json:"chartType,omitempty" mapstructure:"chartType"`
	ShowLegend bool      `json:"showLegend,omitempty" mapstructure:"showLegend"`
	FontSize   int       `json:"fontSize,omitempty" mapstructure:"fontSize"`
}

// WidgetData é o payload tipado de cada widget
type WidgetData interface {
	WidgetType() WidgetType
	Validate() error
	CloneData() WidgetData
}

type MetricData struct {
	Value  string `json:"value"`
	Change string `json:"change"`
	Trend  Trend  `json:"trend"`
}

func (*MetricData) WidgetType() WidgetType { return WidgetTypeMetric }

func (d *MetricData) Validate() error {
	switch d.Trend {
	case TrendUp, TrendDown, TrendNeutral:
		return nil
	}
	return fmt.Errorf("%w: trend %q", ErrInvalidWidgetData, d.Trend)
}

func (d *MetricData) CloneData() WidgetData {
	clone := *d
	return &clone
}

type ChartData struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

func (*ChartData) WidgetType() WidgetType { return WidgetTypeChart }

func (d *ChartData) Validate() error {
	if len(d.Labels) != len(d.Values) {
		return fmt.Errorf("%w: %d rótulos para %d valores", ErrInvalidWidgetData, len(d.Labels), len(d.Values))
	}
	return nil
}

func (d *ChartData) CloneData() WidgetData {
	return &ChartData{
		Labels: append([]string{}, d.Labels...),
		Values: append([]float64{}, d.Values...),
	}
}

type TableData struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

func (*TableData) WidgetType() WidgetType { return WidgetTypeTable }

func (d *TableData) Validate() error {
	for i, row := range d.Rows {
		if len(row) != len(d.Headers) {
			return fmt.Errorf("%w: linha %d tem %d colunas, esperado %d", ErrInvalidWidgetData, i, len(row), len(d.Headers))
		}
	}
	return nil
}

func (d *TableData) CloneData() WidgetData {
	rows := make([][]string, len(d.Rows))
	for i, row := range d.Rows {
		rows[i] = append([]string{}, row...)
	}
	return &TableData{
		Headers: append([]string{}, d.Headers...),
		Rows:    rows,
	}
}

type ProgressData struct {
	Value float64 `json:"value"`
	Max   float64 `json:"max"`
	Label string  `json:"label"`
}

func (*ProgressData) WidgetType() WidgetType { return WidgetTypeProgress }

func (d *ProgressData) Validate() error {
	if d.Max <= 0 || d.Value < 0 {
		return fmt.Errorf("%w: progresso %v/%v", ErrInvalidWidgetData, d.Value, d.Max)
	}
	return nil
}

func (d *ProgressData) CloneData() WidgetData {
	clone := *d
	return &clone
}

type TextData struct {
	Content string `json:"content"`
}

func (*TextData) WidgetType() WidgetType { return WidgetTypeText }

func (*TextData) Validate() error { return nil }

func (d *TextData) CloneData() WidgetData {
	clone := *d
	return &clone
}

// NewWidgetData retorna um payload vazio para o tipo informado
func NewWidgetData(t WidgetType) (WidgetData, error) {
	switch t {
	case WidgetTypeMetric:
		return &MetricData{}, nil
	case WidgetTypeChart:
		return &ChartData{}, nil
	case WidgetTypeTable:
		return &TableData{}, nil
	case WidgetTypeProgress:
		return &ProgressData{}, nil
	case WidgetTypeText:
		return &TextData{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownWidgetType, t)
}

// DecodeWidgetData decodifica JSON bruto no payload do tipo informado
func DecodeWidgetData(t WidgetType, raw []byte) (WidgetData, error) {
	data, err := NewWidgetData(t)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWidgetData, err)
	}
	return data, nil
}

// MergeWidgetData aplica um mapa parcial sobre uma cópia de base.
// Campos ausentes no mapa mantêm o valor de base; listas presentes são substituídas.
func MergeWidgetData(base WidgetData, partial map[string]any) (WidgetData, error) {
	merged := base.CloneData()

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		ZeroFields:       true,
		Result:           merged,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(partial); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWidgetData, err)
	}

	return merged, nil
}

// MergeWidgetConfig aplica um mapa parcial sobre a configuração atual
func MergeWidgetConfig(base WidgetConfig, partial map[string]any) (WidgetConfig, error) {
	merged := base

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &merged,
	})
	if err != nil {
		return base, err
	}

	if err := decoder.Decode(partial); err != nil {
		return base, fmt.Errorf("%w: %v", ErrInvalidWidgetData, err)
	}

	return merged, nil
}

type Widget struct {
	ID       string       `json:"id"`
	Type     WidgetType   `json:"type"`
	Title    string       `json:"title"`
	Position Position     `json:"position"`
	Size     Size         `json:"size"`
	Data     WidgetData   `json:"data"`
	Config   WidgetConfig `json:"config"`
}

func (w *Widget) Clone() *Widget {
	if w == nil {
		return nil
	}
	clone := *w
	if w.Data != nil {
		clone.Data = w.Data.CloneData()
	}
	return &clone
}

func (w *Widget) Validate() error {
	if w.ID == "" {
		return fmt.Errorf("%w: widget sem id", ErrInvalidWidgetData)
	}
	if !w.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownWidgetType, w.Type)
	}
	if w.Size.Width < 0 || w.Size.Height < 0 || w.Position.X < 0 || w.Position.Y < 0 {
		return fmt.Errorf("%w: geometria negativa no widget %s", ErrInvalidWidgetData, w.ID)
	}
	if w.Data == nil {
		return fmt.Errorf("%w: widget %s sem dados", ErrInvalidWidgetData, w.ID)
	}
	if w.Data.WidgetType() != w.Type {
		return fmt.Errorf("%w: widget %s", ErrWidgetTypeMismatch, w.ID)
	}
	return w.Data.Validate()
}

type widgetJSON struct {
	ID       string              `json:"id"`
	Type     WidgetType          `json:"type"`
	Title    string              `json:"title"`
	Position Position            `json:"position"`
	Size     Size                `json:"size"`
	Data     jsoniter.RawMessage `json:"data"`
	Config   WidgetConfig        `json:"config"`
}

// UnmarshalJSON escolhe o payload de Data a partir do campo type
func (w *Widget) UnmarshalJSON(b []byte) error {
	var raw widgetJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	w.ID = raw.ID
	w.Type = raw.Type
	w.Title = raw.Title
	w.Position = raw.Position
	w.Size = raw.Size
	w.Config = raw.Config
	w.Data = nil

	if len(raw.Data) == 0 || string(raw.Data) == "null" {
		return nil
	}

	data, err := DecodeWidgetData(raw.Type, raw.Data)
	if err != nil {
		return err
	}
	w.Data = data

	return nil
}
