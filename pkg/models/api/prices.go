package api

type ReferencePair struct {
	Ref1 string `json:"ref1"`
	Ref2 string `json:"ref2"`
}

type ComparisonRow struct {
	Value  string   `json:"value"`
	Ref1   *float64 `json:"ref1,omitempty"`
	Ref2   *float64 `json:"ref2,omitempty"`
	Metric *float64 `json:"metric"`
}

type AggregateRow struct {
	Value   string  `json:"value"`
	Date    string  `json:"date"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type PriceSection struct {
	Dimension  string          `json:"dimension"`
	Title      string          `json:"title"`
	ShowBoth   bool            `json:"show_both"`
	Rows       []ComparisonRow `json:"rows"`
	Dropped    int             `json:"dropped,omitempty"`
	Aggregates []AggregateRow  `json:"aggregates"`
}

type Warning struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Dimension string `json:"dimension,omitempty"`
	Value     string `json:"value,omitempty"`
}

type PriceReport struct {
	References       ReferencePair  `json:"references"`
	View             string         `json:"view"`
	Category         string         `json:"category,omitempty"`
	Observations     int            `json:"observations"`
	OverallChangePct *float64       `json:"overall_change_pct"`
	Sections         []PriceSection `json:"sections"`
	Warnings         []Warning      `json:"warnings"`
}

type ReferenceDates struct {
	Dates    []string       `json:"dates"`
	Defaults *ReferencePair `json:"defaults,omitempty"`
}
