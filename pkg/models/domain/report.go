package domain

import "time"

// Report represents a complete report rendered by the terminal
type Report struct {
	Title    string
	Period   TimePeriod
	Headline string
	Sections []ReportSection
}

// TimePeriod represents a time range for the report
type TimePeriod struct {
	Start    time.Time
	End      time.Time
	Duration int // in days
}

// ReportSection represents a logical section in the report
type ReportSection struct {
	Title   string
	Summary map[string]interface{}
	Columns []string
	Rows    [][]string
}
