package api

import "time"

type ControlRoomKPIs struct {
	ESBSuccessRate        float64   `json:"esb_success_rate"`
	LatestESBWeek         time.Time `json:"latest_esb_week"`
	ResubmissionsThisWeek int       `json:"resubmissions_this_week"`
	OpenESBItems          int       `json:"open_esb_items"`
	LatestBankWeek        time.Time `json:"latest_bank_week"`
	OutstandingReconItems int       `json:"outstanding_recon_items"`
}

type SeriesPoint struct {
	Series string    `json:"series"`
	X      time.Time `json:"x"`
	Y      float64   `json:"y"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Status   string `json:"status,omitempty"`
	Count    int    `json:"count"`
}

type BankRecon struct {
	Week        time.Time `json:"week"`
	System      string    `json:"system"`
	MatchPct    float64   `json:"match_pct"`
	Outstanding int       `json:"outstanding"`
	Note        string    `json:"note"`
}

type ESBFeed struct {
	Week        time.Time `json:"week"`
	Feed        string    `json:"feed"`
	Total       int       `json:"total"`
	Failed      int       `json:"failed"`
	Resubmitted int       `json:"resubmitted"`
	Open        int       `json:"open"`
}

type GenelcoOversight struct {
	Week        time.Time `json:"week"`
	Feed        string    `json:"feed"`
	SuccessRate float64   `json:"success_rate"`
	Exceptions  int       `json:"exceptions"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes"`
}

type IFRS17Batch struct {
	Date        time.Time `json:"date"`
	BatchID     string    `json:"batch_id"`
	Records     int       `json:"records"`
	PostedToSun int       `json:"posted_to_sun"`
	PostingPct  float64   `json:"posting_pct"`
	Status      string    `json:"status"`
	Comment     string    `json:"comment"`
}

type ControlRoom struct {
	KPIs              ControlRoomKPIs    `json:"kpis"`
	BankMatchTrend    []SeriesPoint      `json:"bank_match_trend"`
	BankOutstanding   []CategoryCount    `json:"bank_outstanding"`
	BankControlLog    []BankRecon        `json:"bank_control_log"`
	ESBPosture        []CategoryCount    `json:"esb_posture"`
	ESBWeeklyTrend    []SeriesPoint      `json:"esb_weekly_trend"`
	ESBControlLog     []ESBFeed          `json:"esb_control_log"`
	GenelcoTrend      []SeriesPoint      `json:"genelco_trend"`
	GenelcoControlLog []GenelcoOversight `json:"genelco_control_log"`
	IFRS17Batches     []IFRS17Batch      `json:"ifrs17_batches"`
}
