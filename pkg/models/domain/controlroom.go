package domain

import "time"

type BankRecon struct {
	Week        time.Time
	System      string // Sunsystem, Genelco, Capsil
	MatchPct    float64
	Outstanding int
	Note        string
}

type ESBFeed struct {
	Week        time.Time
	Feed        string // BEL, CAB, SLA, ...
	Total       int
	Failed      int
	Resubmitted int
	Open        int
}

type GenelcoOversight struct {
	Week        time.Time
	Feed        string
	SuccessRate float64
	Exceptions  int
	Status      string
	Notes       string
}

type IFRS17Batch struct {
	Date        time.Time
	BatchID     string
	Records     int
	PostedToSun int
	PostingPct  float64
	Status      string
	Comment     string
}

type ControlRoomKPIs struct {
	ESBSuccessRate        float64
	LatestESBWeek         time.Time
	ResubmissionsThisWeek int
	OpenESBItems          int
	LatestBankWeek        time.Time
	OutstandingReconItems int
}

type SeriesPoint struct {
	Series string
	X      time.Time
	Y      float64
}

type CategoryCount struct {
	Category string
	Status   string
	Count    int
}

type ControlRoom struct {
	KPIs ControlRoomKPIs

	BankMatchTrend    []SeriesPoint
	BankOutstanding   []CategoryCount
	BankControlLog    []BankRecon
	ESBPosture        []CategoryCount
	ESBWeeklyTrend    []SeriesPoint
	ESBControlLog     []ESBFeed
	GenelcoTrend      []SeriesPoint
	GenelcoControlLog []GenelcoOversight
	IFRS17Batches     []IFRS17Batch
}
