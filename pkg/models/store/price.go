package store

import "time"

type PriceRecord struct {
	ReferenceDate   time.Time
	Price           *float64 // NULL prices survive the scan and are rejected by adapters
	Category        string
	Subcategory     string
	ProductName     string
	VendorGroupName string
}

type PriceStats struct {
	RecordsCount int64
	DatesCount   int64
	FirstDate    *time.Time
	LastDate     *time.Time
}
