package models

import "time"

// AnalysisReport is a stored AI commentary together with the KPIs of the
// period it covers.
type AnalysisReport struct {
	ID          string    `bson:"_id" json:"id"`
	PeriodStart string    `bson:"period_start,omitempty" json:"period_start,omitempty"`
	PeriodEnd   string    `bson:"period_end,omitempty" json:"period_end,omitempty"`
	Records     int       `bson:"records" json:"records"`
	KPIs        KPIs      `bson:"kpis" json:"kpis"`
	Text        string    `bson:"text" json:"text"`
	Source      string    `bson:"source" json:"source"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// Report sources.
const (
	SourceManual    = "manual"
	SourceScheduled = "scheduled"
)
