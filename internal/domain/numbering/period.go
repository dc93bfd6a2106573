// Package numbering implements official letter numbering: durable sequence
// counters per letter type and period, number formatting, and the
// reserve-on-preview / confirm-on-print reservation protocol.
package numbering

import (
	"fmt"
	"time"
)

// ResetPeriod defines when a letter type's sequence restarts from 1.
type ResetPeriod string

const (
	ResetYearly  ResetPeriod = "year"
	ResetMonthly ResetPeriod = "month"
	ResetNever   ResetPeriod = "never"
)

// Valid reports whether the reset period is a known value.
func (r ResetPeriod) Valid() bool {
	switch r {
	case ResetYearly, ResetMonthly, ResetNever:
		return true
	}
	return false
}

// Period identifies one numbering window for a letter type.
// Key is the durable sequence partition key ("2025", "2025-02" or "all").
type Period struct {
	Key   string
	Year  int
	Month time.Month
}

// PeriodFor derives the numbering period from the reset policy and a point in time.
func PeriodFor(reset ResetPeriod, at time.Time) Period {
	p := Period{Year: at.Year(), Month: at.Month()}
	switch reset {
	case ResetMonthly:
		p.Key = fmt.Sprintf("%04d-%02d", at.Year(), at.Month())
	case ResetNever:
		p.Key = "all"
	default:
		p.Key = fmt.Sprintf("%04d", at.Year())
	}
	return p
}
