package models

import "time"

// Stats represents aggregated ping statistics for a target
type Stats struct {
	Target     string  `json:"target"`
	TotalPings int     `json:"total_pings"`
	Successful int     `json:"successful_pings"`
	AvgRTT     float64 `json:"avg_rtt"`
	MaxRTT     float64 `json:"max_rtt"`
	MinRTT     float64 `json:"min_rtt"`
	PacketLoss float64 `json:"packet_loss"`
}

// Outage represents a run of consecutive failed ping records
type Outage struct {
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	FailedChecks int       `json:"failed_checks"`
	Duration     string    `json:"duration"`
}
