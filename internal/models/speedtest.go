package models

import "time"

// SpeedtestResult mirrors the result event printed by the Ookla speedtest CLI
// in --format=json mode. Bandwidth values are bytes per second.
type SpeedtestResult struct {
	Type       string             `json:"type"`
	Timestamp  time.Time          `json:"timestamp"`
	Ping       SpeedtestPing      `json:"ping"`
	Download   SpeedtestTransfer  `json:"download"`
	Upload     SpeedtestTransfer  `json:"upload"`
	PacketLoss float64            `json:"packetLoss,omitempty"`
	ISP        string             `json:"isp"`
	Interface  SpeedtestInterface `json:"interface"`
	Server     SpeedtestServer    `json:"server"`
	Result     SpeedtestLink      `json:"result"`
}

type SpeedtestPing struct {
	Jitter  float64 `json:"jitter"`
	Latency float64 `json:"latency"`
	Low     float64 `json:"low,omitempty"`
	High    float64 `json:"high,omitempty"`
}

type SpeedtestTransfer struct {
	Bandwidth float64 `json:"bandwidth"`
	Bytes     int64   `json:"bytes"`
	Elapsed   int64   `json:"elapsed"` // milliseconds
}

type SpeedtestInterface struct {
	InternalIP string `json:"internalIp"`
	Name       string `json:"name"`
	MacAddr    string `json:"macAddr"`
	IsVPN      bool   `json:"isVpn"`
	ExternalIP string `json:"externalIp"`
}

type SpeedtestServer struct {
	ID       int    `json:"id"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Country  string `json:"country"`
	IP       string `json:"ip"`
}

type SpeedtestLink struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Persisted bool   `json:"persisted"`
}
