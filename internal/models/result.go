package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ProbeKind identifies which probe produced a Result
type ProbeKind string

const (
	KindPing      ProbeKind = "ping"
	KindSpeedtest ProbeKind = "speedtest"
)

// Result is the record persisted once per tick
type Result struct {
	Time         time.Time `json:"time"`
	Type         ProbeKind `json:"type"`
	Summary      string    `json:"summary"`
	IsSuccessful bool      `json:"isSuccessful"`
	Data         Data      `json:"data"`
}

// NewResult stamps a record with the given time in UTC
func NewResult(now time.Time, kind ProbeKind, ok bool, summary string, data Data) Result {
	return Result{
		Time:         now.UTC(),
		Type:         kind,
		Summary:      summary,
		IsSuccessful: ok,
		Data:         data,
	}
}

// PingResponse is the outcome of probing a single target
type PingResponse struct {
	Host        string  `json:"host"`
	NumericHost string  `json:"numeric_host,omitempty"`
	Alive       bool    `json:"alive"`
	Output      string  `json:"output"`
	Time        float64 `json:"time"`       // milliseconds
	PacketLoss  float64 `json:"packetLoss"` // percentage
}

type dataKind uint8

const (
	dataError dataKind = iota
	dataPing
	dataSpeedtest
)

// Data holds the raw probe output of a Result: per-target ping responses,
// a speed test result, or an error message.
type Data struct {
	kind      dataKind
	pings     []PingResponse
	speedtest SpeedtestResult
	err       string
}

// PingData wraps per-target ping responses
func PingData(responses []PingResponse) Data {
	return Data{kind: dataPing, pings: responses}
}

// SpeedtestData wraps a speed test result
func SpeedtestData(result SpeedtestResult) Data {
	return Data{kind: dataSpeedtest, speedtest: result}
}

// ErrorData wraps an operation-level error message
func ErrorData(message string) Data {
	return Data{kind: dataError, err: message}
}

// Pings returns the ping responses, if Data holds them.
func (d Data) Pings() ([]PingResponse, bool) {
	return d.pings, d.kind == dataPing
}

// Speedtest returns the speed test result, if Data holds one.
func (d Data) Speedtest() (SpeedtestResult, bool) {
	return d.speedtest, d.kind == dataSpeedtest
}

// ErrorMessage returns the error message, if Data holds one.
func (d Data) ErrorMessage() (string, bool) {
	return d.err, d.kind == dataError
}

func (d Data) MarshalJSON() ([]byte, error) {
	switch d.kind {
	case dataPing:
		if d.pings == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(d.pings)
	case dataSpeedtest:
		return json.Marshal(d.speedtest)
	default:
		return json.Marshal(d.err)
	}
}

func (d *Data) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty data field")
	}

	switch trimmed[0] {
	case '[':
		var pings []PingResponse
		if err := json.Unmarshal(trimmed, &pings); err != nil {
			return fmt.Errorf("decode ping data: %w", err)
		}
		*d = PingData(pings)
	case '{':
		var st SpeedtestResult
		if err := json.Unmarshal(trimmed, &st); err != nil {
			return fmt.Errorf("decode speedtest data: %w", err)
		}
		*d = SpeedtestData(st)
	case '"':
		var msg string
		if err := json.Unmarshal(trimmed, &msg); err != nil {
			return fmt.Errorf("decode error data: %w", err)
		}
		*d = ErrorData(msg)
	case 'n':
		*d = ErrorData("")
	default:
		return fmt.Errorf("unexpected data field: %.20s", trimmed)
	}
	return nil
}
