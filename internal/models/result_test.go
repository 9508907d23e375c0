package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestResultFieldOrder(t *testing.T) {
	r := NewResult(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), KindPing, true, "20.00ms",
		PingData([]PingResponse{{Host: "1.1.1.1", Alive: true, Time: 20}}))

	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	s := string(b)
	order := []string{`"time"`, `"type"`, `"summary"`, `"isSuccessful"`, `"data"`}
	last := -1
	for _, key := range order {
		idx := strings.Index(s, key)
		if idx < 0 {
			t.Fatalf("missing %s in %s", key, s)
		}
		if idx < last {
			t.Fatalf("field %s out of order in %s", key, s)
		}
		last = idx
	}
}

func TestDataEncodesBareShape(t *testing.T) {
	tests := []struct {
		name   string
		data   Data
		prefix string
	}{
		{name: "ping", data: PingData([]PingResponse{{Host: "8.8.8.8"}}), prefix: "["},
		{name: "empty ping", data: PingData(nil), prefix: "[]"},
		{name: "speedtest", data: SpeedtestData(SpeedtestResult{Type: "result"}), prefix: "{"},
		{name: "error", data: ErrorData("boom"), prefix: `"boom"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.data)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if !strings.HasPrefix(string(b), tt.prefix) {
				t.Errorf("got %s, want prefix %s", b, tt.prefix)
			}
		})
	}
}

func TestResultDecodeRestoresDataKind(t *testing.T) {
	lines := map[string]string{
		"ping":      `{"time":"2024-03-01T12:00:00Z","type":"ping","summary":"1 failed","isSuccessful":false,"data":[{"host":"1.1.1.1","alive":false,"output":"","time":0,"packetLoss":100}]}`,
		"speedtest": `{"time":"2024-03-01T12:00:00Z","type":"speedtest","summary":"1% 1% 15ms","isSuccessful":true,"data":{"type":"result","ping":{"jitter":1,"latency":15},"download":{"bandwidth":125000000},"upload":{"bandwidth":6250000}}}`,
		"error":     `{"time":"2024-03-01T12:00:00Z","type":"ping","summary":"failed","isSuccessful":false,"data":"exec: \"ping\": executable file not found in $PATH"}`,
	}

	var r Result
	if err := json.Unmarshal([]byte(lines["ping"]), &r); err != nil {
		t.Fatalf("decode ping: %v", err)
	}
	pings, ok := r.Data.Pings()
	if !ok || len(pings) != 1 || pings[0].Host != "1.1.1.1" || pings[0].PacketLoss != 100 {
		t.Errorf("unexpected ping data: %+v (ok=%v)", pings, ok)
	}

	r = Result{}
	if err := json.Unmarshal([]byte(lines["speedtest"]), &r); err != nil {
		t.Fatalf("decode speedtest: %v", err)
	}
	st, ok := r.Data.Speedtest()
	if !ok || st.Download.Bandwidth != 125000000 || st.Ping.Latency != 15 {
		t.Errorf("unexpected speedtest data: %+v (ok=%v)", st, ok)
	}
	if r.Type != KindSpeedtest || !r.IsSuccessful {
		t.Errorf("unexpected header fields: %+v", r)
	}

	r = Result{}
	if err := json.Unmarshal([]byte(lines["error"]), &r); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	msg, ok := r.Data.ErrorMessage()
	if !ok || !strings.Contains(msg, "executable file not found") {
		t.Errorf("unexpected error data: %q (ok=%v)", msg, ok)
	}
	if _, ok := r.Data.Pings(); ok {
		t.Error("error data must not report ping responses")
	}
}

func TestDataRejectsUnknownShape(t *testing.T) {
	var d Data
	if err := json.Unmarshal([]byte(`42`), &d); err == nil {
		t.Fatal("expected error for numeric data field")
	}
}
