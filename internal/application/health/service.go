// Package health reports service status from the Redis traffic counters kept
// by middleware.HealthMarker and from dependency pings.
package health

import (
	"context"
	"encoding/json"
	"runtime"
	"strconv"
	"time"

	"farmconnect-backend/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// DBPinger is satisfied by *sql.DB. A nil pinger reports the database as
// disconnected.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

type Report struct {
	Status       string               `json:"status"`
	Runtime      RuntimeInfo          `json:"runtime"`
	Traffic      TrafficInfo          `json:"traffic"`
	Dependencies map[string]DepStatus `json:"dependencies"`
}

type RuntimeInfo struct {
	UptimeSeconds int64  `json:"uptimeSeconds"`
	HeapAllocMB   uint64 `json:"heapAllocMb"`
	HeapInuseMB   uint64 `json:"heapInuseMb"`
	Goroutines    int    `json:"goroutines"`
	Platform      string `json:"platform"`
	GoVersion     string `json:"goVersion"`
}

type TrafficInfo struct {
	TotalRequests   int                    `json:"totalRequests"`
	SuccessCount    int                    `json:"successCount"`
	FailedCount     int                    `json:"failedCount"`
	SuccessRate     string                 `json:"successRate"`
	AvgResponseTime string                 `json:"avgResponseTime"`
	LastRequest     map[string]interface{} `json:"lastRequest"`
}

type DepStatus struct {
	Status string `json:"status"`
	PingMs *int64 `json:"pingMs"`
}

func ping(fn func() error) DepStatus {
	start := time.Now()
	if err := fn(); err != nil {
		return DepStatus{Status: "error"}
	}
	ms := time.Since(start).Milliseconds()
	return DepStatus{Status: "connected", PingMs: &ms}
}

// Collect gathers the health report. Status is "ok" only when both the
// database and Redis answer.
func Collect(ctx context.Context, rdb *redis.Client, db DBPinger) Report {
	r := Report{
		Dependencies: map[string]DepStatus{
			"database": {Status: "disconnected"},
			"redis":    {Status: "disconnected"},
		},
		Traffic: TrafficInfo{SuccessRate: "100", AvgResponseTime: "0"},
	}
	if db != nil {
		r.Dependencies["database"] = ping(func() error { return db.PingContext(ctx) })
	}

	startMs := time.Now().UnixMilli()
	if rdb != nil {
		dep := ping(func() error { return rdb.Ping(ctx).Err() })
		r.Dependencies["redis"] = dep
		if dep.Status == "connected" {
			startMs = readTraffic(ctx, rdb, &r.Traffic, startMs)
		}
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	uptime := (time.Now().UnixMilli() - startMs) / 1000
	if uptime < 0 {
		uptime = 0
	}
	r.Runtime = RuntimeInfo{
		UptimeSeconds: uptime,
		HeapAllocMB:   m.HeapAlloc / 1024 / 1024,
		HeapInuseMB:   m.HeapInuse / 1024 / 1024,
		Goroutines:    runtime.NumGoroutine(),
		Platform:      runtime.GOOS + " (" + runtime.GOARCH + ")",
		GoVersion:     runtime.Version(),
	}

	if r.Dependencies["database"].Status == "connected" && r.Dependencies["redis"].Status == "connected" {
		r.Status = "ok"
	} else {
		r.Status = "issue"
	}
	return r
}

// readTraffic fills t from the counters and returns the recorded start time,
// seeding it when absent.
func readTraffic(ctx context.Context, rdb *redis.Client, t *TrafficInfo, now int64) int64 {
	vals, err := rdb.MGet(ctx,
		middleware.KeyReqTotal, middleware.KeyReqErrors, middleware.KeyResTime,
		middleware.KeyResCount, middleware.KeyStartTime, middleware.KeyLastReq,
	).Result()
	if err != nil {
		return now
	}
	str := func(i int) string {
		s, _ := vals[i].(string)
		return s
	}

	t.TotalRequests, _ = strconv.Atoi(str(0))
	t.FailedCount, _ = strconv.Atoi(str(1))
	t.SuccessCount = t.TotalRequests - t.FailedCount
	if t.TotalRequests > 0 {
		t.SuccessRate = strconv.FormatFloat(float64(t.SuccessCount)/float64(t.TotalRequests)*100, 'f', 1, 64)
	}
	timeSum, _ := strconv.ParseFloat(str(2), 64)
	if n, _ := strconv.Atoi(str(3)); n > 0 {
		t.AvgResponseTime = strconv.FormatFloat(timeSum/float64(n), 'f', 2, 64)
	}
	if s := str(5); s != "" {
		_ = json.Unmarshal([]byte(s), &t.LastRequest)
	}

	if ms, err := strconv.ParseInt(str(4), 10, 64); err == nil {
		return ms
	}
	rdb.SetNX(ctx, middleware.KeyStartTime, now, 0)
	return now
}

// RecentErrors returns the most recent 5xx entries, newest first.
func RecentErrors(ctx context.Context, rdb *redis.Client) ([]map[string]interface{}, error) {
	entries, err := rdb.LRange(ctx, middleware.KeyErrorLog, 0, middleware.ErrorLogSize-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, 0, len(entries))
	for _, s := range entries {
		var m map[string]interface{}
		if json.Unmarshal([]byte(s), &m) == nil && m != nil {
			out = append(out, m)
		}
	}
	return out, nil
}

// Reset clears the traffic counters and error log and restarts the uptime clock.
func Reset(ctx context.Context, rdb *redis.Client) error {
	_, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx,
			middleware.KeyReqTotal, middleware.KeyReqErrors, middleware.KeyResTime, middleware.KeyResCount,
			middleware.KeyStartTime, middleware.KeyLastReq, middleware.KeyErrorLog,
		)
		pipe.Set(ctx, middleware.KeyStartTime, strconv.FormatInt(time.Now().UnixMilli(), 10), 0)
		return nil
	})
	return err
}
