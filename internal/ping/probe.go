package ping

import (
	"context"
	"sync"
	"time"

	"network-quality-logger/internal/models"
)

// ProbeAll pings every target concurrently and waits for all of them.
// One target failing does not cancel the others. Responses keep the order of
// targets; if any probe returned an error, the first one in target order is
// returned alongside the responses.
func ProbeAll(ctx context.Context, p models.Pinger, targets []string, timeout time.Duration) ([]models.PingResponse, error) {
	results := make([]models.PingResponse, len(targets))
	errs := make([]error, len(targets))

	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target string) {
			defer wg.Done()
			results[i], errs[i] = p.Ping(ctx, target, timeout)
		}(i, target)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
