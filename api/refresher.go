/*
refresher.go - Background refresh of the present-moment chart

PURPOSE:
  Keeps the chart of "now" warm so GET /api/saju/current answers from a
  cache, and logs when the hour pillar turns over.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Each check recalculates CurrentSaju for both genders
  - A cached chart is served only while younger than the interval
  - Options changes reach the cache on the next check

CONFIGURATION:
  - CheckInterval: How often to recalculate (default: 1 minute)
  - Enabled: Whether the refresher is active (default: true)

USAGE:
  refresher := NewCurrentChartRefresher(calc, logger)
  refresher.Start()
  handler.Current = refresher
  // ... later
  refresher.Stop()

SEE ALSO:
  - handlers.go: CurrentSaju endpoint
*/
package api

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/warp/saju-engine/pillars"
	"github.com/warp/saju-engine/saju"
)

// CurrentChartRefresher recalculates the present-moment chart on a timer.
type CurrentChartRefresher struct {
	Calc          *saju.Calculator
	Logger        *zap.Logger
	CheckInterval time.Duration
	Enabled       bool

	// Now is the cache clock; tests replace it.
	Now func() time.Time

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex

	cacheMu sync.RWMutex
	latest  map[saju.Gender]cachedChart
}

type cachedChart struct {
	result *saju.Result
	at     time.Time
}

var genders = []saju.Gender{saju.Male, saju.Female}

// NewCurrentChartRefresher creates a new refresher.
func NewCurrentChartRefresher(calc *saju.Calculator, logger *zap.Logger) *CurrentChartRefresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CurrentChartRefresher{
		Calc:          calc,
		Logger:        logger,
		CheckInterval: time.Minute,
		Enabled:       true,
		Now:           time.Now,
		latest:        make(map[saju.Gender]cachedChart),
	}
}

// Start begins the refresher. It is a no-op when disabled or running.
func (cr *CurrentChartRefresher) Start() {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if !cr.Enabled {
		cr.Logger.Info("current chart refresher disabled")
		return
	}
	if cr.ticker != nil {
		return
	}

	cr.ticker = time.NewTicker(cr.CheckInterval)
	cr.stop = make(chan struct{})
	cr.wg.Add(1)

	go cr.run(cr.ticker, cr.stop)

	cr.Logger.Info("current chart refresher started", zap.Duration("interval", cr.CheckInterval))
}

// Stop stops the refresher and waits for a check in flight.
func (cr *CurrentChartRefresher) Stop() {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if cr.ticker != nil {
		cr.ticker.Stop()
		close(cr.stop)
		cr.wg.Wait()
		cr.ticker = nil
		cr.Logger.Info("current chart refresher stopped")
	}
}

func (cr *CurrentChartRefresher) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer cr.wg.Done()

	// Run immediately on start
	cr.refresh()

	for {
		select {
		case <-ticker.C:
			cr.refresh()
		case <-stop:
			return
		}
	}
}

// RunNow recalculates immediately.
func (cr *CurrentChartRefresher) RunNow() {
	cr.refresh()
}

func (cr *CurrentChartRefresher) refresh() {
	for _, g := range genders {
		res, err := cr.Calc.CurrentSaju(g)
		if err != nil {
			cr.Logger.Error("current chart refresh failed", zap.String("gender", string(g)), zap.Error(err))
			continue
		}

		cr.cacheMu.Lock()
		prev, had := cr.latest[g]
		cr.latest[g] = cachedChart{result: res, at: cr.Now()}
		cr.cacheMu.Unlock()

		if g != saju.Male {
			continue
		}
		hour := res.FourPillars[pillars.Hour].Label()
		if !had || prev.result.FourPillars[pillars.Hour].Label() != hour {
			cr.Logger.Info("hour pillar changed",
				zap.String("day", res.FourPillars[pillars.Day].Label()),
				zap.String("hour", hour))
		}
	}
}

// Latest returns the cached chart for g if it is younger than the check
// interval.
func (cr *CurrentChartRefresher) Latest(g saju.Gender) (*saju.Result, bool) {
	cr.cacheMu.RLock()
	defer cr.cacheMu.RUnlock()

	c, ok := cr.latest[g]
	if !ok || cr.Now().Sub(c.at) >= cr.CheckInterval {
		return nil, false
	}
	return c.result, true
}
