package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/Jeffail/tunny"

	"github.com/gafeed/ga-feed/config"
	"github.com/gafeed/ga-feed/influx"
	"github.com/gafeed/ga-feed/logger"
)

const dateLayout = "2006-01-02"

type exporter struct {
	config       *config.Config
	influxClient *influx.Client
}

func createExporter(configFile string) (*exporter, error) {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return nil, err
	}

	if err := cfg.ValidateExport(); err != nil {
		return nil, err
	}

	influxClient, err := influx.CreateClient(cfg.Influx.Address, cfg.Influx.Database, cfg.Influx.Username, cfg.Influx.Password)
	if err != nil {
		return nil, err
	}

	return &exporter{
		config:       cfg,
		influxClient: influxClient,
	}, nil
}

func (e *exporter) close() {
	if err := e.influxClient.Close(); err != nil {
		logger.Log.Warn("closing influx client: %v", err)
	}
}

// reportWindow returns the lookback period ending the day before now, in UTC.
func reportWindow(now time.Time, lookbackDays int) (start time.Time, end time.Time) {
	today := now.UTC().Truncate(24 * time.Hour)
	end = today.AddDate(0, 0, -1)
	start = today.AddDate(0, 0, -lookbackDays)
	return start, end
}

// export reports on every configured profile. Each worker logs in with its own
// session since a metrics client must not be shared between goroutines.
func (e *exporter) export(now time.Time) error {
	start, end := reportWindow(now, e.config.Export.LookbackDays)
	startDate, endDate := start.Format(dateLayout), end.Format(dateLayout)

	pool := tunny.NewFunc(e.config.Export.MaxConcurrentProfiles, func(payload interface{}) interface{} {
		profile := payload.(string)
		return e.exportProfile(profile, startDate, endDate, end)
	})
	defer pool.Close()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var failed []string

	for _, profile := range e.config.Export.Profiles {
		wg.Add(1)

		go func(profile string) {
			defer wg.Done()

			if err, _ := pool.Process(profile).(error); err != nil {
				logger.Log.Error("Export of %v failed: %v", profile, err)

				mu.Lock()
				failed = append(failed, profile)
				mu.Unlock()
			}
		}(profile)
	}

	wg.Wait()

	if len(failed) > 0 {
		return fmt.Errorf("%v of %v profiles failed to export", len(failed), len(e.config.Export.Profiles))
	}
	return nil
}

func (e *exporter) exportProfile(profile string, startDate string, endDate string, timestamp time.Time) error {
	mc, err := connect(e.config)
	if err != nil {
		return err
	}

	metrics, err := mc.GetMetrics(profile, startDate, endDate)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	if err := e.influxClient.SendMetrics(profile, timestamp, metrics); err != nil {
		return fmt.Errorf("influx write of metrics: %w", err)
	}

	pages, err := mc.GetTopPages(profile, startDate, endDate, e.config.Export.TopCount)
	if err != nil {
		return fmt.Errorf("top pages: %w", err)
	}

	if err := e.influxClient.SendTopPages(profile, timestamp, pages); err != nil {
		return fmt.Errorf("influx write of top pages: %w", err)
	}

	logger.Log.Info("Exported %v metrics and %v pages of %v from %v to %v.",
		len(metrics), len(pages), profile, startDate, endDate)
	return nil
}
