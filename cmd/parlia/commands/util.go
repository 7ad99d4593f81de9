package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	cfg "github.com/tendermint/parlia/config"
	"github.com/tendermint/parlia/crypto/bls"
	"github.com/tendermint/parlia/light"
	dbs "github.com/tendermint/parlia/light/store/db"
)

var (
	metricsOnce sync.Once
	metrics     *light.Metrics
)

// clientMetrics registers the Prometheus collectors once per process.
func clientMetrics() *light.Metrics {
	if !config.Instrumentation.Prometheus {
		return light.NopMetrics()
	}
	metricsOnce.Do(func() {
		metrics = light.PrometheusMetrics(config.Instrumentation.Namespace, "client_id", config.ClientID)
	})
	return metrics
}

// withClient opens the client database, runs fn and closes the database.
// When Prometheus is enabled the collected metrics are written to the
// configured textfile afterwards.
func withClient(fn func(c *light.Client) error) error {
	db, err := cfg.DefaultDBProvider(&cfg.DBContext{ID: cfg.LightDBName, Config: config})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	c := light.NewClient(
		dbs.New(db, config.ClientID),
		bls.NewVerifier(),
		light.Logger(logger),
		light.WithMetrics(clientMetrics()),
	)

	err = fn(c)
	if cerr := db.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if werr := writeMetrics(); werr != nil {
		logger.Error("Failed to write metrics", "err", werr)
	}
	return err
}

func writeMetrics() error {
	if !config.Instrumentation.Prometheus {
		return nil
	}
	path := config.Instrumentation.MetricsPath(config.RootDir)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}

func readJSONFile(path string, v interface{}) error {
	bz, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(bz, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
