package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlConfig = `
log:
  verbosity: 2
data:
  source: csv
  dir: ./bars
  fallback: synthetic
  seed: 7
pricing:
  as_of: "2025-01-14"
  risk_free_rate: 0.045
  vol_lookback_days: 60
  contracts:
    - id: spy-call
      underlying: SPY
      type: call
      strike: 590
      expiry: "2025-02-21"
    - underlying: AAPL
      type: p
      strike: 200
      time_to_maturity: 0.25
      spot: 210.5
      volatility: 0.28
report_dir: ./reports
`

const jsonConfig = `{
  "data": {"source": "massive"},
  "server": {"addr": ":9090"},
  "pricing": {
    "risk_free_rate": 0.02,
    "contracts": [{"underlying": "QQQ", "type": "call", "strike": 500, "time_to_maturity": 1}]
  }
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	cfg, err := Load(writeFile(t, "pricer.yaml", yamlConfig))
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Log.Verbosity)
	assert.Equal(t, "csv", cfg.Data.Source)
	assert.Equal(t, "synthetic", cfg.Data.Fallback)
	assert.Equal(t, int64(7), cfg.Data.Seed)
	assert.Equal(t, "./reports", cfg.ReportDir)
	assert.Equal(t, ":8080", cfg.Server.Addr)

	p := cfg.Pricing
	assert.Equal(t, "2025-01-14", p.AsOf)
	assert.Equal(t, 0.045, p.RiskFreeRate)
	assert.Equal(t, 60, p.VolLookbackDays)
	require.Len(t, p.Contracts, 2)
	assert.Equal(t, "spy-call", p.Contracts[0].ID)
	assert.Equal(t, "2025-02-21", p.Contracts[0].Expiry)
	assert.Nil(t, p.Contracts[0].Spot)
	require.NotNil(t, p.Contracts[1].Spot)
	assert.Equal(t, 210.5, *p.Contracts[1].Spot)
	assert.Equal(t, 0.28, *p.Contracts[1].Volatility)
	assert.Equal(t, 0.25, *p.Contracts[1].TimeToMaturity)
}

func TestLoad_JSON(t *testing.T) {
	t.Setenv(EnvMassiveAPIKey, "from-env")

	cfg, err := Load(writeFile(t, "pricer.json", jsonConfig))
	require.NoError(t, err)

	assert.Equal(t, "massive", cfg.Data.Source)
	assert.Equal(t, "from-env", cfg.Data.MassiveAPIKey)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 1, cfg.Log.Verbosity)
	assert.Equal(t, "./out", cfg.ReportDir)
	require.Len(t, cfg.Pricing.Contracts, 1)
	assert.Equal(t, 1.0, *cfg.Pricing.Contracts[0].TimeToMaturity)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "pricer.toml", "a = 1"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "pricer.json", "{not json"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "pricer.yaml", "pricing: [1, 2"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "synthetic", cfg.Data.Source)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "./out", cfg.ReportDir)
}

func TestLoadEnv(t *testing.T) {
	const key = "BS_PRICER_TEST_ENV"
	os.Unsetenv(key)
	t.Cleanup(func() { os.Unsetenv(key) })

	path := writeFile(t, ".env", key+"=loaded\n")
	require.NoError(t, LoadEnv(filepath.Join(t.TempDir(), ".env.missing"), path))
	assert.Equal(t, "loaded", os.Getenv(key))
}
