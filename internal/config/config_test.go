package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquasense-design/internal/models"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AQUASENSE_CONFIG", "")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, PredictorSimulator, cfg.Predictor.Mode)
	assert.Equal(t, "aquasense/+/influent", cfg.MQTT.Topic)
	assert.Equal(t, 1000, cfg.GeneratorCounts()[models.ArchetypeIndustrial])
	assert.Equal(t, uint64(3), cfg.GeneratorSeeds()[models.ArchetypeRecycleMBR])
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aquasense.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  addr: ":9090"
predictor:
  mode: remote
  base_url: http://models:8000
  timeout: 3s
generator:
  counts: [10, 20, 30, 40, 50]
  seeds: [7, 7, 7, 7, 7]
mqtt:
  enabled: true
  broker: tcp://broker:1883
cache:
  ttl: 1m
`), 0o644))

	t.Setenv("AQUASENSE_CONFIG", path)
	t.Setenv("HTTP_ADDR", ":7070")
	t.Setenv("MQTT_CLIENT_ID", "plant-gw")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.HTTP.Addr)
	assert.Equal(t, PredictorRemote, cfg.Predictor.Mode)
	assert.Equal(t, "http://models:8000", cfg.Predictor.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Predictor.Timeout)
	assert.Equal(t, 40, cfg.GeneratorCounts()[models.ArchetypeIndustrial])
	assert.Equal(t, uint64(7), cfg.GeneratorSeeds()[models.ArchetypePotable])
	assert.True(t, cfg.MQTT.Enabled)
	assert.Equal(t, "tcp://broker:1883", cfg.MQTT.Broker)
	assert.Equal(t, "plant-gw", cfg.MQTT.ClientID)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
}

func TestLoad_InvalidMode(t *testing.T) {
	t.Setenv("AQUASENSE_CONFIG", "")
	t.Setenv("PREDICTOR_MODE", "onnx")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("AQUASENSE_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate_StreamsNeedRedis(t *testing.T) {
	cfg := Default()
	cfg.Streams.Enabled = true
	cfg.RedisEnabled = false
	assert.Error(t, cfg.Validate())
}

func TestValidate_StreamsNeedPositiveBlock(t *testing.T) {
	cfg := Default()
	cfg.Streams.Enabled = true
	require.NoError(t, cfg.Validate())

	cfg.Streams.Block = 0
	assert.Error(t, cfg.Validate())
	cfg.Streams.Block = -time.Second
	assert.Error(t, cfg.Validate())
}

func TestLoad_StreamBlockFromEnv(t *testing.T) {
	t.Setenv("AQUASENSE_CONFIG", "")
	t.Setenv("STREAMS_ENABLED", "true")
	t.Setenv("STREAM_BLOCK", "0s")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("STREAM_BLOCK", "250ms")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.Streams.Block)
}
