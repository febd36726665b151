package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("AQ_DB_HOST", "db.internal")
	t.Setenv("AQ_DB_PORT", "6543")
	t.Setenv("AQ_DB_MAX_CONNS", "not-a-number")

	cfg := DatabaseConfig{Host: "localhost", Port: 5432, MaxConns: 10, SSLMode: "disable"}
	cfg.LoadFromEnv("AQ_DB")

	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 6543, cfg.Port)
	assert.Equal(t, 10, cfg.MaxConns)
	assert.Contains(t, cfg.GetDSN(), "host=db.internal port=6543")
	assert.Contains(t, cfg.GetDSN(), "sslmode=disable")
}

func TestMQTTConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("AQ_MQTT_BROKER", "tcp://broker:1883")
	t.Setenv("AQ_MQTT_QOS", "3")

	cfg := MQTTConfig{QoS: 1}
	cfg.LoadFromEnv("AQ_MQTT")
	assert.Equal(t, "tcp://broker:1883", cfg.Broker)
	assert.Equal(t, byte(1), cfg.QoS)
}
