// Package config aquasense-design 配置
//
// 默认值 → 可选 YAML 文件（AQUASENSE_CONFIG）→ 环境变量，后者覆盖前者。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	commoncfg "aquasense-design/common/config"
	"aquasense-design/internal/models"
)

// 预测器模式
const (
	PredictorSimulator = "simulator"
	PredictorRemote    = "remote"
)

// Config 服务与生成器共用配置
type Config struct {
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	DBEnabled    bool                     `yaml:"db_enabled"`
	Database     commoncfg.DatabaseConfig `yaml:"database"`
	RedisEnabled bool                     `yaml:"redis_enabled"`
	Redis        commoncfg.RedisConfig    `yaml:"redis"`
	MQTT         MQTTConfig               `yaml:"mqtt"`
	Streams      StreamsConfig            `yaml:"streams"`
	Predictor    PredictorConfig          `yaml:"predictor"`
	Generator    GeneratorConfig          `yaml:"generator"`
	Cache        CacheConfig              `yaml:"cache"`
	Log          struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// MQTTConfig 进水遥测订阅
type MQTTConfig struct {
	Enabled              bool   `yaml:"enabled"`
	Topic                string `yaml:"topic"` // aquasense/{site}/influent
	commoncfg.MQTTConfig `yaml:",inline"`
}

// StreamsConfig Redis Streams（批量请求输入、推理结果输出）
type StreamsConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Requests      string        `yaml:"requests"`
	Predictions   string        `yaml:"predictions"`
	ConsumerGroup string        `yaml:"consumer_group"`
	ConsumerName  string        `yaml:"consumer_name"`
	BatchSize     int64         `yaml:"batch_size"`
	Block         time.Duration `yaml:"block"`
}

// PredictorConfig 预测器后端
type PredictorConfig struct {
	Mode    string        `yaml:"mode"` // simulator | remote
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	Retries int           `yaml:"retries"`
}

// GeneratorConfig 合成数据集生成（下标 0..4 对应工艺类型 1..5）
type GeneratorConfig struct {
	Counts    [5]int    `yaml:"counts"`
	Seeds     [5]uint64 `yaml:"seeds"`
	OutputDir string    `yaml:"output_dir"`
}

// CacheConfig 推理结果缓存
type CacheConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

// Default 内置默认值
func Default() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = ":8080"

	cfg.DBEnabled = false
	cfg.Database = commoncfg.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Database: "aquasense",
		SSLMode:  "disable",
		MaxConns: 10,
		MaxIdle:  2,
	}

	cfg.RedisEnabled = true
	cfg.Redis.Addr = "localhost:6379"

	cfg.MQTT.Enabled = false
	cfg.MQTT.Topic = "aquasense/+/influent"
	cfg.MQTT.Broker = "tcp://localhost:1883"
	cfg.MQTT.ClientID = "aquasense-design"
	cfg.MQTT.QoS = 1

	cfg.Streams.Enabled = false
	cfg.Streams.Requests = "design:requests"
	cfg.Streams.Predictions = "design:predictions"
	cfg.Streams.ConsumerGroup = "aquasense-design"
	cfg.Streams.ConsumerName = hostnameOr("aquasense-design-1")
	cfg.Streams.BatchSize = 10
	cfg.Streams.Block = 2 * time.Second

	cfg.Predictor.Mode = PredictorSimulator
	cfg.Predictor.BaseURL = "http://localhost:8000"
	cfg.Predictor.Timeout = 5 * time.Second
	cfg.Predictor.Retries = 2

	cfg.Generator.Counts = [5]int{800, 800, 800, 1000, 800}
	cfg.Generator.Seeds = [5]uint64{1, 2, 3, 4, 5}
	cfg.Generator.OutputDir = "data"

	cfg.Cache.TTL = 10 * time.Minute

	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	return cfg
}

// Load 默认值 + AQUASENSE_CONFIG 文件 + 环境变量
func Load() (*Config, error) {
	cfg := Default()
	if path := os.Getenv("AQUASENSE_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.loadEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() {
	c.HTTP.Addr = getEnv("HTTP_ADDR", c.HTTP.Addr)

	c.DBEnabled = parseBool(getEnv("DB_ENABLED", ""), c.DBEnabled)
	c.Database.LoadFromEnv("DB")

	c.RedisEnabled = parseBool(getEnv("REDIS_ENABLED", ""), c.RedisEnabled)
	c.Redis.LoadFromEnv("REDIS")

	c.MQTT.Enabled = parseBool(getEnv("MQTT_ENABLED", ""), c.MQTT.Enabled)
	c.MQTT.Topic = getEnv("MQTT_TOPIC", c.MQTT.Topic)
	c.MQTT.MQTTConfig.LoadFromEnv("MQTT")

	c.Streams.Enabled = parseBool(getEnv("STREAMS_ENABLED", ""), c.Streams.Enabled)
	c.Streams.Requests = getEnv("STREAM_REQUESTS", c.Streams.Requests)
	c.Streams.Predictions = getEnv("STREAM_PREDICTIONS", c.Streams.Predictions)
	c.Streams.ConsumerGroup = getEnv("STREAM_CONSUMER_GROUP", c.Streams.ConsumerGroup)
	c.Streams.ConsumerName = getEnv("STREAM_CONSUMER_NAME", c.Streams.ConsumerName)
	c.Streams.BatchSize = int64(parseInt(getEnv("STREAM_BATCH_SIZE", ""), int(c.Streams.BatchSize)))
	c.Streams.Block = parseDuration(getEnv("STREAM_BLOCK", ""), c.Streams.Block)

	c.Predictor.Mode = getEnv("PREDICTOR_MODE", c.Predictor.Mode)
	c.Predictor.BaseURL = getEnv("PREDICTOR_BASE_URL", c.Predictor.BaseURL)
	c.Predictor.Timeout = parseDuration(getEnv("PREDICTOR_TIMEOUT", ""), c.Predictor.Timeout)
	c.Predictor.Retries = parseInt(getEnv("PREDICTOR_RETRIES", ""), c.Predictor.Retries)

	c.Generator.OutputDir = getEnv("GENERATOR_OUTPUT_DIR", c.Generator.OutputDir)

	c.Cache.TTL = parseDuration(getEnv("CACHE_TTL", ""), c.Cache.TTL)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
}

// Validate 检查互相依赖的配置项
func (c *Config) Validate() error {
	switch c.Predictor.Mode {
	case PredictorSimulator:
	case PredictorRemote:
		if c.Predictor.BaseURL == "" {
			return fmt.Errorf("invalid config: predictor.base_url is required in remote mode")
		}
	default:
		return fmt.Errorf("invalid config: unknown predictor mode %q", c.Predictor.Mode)
	}
	if c.Streams.Enabled && !c.RedisEnabled {
		return fmt.Errorf("invalid config: streams require redis")
	}
	if c.Streams.Enabled && c.Streams.Block <= 0 {
		return fmt.Errorf("invalid config: streams.block must be positive")
	}
	for i, n := range c.Generator.Counts {
		if n < 0 {
			return fmt.Errorf("invalid config: generator.counts[%d] is negative", i)
		}
	}
	return nil
}

// GeneratorCounts 以工艺类型为键
func (c *Config) GeneratorCounts() map[models.ArchetypeID]int {
	out := make(map[models.ArchetypeID]int, len(models.AllArchetypes))
	for i, id := range models.AllArchetypes {
		out[id] = c.Generator.Counts[i]
	}
	return out
}

// GeneratorSeeds 以工艺类型为键
func (c *Config) GeneratorSeeds() map[models.ArchetypeID]uint64 {
	out := make(map[models.ArchetypeID]uint64, len(models.AllArchetypes))
	for i, id := range models.AllArchetypes {
		out[id] = c.Generator.Seeds[i]
	}
	return out
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseBool(s string, def bool) bool {
	switch strings.ToLower(s) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return def
	}
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

func hostnameOr(def string) string {
	if h, err := os.Hostname(); err == nil && h != "" {
		return h
	}
	return def
}
