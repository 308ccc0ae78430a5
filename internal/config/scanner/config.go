package scanner_config

import (
	"time"

	"github.com/chamasoft/notify-engine/internal/obs"
	pginfra "github.com/chamasoft/notify-engine/internal/repository/postgres"
	"github.com/chamasoft/notify-engine/internal/services/dispatcher"
)

type LogCfg struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
	Env    string `mapstructure:"env"`
	Ver    string `mapstructure:"ver"`
}

type OTELCfg struct {
	Enable      bool    `mapstructure:"enable"`
	Endpoint    string  `mapstructure:"endpoint"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

type ScanCfg struct {
	Interval    time.Duration `mapstructure:"interval"`
	DedupWindow time.Duration `mapstructure:"dedup_window"`
	HTTPAddr    string        `mapstructure:"http_addr"`
	MetricsAddr string        `mapstructure:"metrics_addr"`
}

type DispatchCfg struct {
	SendTimeout time.Duration `mapstructure:"send_timeout"`
}

type Config struct {
	DB       pginfra.Config        `mapstructure:"db"`
	Scan     ScanCfg               `mapstructure:"scan"`
	SMTP     dispatcher.SMTPConfig `mapstructure:"smtp"`
	SMS      dispatcher.SMSConfig  `mapstructure:"sms"`
	Dispatch DispatchCfg           `mapstructure:"dispatch"`
	Log      LogCfg                `mapstructure:"log"`
	OTEL     OTELCfg               `mapstructure:"otel"`
}

func (c *Config) AsLoggerConfig() *obs.LogConfig {
	return &obs.LogConfig{
		Level:  c.Log.Level,
		Pretty: c.Log.Pretty,
		App:    "scanner",
		Env:    c.Log.Env,
		Ver:    c.Log.Ver,
	}
}

func (c *Config) AsOTELConfig() *obs.OTELConfig {
	return &obs.OTELConfig{
		Enable:      c.OTEL.Enable,
		Endpoint:    c.OTEL.Endpoint,
		ServiceName: "scanner",
		SampleRatio: c.OTEL.SampleRatio,
	}
}
