package dispatcher_config

import (
	"time"

	"go.uber.org/zap"

	"github.com/chamasoft/notify-engine/internal/obs"
	kafkarepo "github.com/chamasoft/notify-engine/internal/repository/kafka"
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

type KafkaCfg struct {
	Brokers       []string `mapstructure:"brokers"`
	Topic         string   `mapstructure:"topic"`
	GroupID       string   `mapstructure:"group_id"`
	FromBeginning bool     `mapstructure:"from_beginning"`
}

type ServerCfg struct {
	HTTPAddr    string `mapstructure:"http_addr"`
	MetricsAddr string `mapstructure:"metrics_addr"`
}

type DispatchCfg struct {
	SendTimeout time.Duration `mapstructure:"send_timeout"`
}

type Config struct {
	DB       pginfra.Config        `mapstructure:"db"`
	KafkaIn  KafkaCfg              `mapstructure:"kafka_in"`
	SMTP     dispatcher.SMTPConfig `mapstructure:"smtp"`
	SMS      dispatcher.SMSConfig  `mapstructure:"sms"`
	Dispatch DispatchCfg           `mapstructure:"dispatch"`
	Server   ServerCfg             `mapstructure:"server"`
	Log      LogCfg                `mapstructure:"log"`
	OTEL     OTELCfg               `mapstructure:"otel"`
}

func (c *Config) AsLoggerConfig() *obs.LogConfig {
	return &obs.LogConfig{
		Level:  c.Log.Level,
		Pretty: c.Log.Pretty,
		App:    "dispatcher",
		Env:    c.Log.Env,
		Ver:    c.Log.Ver,
	}
}

func (c *Config) AsOTELConfig() *obs.OTELConfig {
	return &obs.OTELConfig{
		Enable:      c.OTEL.Enable,
		Endpoint:    c.OTEL.Endpoint,
		ServiceName: "dispatcher",
		SampleRatio: c.OTEL.SampleRatio,
	}
}

func (c *Config) AsConsumerConfig(log *zap.Logger) *kafkarepo.ConsumerConfig {
	return &kafkarepo.ConsumerConfig{
		Brokers:       c.KafkaIn.Brokers,
		GroupID:       c.KafkaIn.GroupID,
		Topic:         c.KafkaIn.Topic,
		FromBeginning: c.KafkaIn.FromBeginning,
		Logger:        log,
	}
}
