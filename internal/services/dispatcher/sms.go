package dispatcher

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"
)

type SMSConfig struct {
	Enable bool   `mapstructure:"enable"`
	Region string `mapstructure:"region"`
}

type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSSender publishes transactional SMS directly to a phone number via
// Amazon SNS.
type SNSSender struct {
	client SNSAPI
	log    *zap.Logger
}

func NewSNSSender(ctx context.Context, cfg SMSConfig, log *zap.Logger) (*SNSSender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SNSSender{client: sns.NewFromConfig(awsCfg), log: log}, nil
}

func (s *SNSSender) Send(ctx context.Context, to, text string) error {
	out, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(text),
	})
	if err != nil {
		return fmt.Errorf("sns publish: %w", err)
	}
	s.log.Debug("sms sent", zap.String("to", to), zap.Stringp("message_id", out.MessageId))
	return nil
}
