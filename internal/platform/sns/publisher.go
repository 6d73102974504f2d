package sns

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/fx"
	"go.uber.org/zap"

	cfgpkg "github.com/fatflowers/fakepay/pkg/config"
)

// Publisher is a minimal interface for publishing messages to SNS.
type Publisher interface {
	Publish(ctx context.Context, topicArn string, message []byte) error
}

// snsAPI is the subset of the SNS client used here.
type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Client struct {
	api snsAPI
}

func (c *Client) Publish(ctx context.Context, topicArn string, message []byte) error {
	if topicArn == "" {
		return fmt.Errorf("empty topicArn")
	}
	_, err := c.api.Publish(ctx, &sns.PublishInput{
		TopicArn: sdkaws.String(topicArn),
		Message:  sdkaws.String(string(message)),
	})
	if err != nil {
		return fmt.Errorf("sns publish failed for topic %s: %w", topicArn, err)
	}
	return nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, []byte) error { return nil }

// New returns an SNS backed publisher when a topic is configured, otherwise a no-op.
func New(ctx context.Context, cfg *cfgpkg.Config, log *zap.SugaredLogger) (Publisher, error) {
	if cfg == nil || cfg.Events.SNSTopicArn == "" {
		log.Infow("settlement events disabled: no sns topic configured")
		return nopPublisher{}, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	endpoint := cfg.Events.Endpoint
	client := sns.NewFromConfig(awsCfg, func(o *sns.Options) {
		if endpoint != "" {
			o.BaseEndpoint = sdkaws.String(endpoint)
		}
	})
	log.Infow("settlement events enabled", "topic_arn", cfg.Events.SNSTopicArn, "region", awsCfg.Region, "custom_endpoint", endpoint != "")
	return &Client{api: client}, nil
}

func provide(cfg *cfgpkg.Config, log *zap.SugaredLogger) (Publisher, error) {
	return New(context.Background(), cfg, log)
}

var Module = fx.Options(
	fx.Provide(provide),
)
