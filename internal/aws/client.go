package aws

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// DefaultRegion is used when neither flags nor the profile name a region.
const DefaultRegion = "us-east-1"

type Error string

const (
	ErrNoCredentials      = Error("no AWS credentials found")
	ErrExpiredCredentials = Error("AWS credentials have expired")
	ErrNoSuchObject       = Error("no such S3 object")
	ErrInvalidURI         = Error("invalid S3 URI")
)

func (e Error) Error() string {
	return string(e)
}

type ClientConfig struct {
	Profile string
	Region  string
	Timeout time.Duration
}

// Client hands out S3 clients, one per region, for the active profile.
type Client struct {
	config  ClientConfig
	clients map[string]*s3.Client
	mx      sync.RWMutex
}

// NewClient creates a new Client. An empty region falls back to the
// profile's default region.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Region == "" {
		cfg.Region = ProfileRegion(cfg.Profile)
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}

	return &Client{
		config:  cfg,
		clients: make(map[string]*s3.Client),
	}
}

// Config returns the client configuration.
func (c *Client) Config() ClientConfig {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.config
}

// S3 returns an S3 client for the active region.
func (c *Client) S3() (*s3.Client, error) {
	return c.S3Regional(c.Config().Region)
}

// S3Regional returns an S3 client for a specific region.
// Uses the Read-Lock-Upgrade pattern for thread safety.
func (c *Client) S3Regional(region string) (*s3.Client, error) {
	if region == "" {
		region = DefaultRegion
	}

	c.mx.RLock()
	if client, ok := c.clients[region]; ok {
		c.mx.RUnlock()
		return client, nil
	}
	c.mx.RUnlock()

	c.mx.Lock()
	defer c.mx.Unlock()

	if client, ok := c.clients[region]; ok {
		return client, nil
	}

	cfg, err := c.loadConfig(region)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(cfg)
	c.clients[region] = client

	return client, nil
}

// Reset clears all cached clients.
func (c *Client) Reset() {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.clients = make(map[string]*s3.Client)
}

func (c *Client) loadConfig(region string) (aws.Config, error) {
	ctx := context.Background()
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if c.config.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(c.config.Profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, WrapAWSError(err, "load AWS config")
	}

	return cfg, nil
}

// WrapAWSError wraps AWS SDK errors with additional context.
func WrapAWSError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "AccessDeniedException":
			return fmt.Errorf("access denied for %s: %w", operation, err)
		case "ExpiredToken", "ExpiredTokenException":
			return fmt.Errorf("%w: %s", ErrExpiredCredentials, operation)
		case "NoSuchKey", "NoSuchBucket", "NotFound":
			return fmt.Errorf("%w: %s", ErrNoSuchObject, operation)
		case "InvalidClientTokenId":
			return fmt.Errorf("%w: %s", ErrNoCredentials, operation)
		default:
			return fmt.Errorf("%s failed: %s (%s)", operation, apiErr.ErrorMessage(), apiErr.ErrorCode())
		}
	}

	return fmt.Errorf("%s failed: %w", operation, err)
}
