package secretcache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
)

// RegionEnvVar overrides the AWS region used for secret lookups.
const RegionEnvVar = "AWS_SECRET_JDBC_REGION"

// currentVersionStage is the staging label of the active secret
// version.
const currentVersionStage = "AWSCURRENT"

// SecretsManagerAPI is the slice of the AWS Secrets Manager client the
// cache uses. It exists so tests can substitute a mock.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWS is a secret cache backed by AWS Secrets Manager.
type AWS struct {
	*Cache
	client SecretsManagerAPI
	region string
}

type awsOptions struct {
	region          string
	endpoint        string
	accessKeyID     string
	secretAccessKey string
	ttl             time.Duration
	client          SecretsManagerAPI
}

// AWSOption configures the AWS secret cache.
type AWSOption func(*awsOptions)

// WithRegion pins the AWS region. Without it the region comes from the
// AWS_SECRET_JDBC_REGION environment variable or the default AWS
// configuration chain.
func WithRegion(region string) AWSOption {
	return func(o *awsOptions) { o.region = region }
}

// WithEndpoint points the client at a custom Secrets Manager endpoint,
// such as a VPC PrivateLink DNS name or LocalStack.
func WithEndpoint(endpoint string) AWSOption {
	return func(o *awsOptions) { o.endpoint = endpoint }
}

// WithStaticCredentials uses fixed credentials instead of the default
// chain, for LocalStack and testing.
func WithStaticCredentials(accessKeyID, secretAccessKey string) AWSOption {
	return func(o *awsOptions) {
		o.accessKeyID = accessKeyID
		o.secretAccessKey = secretAccessKey
	}
}

// WithTTL overrides how long fetched secrets are served from cache.
func WithTTL(ttl time.Duration) AWSOption {
	return func(o *awsOptions) { o.ttl = ttl }
}

// WithClient sets a custom Secrets Manager client (for testing).
func WithClient(client SecretsManagerAPI) AWSOption {
	return func(o *awsOptions) { o.client = client }
}

// NewAWS creates a Secrets Manager backed cache.
func NewAWS(ctx context.Context, opts ...AWSOption) (*AWS, error) {
	var o awsOptions
	for _, opt := range opts {
		opt(&o)
	}

	if o.region == "" {
		o.region = os.Getenv(RegionEnvVar)
	}

	client := o.client
	if client == nil {
		var configOpts []func(*config.LoadOptions) error
		if o.region != "" {
			configOpts = append(configOpts, config.WithRegion(o.region))
		}
		if o.accessKeyID != "" && o.secretAccessKey != "" {
			configOpts = append(configOpts, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(o.accessKeyID, o.secretAccessKey, ""),
			))
		}
		cfg, err := config.LoadDefaultConfig(ctx, configOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		var clientOpts []func(*secretsmanager.Options)
		if o.endpoint != "" {
			clientOpts = append(clientOpts, func(smo *secretsmanager.Options) {
				smo.BaseEndpoint = aws.String(o.endpoint)
			})
		}
		client = secretsmanager.NewFromConfig(cfg, clientOpts...)
	}

	c := &AWS{client: client, region: o.region}
	c.Cache = newCache(c.fetchSecret, o.ttl)
	return c, nil
}

// Region returns the region the cache was configured with, if any.
func (c *AWS) Region() string { return c.region }

func (c *AWS) fetchSecret(ctx context.Context, secretID string) (string, error) {
	out, err := c.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(secretID),
		VersionStage: aws.String(currentVersionStage),
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("secrets manager error: %w", err)
	}

	if out.SecretString != nil {
		return *out.SecretString, nil
	}
	if out.SecretBinary != nil {
		return string(out.SecretBinary), nil
	}
	return "", nil
}
