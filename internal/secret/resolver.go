// Package secret looks up drivepicker secrets such as the Google developer
// key. Values come from SSM Parameter Store, or from the environment in
// DEV_MODE.
package secret

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// ErrNotFound is returned when a secret has no value.
var ErrNotFound = errors.New("secret not found")

// SSMClient is the subset of *ssm.Client methods used by SSMResolver.
type SSMClient interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// Resolver retrieves secret values by parameter name.
type Resolver interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// New returns an EnvResolver in dev mode and an SSM-backed resolver using
// the default AWS configuration otherwise.
func New(ctx context.Context, devMode bool) (Resolver, error) {
	if devMode {
		return NewEnvResolver(), nil
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewCached(NewSSMResolver(ssm.NewFromConfig(cfg))), nil
}

// SSMResolver fetches SecureString parameters from Parameter Store.
type SSMResolver struct {
	client SSMClient
}

// NewSSMResolver returns a Resolver backed by SSM Parameter Store.
func NewSSMResolver(client SSMClient) *SSMResolver {
	return &SSMResolver{client: client}
}

// GetSecret retrieves name with decryption.
func (r *SSMResolver) GetSecret(ctx context.Context, name string) (string, error) {
	out, err := r.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("ssm get parameter %q: %w", name, err)
	}
	if out.Parameter == nil || aws.ToString(out.Parameter.Value) == "" {
		return "", fmt.Errorf("ssm parameter %q: %w", name, ErrNotFound)
	}
	return *out.Parameter.Value, nil
}

// EnvResolver reads secrets from environment variables. The variable is the
// last path segment of the parameter name, uppercased with hyphens turned
// into underscores: "/drivepicker/google-developer-key" reads
// GOOGLE_DEVELOPER_KEY.
type EnvResolver struct{}

// NewEnvResolver returns a Resolver that reads from environment variables.
func NewEnvResolver() *EnvResolver {
	return &EnvResolver{}
}

// GetSecret reads the variable derived from name.
func (r *EnvResolver) GetSecret(_ context.Context, name string) (string, error) {
	envName := EnvVar(name)
	val := os.Getenv(envName)
	if val == "" {
		return "", fmt.Errorf("environment variable %q (from param %q): %w", envName, name, ErrNotFound)
	}
	return val, nil
}

// EnvVar converts a parameter name to its environment variable name.
func EnvVar(name string) string {
	parts := strings.Split(name, "/")
	last := parts[len(parts)-1]
	return strings.ToUpper(strings.ReplaceAll(last, "-", "_"))
}

// Cached memoises successful lookups of another Resolver. Warm Lambda
// invocations reuse the values instead of calling SSM again.
type Cached struct {
	next Resolver

	mu     sync.Mutex
	values map[string]string
}

// NewCached wraps next.
func NewCached(next Resolver) *Cached {
	return &Cached{next: next, values: make(map[string]string)}
}

// GetSecret returns the cached value for name or asks the wrapped resolver.
// Failures are not cached.
func (c *Cached) GetSecret(ctx context.Context, name string) (string, error) {
	c.mu.Lock()
	val, ok := c.values[name]
	c.mu.Unlock()
	if ok {
		return val, nil
	}

	val, err := c.next.GetSecret(ctx, name)
	if err != nil {
		return "", err
	}
	c.mu.Lock()
	c.values[name] = val
	c.mu.Unlock()
	return val, nil
}
