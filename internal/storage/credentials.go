package storage

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

const (
	schemeSecretsManager = "secretsmanager://"
	schemeFile           = "file://"
)

// SecretGetter is the subset of the Secrets Manager client used to fetch credentials
type SecretGetter interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// NeedsSecretsManager reports whether ref points at a Secrets Manager secret
func NeedsSecretsManager(ref string) bool {
	return strings.HasPrefix(ref, schemeSecretsManager)
}

// LoadCredentials resolves a credential reference to the raw service account JSON.
// An empty reference yields nil, leaving the client on its default credentials.
func LoadCredentials(ctx context.Context, ref string, secrets SecretGetter) ([]byte, error) {
	switch {
	case ref == "":
		return nil, nil
	case NeedsSecretsManager(ref):
		if secrets == nil {
			return nil, fmt.Errorf("no secrets manager client for %s", ref)
		}
		id := strings.TrimPrefix(ref, schemeSecretsManager)
		out, err := secrets.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
			SecretId: aws.String(id),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get secret %s: %w", id, err)
		}
		if out.SecretString != nil {
			return []byte(*out.SecretString), nil
		}
		if len(out.SecretBinary) > 0 {
			return out.SecretBinary, nil
		}
		return nil, fmt.Errorf("secret %s is empty", id)
	default:
		path := strings.TrimPrefix(ref, schemeFile)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
		return data, nil
	}
}

// CredentialsFrom defers LoadCredentials until the credentials are first needed
func CredentialsFrom(ref string, secrets SecretGetter) CredentialsFunc {
	return func(ctx context.Context) ([]byte, error) {
		return LoadCredentials(ctx, ref, secrets)
	}
}
