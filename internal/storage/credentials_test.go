package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecrets struct {
	gotID string
	out   *secretsmanager.GetSecretValueOutput
	err   error
}

func (f *fakeSecrets) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.gotID = aws.ToString(in.SecretId)
	return f.out, f.err
}

func TestLoadCredentials(t *testing.T) {
	ctx := context.Background()

	t.Run("empty reference", func(t *testing.T) {
		data, err := LoadCredentials(ctx, "", nil)
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("file reference", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sa.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"type":"service_account"}`), 0600))

		for _, ref := range []string{path, "file://" + path} {
			data, err := LoadCredentials(ctx, ref, nil)
			require.NoError(t, err)
			assert.JSONEq(t, `{"type":"service_account"}`, string(data))
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadCredentials(ctx, filepath.Join(t.TempDir(), "nope.json"), nil)
		assert.Error(t, err)
	})

	t.Run("secrets manager reference", func(t *testing.T) {
		secrets := &fakeSecrets{out: &secretsmanager.GetSecretValueOutput{SecretString: aws.String(`{"k":1}`)}}

		data, err := LoadCredentials(ctx, "secretsmanager://wedding/sheets", secrets)
		require.NoError(t, err)
		assert.Equal(t, "wedding/sheets", secrets.gotID)
		assert.Equal(t, `{"k":1}`, string(data))
	})

	t.Run("secrets manager failure", func(t *testing.T) {
		secrets := &fakeSecrets{err: errors.New("AccessDenied")}

		_, err := LoadCredentials(ctx, "secretsmanager://wedding/sheets", secrets)
		assert.ErrorContains(t, err, "AccessDenied")
	})

	t.Run("secrets manager without client", func(t *testing.T) {
		_, err := LoadCredentials(ctx, "secretsmanager://wedding/sheets", nil)
		assert.Error(t, err)
	})
}
