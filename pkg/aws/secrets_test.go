package aws

import (
	"context"
	"errors"
	"testing"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecretsAPI struct {
	values map[string]*string
	calls  int
}

func (f *fakeSecretsAPI) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls++
	v, ok := f.values[sdkaws.ToString(params.SecretId)]
	if !ok {
		return nil, errors.New("ResourceNotFoundException")
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: v}, nil
}

func TestSecretsClient_CachesUntilTTL(t *testing.T) {
	api := &fakeSecretsAPI{values: map[string]*string{"catalog/POSTGRES_DSN": sdkaws.String("host=db")}}
	sm := newSecretsClient(api, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sm.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		v, err := sm.GetSecret(context.Background(), "catalog/POSTGRES_DSN")
		require.NoError(t, err)
		assert.Equal(t, "host=db", v)
	}
	assert.Equal(t, 1, api.calls)

	api.values["catalog/POSTGRES_DSN"] = sdkaws.String("host=rotated")
	now = now.Add(2 * time.Minute)

	v, err := sm.GetSecret(context.Background(), "catalog/POSTGRES_DSN")
	require.NoError(t, err)
	assert.Equal(t, "host=rotated", v)
	assert.Equal(t, 2, api.calls)
}

func TestSecretsClient_Errors(t *testing.T) {
	api := &fakeSecretsAPI{values: map[string]*string{"binary": nil}}
	sm := newSecretsClient(api, time.Minute)

	_, err := sm.GetSecret(context.Background(), "missing")
	assert.ErrorContains(t, err, "failed to get secret missing")

	_, err = sm.GetSecret(context.Background(), "binary")
	assert.ErrorContains(t, err, "no string value")
}
