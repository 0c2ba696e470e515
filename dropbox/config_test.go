package dropbox

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infomas/go-dropbox/oauth"
)

type fakeEnvRepo struct {
	envVars map[string]string
}

func (repo fakeEnvRepo) Get(key string) string {
	return repo.envVars[key]
}

func (repo fakeEnvRepo) Set(key, value string) error {
	repo.envVars[key] = value
	return nil
}

func (repo fakeEnvRepo) Unset(key string) error {
	delete(repo.envVars, key)
	return nil
}

func (repo fakeEnvRepo) List() []string {
	envs := []string{}
	for k, v := range repo.envVars {
		envs = append(envs, fmt.Sprintf("%s=%s", k, v))
	}
	return envs
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig(fakeEnvRepo{envVars: map[string]string{
		"DROPBOX_APP_KEY":       "app-key",
		"DROPBOX_APP_SECRET":    "app-secret",
		"DROPBOX_ACCESS_KEY":    "access-key",
		"DROPBOX_ACCESS_SECRET": "access-secret",
		"DROPBOX_LANGUAGE":      "de",
		"DROPBOX_ROOT":          "dropbox",
		"DROPBOX_CHUNK_SIZE":    "8MB",
	}})
	require.NoError(t, err)

	assert.Equal(t, "app-key", string(cfg.AppKey))
	assert.Equal(t, "app-secret", string(cfg.AppSecret))
	assert.Equal(t, "access-key", string(cfg.AccessKey))
	assert.Equal(t, "access-secret", string(cfg.AccessSecret))
	assert.Equal(t, "de", cfg.Language)
	assert.Equal(t, "dropbox", cfg.Root)
	assert.Equal(t, "8MB", cfg.ChunkSize)
}

func TestParseConfig_MissingAppKey(t *testing.T) {
	_, err := ParseConfig(fakeEnvRepo{envVars: map[string]string{
		"DROPBOX_APP_SECRET": "app-secret",
	}})
	assert.Error(t, err)
}

func TestParseConfig_InvalidRoot(t *testing.T) {
	_, err := ParseConfig(fakeEnvRepo{envVars: map[string]string{
		"DROPBOX_APP_KEY":    "app-key",
		"DROPBOX_APP_SECRET": "app-secret",
		"DROPBOX_ROOT":       "attic",
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "attic")
}

func TestNewFromConfig(t *testing.T) {
	c, err := NewFromConfig(Config{
		AppKey:       "app-key",
		AppSecret:    "app-secret",
		AccessKey:    "access-key",
		AccessSecret: "access-secret",
		Language:     "fr",
		Root:         "dropbox",
		ChunkSize:    "1MB",
	}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "fr", c.locale)
	assert.Equal(t, RootDropbox, c.root)
	assert.Equal(t, int64(1024*1024), c.defaultChunkSize)

	err = c.SetTokenCredentials(oauth.Credentials{Key: "x", Secret: "y"})
	assert.ErrorIs(t, err, ErrAlreadyAuthenticated)
}

func TestNewFromConfig_Defaults(t *testing.T) {
	c, err := NewFromConfig(Config{
		AppKey:    "app-key",
		AppSecret: "app-secret",
	}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "en", c.locale)
	assert.Equal(t, RootSandbox, c.root)
	assert.Equal(t, DefaultChunkSize, c.defaultChunkSize)

	// No access credentials yet, the client still awaits the flow.
	assert.NoError(t, c.SetTokenCredentials(oauth.Credentials{Key: "x", Secret: "y"}))
}

func TestNewFromConfig_InvalidChunkSize(t *testing.T) {
	_, err := NewFromConfig(Config{
		AppKey:    "app-key",
		AppSecret: "app-secret",
		ChunkSize: "potato",
	}, nil, nil)
	assert.Error(t, err)
}
