package dropbox

import (
	"fmt"

	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"

	"github.com/infomas/go-dropbox/oauth"
	"github.com/infomas/go-dropbox/rest"
)

// Config carries the client settings read from the environment.
type Config struct {
	AppKey       stepconf.Secret `env:"DROPBOX_APP_KEY,required"`
	AppSecret    stepconf.Secret `env:"DROPBOX_APP_SECRET,required"`
	AccessKey    stepconf.Secret `env:"DROPBOX_ACCESS_KEY"`
	AccessSecret stepconf.Secret `env:"DROPBOX_ACCESS_SECRET"`
	Language     string          `env:"DROPBOX_LANGUAGE"`
	Root         string          `env:"DROPBOX_ROOT"`
	ChunkSize    string          `env:"DROPBOX_CHUNK_SIZE"`
}

// ParseConfig reads the client settings from the given environment.
func ParseConfig(envRepo env.Repository) (Config, error) {
	var cfg Config
	if err := stepconf.NewInputParser(envRepo).Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("dropbox: parse config: %w", err)
	}
	if cfg.Root != "" && cfg.Root != RootSandbox && cfg.Root != RootDropbox {
		return Config{}, fmt.Errorf("dropbox: invalid root %q (want %q or %q)", cfg.Root, RootSandbox, RootDropbox)
	}
	return cfg, nil
}

// NewFromConfig creates a Client from environment-sourced settings. When the
// access key/secret pair is present the client starts out authenticated.
func NewFromConfig(cfg Config, restClient rest.RestClient, logger log.Logger) (*Client, error) {
	client := oauth.Credentials{Key: string(cfg.AppKey), Secret: string(cfg.AppSecret)}
	token := oauth.Credentials{Key: string(cfg.AccessKey), Secret: string(cfg.AccessSecret)}
	c, err := New(client, token, restClient, logger)
	if err != nil {
		return nil, err
	}
	c.SetLocale(cfg.Language).SetRoot(cfg.Root)
	if cfg.ChunkSize != "" {
		size, err := ParseChunkSize(cfg.ChunkSize)
		if err != nil {
			return nil, err
		}
		c.SetChunkSize(size)
	}
	return c, nil
}
