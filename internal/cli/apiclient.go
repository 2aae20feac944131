package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/forpus/forpus/pkg/forpus"
	"github.com/rs/zerolog/log"
)

// newAPIClient builds a client from the configuration. Values stored in the
// config take precedence over FORPUSAPI_USER and FORPUSAPI_PASSWORD from the
// environment or a .env file; a config holding only the user takes the
// password from there.
func newAPIClient(cfg *Config) (*forpus.Client, error) {
	if cfg == nil {
		return nil, errors.New("no configuration loaded")
	}

	var src forpus.CredentialSource
	if cfg.User != "" && cfg.Password != "" {
		src = forpus.Password{User: cfg.User, Password: cfg.Password}
	} else {
		forpus.LoadDotEnv()
		env := forpus.Environ()
		if cfg.User != "" {
			env[forpus.EnvUser] = cfg.User
		}
		if cfg.Password != "" {
			env[forpus.EnvPassword] = cfg.Password
		}
		src = env
	}

	opts := []forpus.Option{
		forpus.WithDebugLogging(debugOutput),
		forpus.WithInsecureTLS(cfg.Insecure),
		forpus.WithToken(cfg.Token),
	}
	if cfg.ServerURL != "" {
		opts = append(opts, forpus.WithBaseURL(cfg.ServerURL))
	}
	return forpus.New(src, opts...)
}

// withClient runs fn with a client built from the current configuration and
// stores the token back when the client had to authenticate.
func withClient(ctx context.Context, fn func(ctx context.Context, c *forpus.Client) error) error {
	cfg := GetConfig()
	client, err := newAPIClient(cfg)
	if err != nil {
		return err
	}
	err = fn(ctx, client)
	if perr := persistToken(cfg, client.Token()); perr != nil {
		log.Warn().Err(perr).Msg("unable to store token")
	}
	return err
}

func persistToken(cfg *Config, token string) error {
	if token == "" || token == cfg.Token {
		return nil
	}
	cfg.Token = token
	return cfg.WriteConfig(configFile)
}

// apiError turns an error payload returned as a value into an error.
func apiError(resp *forpus.Response) error {
	if resp == nil {
		return nil
	}
	if msg, ok := resp.ErrorMessage(); ok {
		return fmt.Errorf("api error: %s", msg)
	}
	return nil
}
