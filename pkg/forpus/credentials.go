package forpus

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
)

// Names of the environment variables holding the API credentials.
const (
	EnvUser     = "FORPUSAPI_USER"
	EnvPassword = "FORPUSAPI_PASSWORD"
)

var credentialsValidator = validator.New(validator.WithRequiredStructEnabled())

// Credentials identify the API user. They are resolved once by New and never
// change afterwards.
type Credentials struct {
	User     string `mapstructure:"FORPUSAPI_USER" validate:"required"`
	Password string `mapstructure:"FORPUSAPI_PASSWORD" validate:"required"`
}

// A CredentialSource is one of the accepted credential shapes:
// Password or Mapping.
type CredentialSource interface {
	resolve() (Credentials, error)
}

// Password supplies the user and password directly. New rejects an empty
// user or password with ErrConfiguration.
type Password struct {
	User     string
	Password string
}

func (p Password) resolve() (Credentials, error) {
	c := Credentials{User: p.User, Password: p.Password}
	if err := credentialsValidator.Struct(c); err != nil {
		return Credentials{}, ErrConfiguration.MsgErr("expected user and password", err)
	}
	return c, nil
}

// Mapping supplies credentials under the keys EnvUser and EnvPassword,
// typically taken from the process environment with Environ.
type Mapping map[string]string

func (m Mapping) resolve() (Credentials, error) {
	var c Credentials
	if err := mapstructure.Decode(map[string]string(m), &c); err != nil {
		return Credentials{}, ErrConfiguration.MsgErr("unable to read credentials mapping", err)
	}
	if err := credentialsValidator.Struct(c); err != nil {
		return Credentials{}, ErrConfiguration.MsgErr(
			fmt.Sprintf("%s and %s are expected to be defined", EnvUser, EnvPassword), err)
	}
	return c, nil
}

// Environ returns the process environment as a Mapping.
func Environ() Mapping {
	m := Mapping{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			m[k] = v
		}
	}
	return m
}

// LoadDotEnv loads variables from the given .env files (".env" in the working
// directory when none is given) without overriding variables already set.
// Missing files are ignored.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

func resolveCredentials(src CredentialSource) (Credentials, error) {
	if src == nil {
		return Credentials{}, ErrConfiguration.New("no credentials provided: expected user and password or a mapping with " +
			EnvUser + " and " + EnvPassword)
	}
	return src.resolve()
}
