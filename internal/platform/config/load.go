package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix        = "APP_"
	defaultConfigDir = "configs"
)

// profilePattern keeps profile names usable as file names inside the config
// directory.
var profilePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	configDir string
	environ   func() []string
}

// WithConfigDir sets the directory holding base.yaml and the profile files.
// Defaults to "configs" relative to the working directory.
func WithConfigDir(dir string) Option {
	return func(o *loadOptions) {
		o.configDir = dir
	}
}

// WithEnviron replaces os.Environ as the source of APP_ overrides. Entries use
// the KEY=value form.
func WithEnviron(environ func() []string) Option {
	return func(o *loadOptions) {
		o.environ = environ
	}
}

// Load builds the configuration for profile from four layers, later layers
// overriding earlier ones:
//
//  0. built-in defaults
//  1. {configDir}/base.yaml
//  2. {configDir}/{profile}.yaml
//  3. APP_ environment variables
//
// Environment names are matched against the keys already loaded, so an
// underscore inside a field name is not mistaken for nesting:
//
//	APP_SERVER_PORT              -> server.port
//	APP_SERVER_READ_TIMEOUT      -> server.read_timeout
//	APP_AUTH_SIGNING_KEY         -> auth.signing_key
//	APP_STORE_RETRY_MAX_ATTEMPTS -> store.retry.max_attempts
func Load(profile string, opts ...Option) (*Config, error) {
	if !profilePattern.MatchString(profile) {
		return nil, fmt.Errorf("invalid profile %q: want lowercase letters, digits, '-' or '_'", profile)
	}

	o := &loadOptions{configDir: defaultConfigDir}
	for _, opt := range opts {
		opt(o)
	}

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	for _, name := range []string{"base", profile} {
		path := filepath.Join(o.configDir, name+".yaml")
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading %s config %s: %w", name, path, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        envPrefix,
		TransformFunc: envKeyMapper(k.Keys()),
		EnvironFunc:   o.environ,
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// envKeyMapper maps APP_FOO_BAR_BAZ onto a known dotted key such as
// foo.bar_baz. Names that match no known key fall back to replacing every
// underscore with a dot.
func envKeyMapper(known []string) func(string, string) (string, any) {
	lookup := make(map[string]string, len(known))
	for _, key := range known {
		lookup[strings.ReplaceAll(key, ".", "_")] = key
	}

	return func(name, value string) (string, any) {
		name = strings.ToLower(strings.TrimPrefix(name, envPrefix))
		if key, ok := lookup[name]; ok {
			return key, value
		}
		return strings.ReplaceAll(name, "_", "."), value
	}
}
