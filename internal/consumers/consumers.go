// Package consumers holds the Tool Consumers allowed to call the server: consumer key, shared
// secret and display name, loaded from a YAML file.
//
//	consumers:
//	  - key: moodle-prod
//	    name: Moodle
//	    secret_env: MOODLE_LTI_SECRET
//	  - key: canvas-test
//	    secret: not-for-production
//	    disabled: true
//	  - key: demo
//	    public: true
//
// A secret is given inline or read from the environment variable named by secret_env.
// Public consumers sign with an empty secret and must not set either.
// Disabled consumers stay in the file but cannot authenticate.
package consumers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownConsumer is returned by LookupSecret for keys that are not registered or are disabled.
var ErrUnknownConsumer = errors.New("unknown consumer")

// Consumer is one registered Tool Consumer.
type Consumer struct {
	Key       string `yaml:"key"`
	Name      string `yaml:"name"`
	Secret    string `yaml:"secret"`
	SecretEnv string `yaml:"secret_env"`
	Public    bool   `yaml:"public"`
	Disabled  bool   `yaml:"disabled"`
}

type file struct {
	Consumers []Consumer `yaml:"consumers"`
}

// Registry resolves consumer keys to secrets. It is read-only after loading and safe for
// concurrent use.
type Registry struct {
	consumers map[string]Consumer
}

// LoadFile reads the registry at path.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from server configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read consumers file: %w", err)
	}
	registry, err := Parse(data, os.LookupEnv)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return registry, nil
}

// Parse decodes a registry. lookupEnv resolves secret_env references.
func Parse(data []byte, lookupEnv func(string) (string, bool)) (*Registry, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse consumers: %w", err)
	}

	registry := &Registry{consumers: make(map[string]Consumer, len(f.Consumers))}
	for i, c := range f.Consumers {
		c.Key = strings.TrimSpace(c.Key)
		if c.Key == "" {
			return nil, fmt.Errorf("consumer %d: key is required", i)
		}
		if _, exists := registry.consumers[c.Key]; exists {
			return nil, fmt.Errorf("consumer %q: key is listed more than once", c.Key)
		}

		switch {
		case c.Public && (c.Secret != "" || c.SecretEnv != ""):
			return nil, fmt.Errorf("consumer %q: a public consumer has no secret", c.Key)
		case c.Public:
		case c.Secret != "" && c.SecretEnv != "":
			return nil, fmt.Errorf("consumer %q: set secret or secret_env, not both", c.Key)
		case c.SecretEnv != "":
			secret, ok := lookupEnv(c.SecretEnv)
			if !ok || secret == "" {
				return nil, fmt.Errorf("consumer %q: environment variable %s is not set", c.Key, c.SecretEnv)
			}
			c.Secret = secret
		case c.Secret == "":
			return nil, fmt.Errorf("consumer %q: secret is required unless the consumer is public", c.Key)
		}

		registry.consumers[c.Key] = c
	}
	return registry, nil
}

// LookupSecret returns the shared secret of an enabled consumer.
func (r *Registry) LookupSecret(_ context.Context, consumerKey string) (string, error) {
	c, ok := r.consumers[consumerKey]
	if !ok || c.Disabled {
		return "", ErrUnknownConsumer
	}
	return c.Secret, nil
}

// Keys returns the keys of the enabled consumers, sorted.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.consumers))
	for k, c := range r.consumers {
		if !c.Disabled {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Name returns the display name of a consumer, falling back to its key.
func (r *Registry) Name(consumerKey string) string {
	if c, ok := r.consumers[consumerKey]; ok && c.Name != "" {
		return c.Name
	}
	return consumerKey
}
