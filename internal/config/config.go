package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Config represents the application configuration.
type Config struct {
	Profiles    []Profile   `mapstructure:"profiles" yaml:"profiles"`
	Preferences Preferences `mapstructure:"preferences" yaml:"preferences"`
}

// Profile is a saved database connection. Passwords are not part of the
// profile; they live in the system keyring under the profile name.
type Profile struct {
	Name     string            `mapstructure:"name" yaml:"name"`
	Scheme   string            `mapstructure:"scheme" yaml:"scheme"`
	Host     string            `mapstructure:"host" yaml:"host"`
	Port     int               `mapstructure:"port" yaml:"port"`
	Database string            `mapstructure:"database" yaml:"database"`
	Username string            `mapstructure:"username" yaml:"username"`
	Options  map[string]string `mapstructure:"options" yaml:"options,omitempty"`
}

// Preferences holds user preferences.
type Preferences struct {
	DefaultProfile string `mapstructure:"default_profile" yaml:"default_profile"`
}

// defaultPorts lets a URL omit the port for well-known schemes.
var defaultPorts = map[string]int{
	"postgres":   5432,
	"postgresql": 5432,
	"mysql":      3306,
}

// URL builds the connection URL for the profile. password may be empty.
func (p Profile) URL(password string) string {
	u := url.URL{Scheme: p.Scheme, Host: p.Host}
	if p.Port > 0 {
		u.Host = p.Host + ":" + strconv.Itoa(p.Port)
	}
	if p.Username != "" {
		if password != "" {
			u.User = url.UserPassword(p.Username, password)
		} else {
			u.User = url.User(p.Username)
		}
	}
	if p.Database != "" {
		u.Path = "/" + p.Database
	}
	if len(p.Options) > 0 {
		q := url.Values{}
		for k, v := range p.Options {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// DisplayString returns a human-readable summary of the profile.
func (p Profile) DisplayString() string {
	s := p.Host
	if p.Port > 0 {
		s += ":" + strconv.Itoa(p.Port)
	}
	if p.Database != "" {
		s += "/" + p.Database
	}
	if p.Username != "" {
		s = p.Username + "@" + s
	}
	return p.Scheme + "://" + s
}

// ParseURL parses a connection URL into a Profile. Any password in the URL
// is returned separately so the caller can store it in the keyring.
func ParseURL(rawURL string) (Profile, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Profile{}, "", fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme == "" {
		return Profile{}, "", fmt.Errorf("URL has no scheme")
	}

	p := Profile{
		Scheme:   u.Scheme,
		Host:     u.Hostname(),
		Database: strings.TrimPrefix(u.Path, "/"),
	}

	var password string
	if u.User != nil {
		p.Username = u.User.Username()
		if pw, ok := u.User.Password(); ok {
			password = pw
		}
	}

	if portStr := u.Port(); portStr != "" {
		p.Port, _ = strconv.Atoi(portStr)
	}
	if p.Port == 0 {
		p.Port = defaultPorts[u.Scheme]
	}

	for key, vals := range u.Query() {
		if len(vals) == 0 {
			continue
		}
		if p.Options == nil {
			p.Options = make(map[string]string)
		}
		p.Options[key] = vals[0]
	}

	// Auto-generate a name
	p.Name = fmt.Sprintf("%s-%s-%d-%s", p.Scheme, p.Host, p.Port, p.Database)

	return p, password, nil
}

// HasProfile checks if a profile with the given name already exists.
func (cfg *Config) HasProfile(name string) bool {
	for _, p := range cfg.Profiles {
		if p.Name == name {
			return true
		}
	}
	return false
}

// AddProfile appends or replaces a profile by name.
func (cfg *Config) AddProfile(p Profile) {
	for i := range cfg.Profiles {
		if cfg.Profiles[i].Name == p.Name {
			cfg.Profiles[i] = p
			return
		}
	}
	cfg.Profiles = append(cfg.Profiles, p)
}

// Profile returns the named profile.
func (cfg *Config) Profile(name string) (Profile, bool) {
	for _, p := range cfg.Profiles {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}
