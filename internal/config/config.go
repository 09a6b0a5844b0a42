// Package config resolves operator answers into the immutable
// Configuration consumed by the planner and the step predicates.
package config

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// Database is the selected database server.
type Database string

const (
	DBPostgreSQL Database = "postgresql"
	DBMySQL      Database = "mysql"
	DBMongoDB    Database = "mongodb"
	DBNone       Database = "none"
)

// WebServer is the selected reverse proxy. There is no "none" option.
type WebServer string

const (
	WebNginx  WebServer = "nginx"
	WebApache WebServer = "apache"
)

// Addon names an optional component.
type Addon string

const (
	AddonDocker   Addon = "docker"
	AddonRedis    Addon = "redis"
	AddonTLS      Addon = "tls"
	AddonFail2ban Addon = "fail2ban"
)

// NodeVersions are the offered runtime majors; the middle one is the
// default.
var NodeVersions = []string{"18", "20", "22"}

const (
	DefaultNodeVersion = "20"
	DefaultAppUser     = "nodeapp"
	DefaultAppDir      = "/var/www/app"
	DefaultAppPort     = 3000
)

// Secret holds a value that must never reach logs or serialized
// output. Both String and MarshalText redact.
type Secret string

func (Secret) String() string { return "[redacted]" }

func (Secret) MarshalText() ([]byte, error) { return []byte("[redacted]"), nil }

// Value returns the underlying secret for use at the point of
// consumption only.
func (s Secret) Value() string { return string(s) }

// Configuration is the fully resolved run input. Built once per run,
// treated as immutable afterwards.
type Configuration struct {
	AppUser     string
	AppDir      string
	Domain      string
	Email       string
	NodeVersion string
	Database    Database
	WebServer   WebServer
	Addons      map[Addon]bool
	AppPort     int
	DBPassword  Secret

	// Firewall gates the ufw steps; it is only true once the operator
	// has explicitly confirmed (prompt or --yes).
	Firewall bool
}

// HasAddon reports whether the addon was selected.
func (c Configuration) HasAddon(a Addon) bool {
	return c.Addons[a]
}

// AddonNames returns the selected addons sorted for display.
func (c Configuration) AddonNames() []string {
	names := make([]string, 0, len(c.Addons))
	for a, on := range c.Addons {
		if on {
			names = append(names, string(a))
		}
	}
	sort.Strings(names)
	return names
}

// MongoViaDocker reports whether MongoDB should run as a pinned
// container instead of a repository install.
func (c Configuration) MongoViaDocker() bool {
	return c.Database == DBMongoDB && c.HasAddon(AddonDocker)
}

// ValidationError names the offending input field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GeneratePassword builds a random database password when the
// operator did not supply one.
func GeneratePassword(length int) (Secret, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(passwordAlphabet[n.Int64()])
	}
	return Secret(b.String()), nil
}
