package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Resolve(Answers{Domain: "example.com"})
	require.NoError(t, err)

	assert.Equal(t, DefaultAppUser, cfg.AppUser)
	assert.Equal(t, DefaultAppDir, cfg.AppDir)
	assert.Equal(t, "admin@example.com", cfg.Email)
	assert.Equal(t, DefaultNodeVersion, cfg.NodeVersion)
	assert.Equal(t, DefaultAppPort, cfg.AppPort)
	assert.Equal(t, DBPostgreSQL, cfg.Database)
	assert.Equal(t, WebNginx, cfg.WebServer)
	assert.Empty(t, cfg.AddonNames())
	assert.False(t, cfg.Firewall)
}

func TestResolveDomainRequired(t *testing.T) {
	t.Parallel()

	_, err := Resolve(Answers{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "domain", verr.Field)
}

func TestResolveMenuAnswers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		database string
		want     Database
	}{
		{"by name", "mysql", DBMySQL},
		{"by number", "3", DBMongoDB},
		{"number out of range falls back to first option", "7", DBPostgreSQL},
		{"garbage falls back to first option", "oracle", DBPostgreSQL},
		{"case insensitive", "MongoDB", DBMongoDB},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := Resolve(Answers{Domain: "example.com", Database: tt.database})
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Database)
		})
	}
}

func TestResolveWebServerNumeric(t *testing.T) {
	t.Parallel()

	cfg, err := Resolve(Answers{Domain: "example.com", WebServer: "2"})
	require.NoError(t, err)
	assert.Equal(t, WebApache, cfg.WebServer)
}

func TestResolveNodeVersion(t *testing.T) {
	t.Parallel()

	cfg, err := Resolve(Answers{Domain: "example.com", NodeVersion: "22"})
	require.NoError(t, err)
	assert.Equal(t, "22", cfg.NodeVersion)

	cfg, err = Resolve(Answers{Domain: "example.com", NodeVersion: "99"})
	require.NoError(t, err)
	assert.Equal(t, DefaultNodeVersion, cfg.NodeVersion)
}

func TestResolveUnknownAddon(t *testing.T) {
	t.Parallel()

	_, err := Resolve(Answers{Domain: "example.com", Addons: []string{"docker", "kubernetes"}})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "addons", verr.Field)
}

func TestResolveAddons(t *testing.T) {
	t.Parallel()

	cfg, err := Resolve(Answers{
		Domain: "example.com",
		Addons: []string{"docker", " TLS ", ""},
	})
	require.NoError(t, err)
	assert.True(t, cfg.HasAddon(AddonDocker))
	assert.True(t, cfg.HasAddon(AddonTLS))
	assert.Equal(t, []string{"docker", "tls"}, cfg.AddonNames())
}

func TestResolvePortBounds(t *testing.T) {
	t.Parallel()

	_, err := Resolve(Answers{Domain: "example.com", AppPort: 70000})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "port", verr.Field)
}

func TestResolveGeneratesPassword(t *testing.T) {
	t.Parallel()

	cfg, err := Resolve(Answers{Domain: "example.com", Database: "postgresql"})
	require.NoError(t, err)
	assert.Len(t, cfg.DBPassword.Value(), 24)

	// No password when no database is installed
	cfg, err = Resolve(Answers{Domain: "example.com", Database: "none"})
	require.NoError(t, err)
	assert.Empty(t, cfg.DBPassword.Value())
}

func TestMongoViaDocker(t *testing.T) {
	t.Parallel()

	cfg, err := Resolve(Answers{Domain: "example.com", Database: "mongodb", Addons: []string{"docker"}})
	require.NoError(t, err)
	assert.True(t, cfg.MongoViaDocker())

	cfg, err = Resolve(Answers{Domain: "example.com", Database: "mongodb"})
	require.NoError(t, err)
	assert.False(t, cfg.MongoViaDocker())
}

func TestSecretRedaction(t *testing.T) {
	t.Parallel()

	s := Secret("hunter2")
	assert.Equal(t, "[redacted]", s.String())

	text, err := s.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "[redacted]", string(text))

	assert.Equal(t, "hunter2", s.Value())
}
