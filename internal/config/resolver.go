package config

import (
	"strconv"
	"strings"
)

// Answers is the raw operator input, either prompt replies or flag
// values. Menu fields accept both the option name and the 1-based
// numeric choice the original prompts offered.
type Answers struct {
	AppUser     string
	AppDir      string
	Domain      string
	Email       string
	NodeVersion string
	Database    string
	WebServer   string
	Addons      []string
	AppPort     int
	DBPassword  string
	Firewall    bool
}

// Menu orders match the interactive prompts; index 0 is the default
// that out-of-range numeric answers silently fall back to.
var (
	databaseMenu  = []Database{DBPostgreSQL, DBMySQL, DBMongoDB, DBNone}
	webServerMenu = []WebServer{WebNginx, WebApache}
)

// Resolve validates answers and produces a Configuration.
func Resolve(a Answers) (Configuration, error) {
	cfg := Configuration{
		AppUser:    strings.TrimSpace(a.AppUser),
		AppDir:     strings.TrimSpace(a.AppDir),
		Domain:     strings.TrimSpace(a.Domain),
		Email:      strings.TrimSpace(a.Email),
		AppPort:    a.AppPort,
		Addons:     map[Addon]bool{},
		DBPassword: Secret(a.DBPassword),
		Firewall:   a.Firewall,
	}

	if cfg.AppUser == "" {
		cfg.AppUser = DefaultAppUser
	}
	if cfg.AppDir == "" {
		cfg.AppDir = DefaultAppDir
	}
	if cfg.Domain == "" {
		return Configuration{}, &ValidationError{Field: "domain", Msg: "must not be empty"}
	}
	if cfg.Email == "" {
		cfg.Email = "admin@" + cfg.Domain
	}
	if cfg.AppPort == 0 {
		cfg.AppPort = DefaultAppPort
	}
	if cfg.AppPort < 1 || cfg.AppPort > 65535 {
		return Configuration{}, &ValidationError{Field: "port", Msg: "must be between 1 and 65535"}
	}

	cfg.NodeVersion = resolveNodeVersion(a.NodeVersion)
	cfg.Database = resolveDatabase(a.Database)
	cfg.WebServer = resolveWebServer(a.WebServer)

	for _, raw := range a.Addons {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		switch Addon(name) {
		case AddonDocker, AddonRedis, AddonTLS, AddonFail2ban:
			cfg.Addons[Addon(name)] = true
		default:
			return Configuration{}, &ValidationError{Field: "addons", Msg: "unknown addon " + strconv.Quote(name)}
		}
	}

	if cfg.Database != DBNone && cfg.DBPassword == "" {
		pw, err := GeneratePassword(24)
		if err != nil {
			return Configuration{}, err
		}
		cfg.DBPassword = pw
	}

	return cfg, nil
}

func resolveNodeVersion(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, v := range NodeVersions {
		if raw == v {
			return v
		}
	}
	if n, err := strconv.Atoi(raw); err == nil && n >= 1 && n <= len(NodeVersions) {
		return NodeVersions[n-1]
	}
	return DefaultNodeVersion
}

func resolveDatabase(raw string) Database {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for _, d := range databaseMenu {
		if raw == string(d) {
			return d
		}
	}
	if n, err := strconv.Atoi(raw); err == nil && n >= 1 && n <= len(databaseMenu) {
		return databaseMenu[n-1]
	}
	return databaseMenu[0]
}

func resolveWebServer(raw string) WebServer {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for _, w := range webServerMenu {
		if raw == string(w) {
			return w
		}
	}
	if n, err := strconv.Atoi(raw); err == nil && n >= 1 && n <= len(webServerMenu) {
		return webServerMenu[n-1]
	}
	return webServerMenu[0]
}
