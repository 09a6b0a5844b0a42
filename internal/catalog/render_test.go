package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplates(t *testing.T) {
	t.Parallel()

	data := RenderData{
		Domain:      "example.com",
		AppUser:     "nodeapp",
		AppDir:      "/var/www/app",
		AppPort:     3000,
		NodeVersion: "20",
	}

	tests := []struct {
		name     string
		template string
		contains []string
	}{
		{
			name:     "nginx site",
			template: "nginx-site.conf.tmpl",
			contains: []string{
				"server_name example.com www.example.com",
				"proxy_pass http://127.0.0.1:3000",
				"proxy_set_header Upgrade $http_upgrade",
			},
		},
		{
			name:     "apache vhost",
			template: "apache-vhost.conf.tmpl",
			contains: []string{
				"ServerName example.com",
				"ProxyPass / http://127.0.0.1:3000/",
				"RewriteCond %{HTTP:Upgrade} websocket",
			},
		},
		{
			name:     "deploy script",
			template: "deploy.sh.tmpl",
			contains: []string{
				`APP_DIR="/var/www/app"`,
				"git pull --ff-only",
				"pm2 restart all",
			},
		},
		{
			name:     "env example",
			template: "env.example.tmpl",
			contains: []string{"NODE_ENV=production", "PORT=3000", "HOST=127.0.0.1"},
		},
		{
			name:     "mongo compose",
			template: "mongo-compose.yml.tmpl",
			contains: []string{"image: mongo:7.0.14", "container_name: nodeapp-mongodb"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, err := renderTemplate(tt.template, data)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestRenderStringRejectsMissingKeys(t *testing.T) {
	t.Parallel()

	_, err := renderString("{{.NoSuchField}}", RenderData{})
	assert.Error(t, err)
}

func TestRenderTemplateUnknownName(t *testing.T) {
	t.Parallel()

	_, err := renderTemplate("ghost.tmpl", RenderData{})
	assert.Error(t, err)
}
