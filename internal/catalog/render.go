package catalog

import (
	"bytes"
	"embed"
	"text/template"

	"github.com/example/nodestrap/internal/config"
)

//go:embed templates
var templatesFS embed.FS

// RenderData is the flat view handed to artifact templates.
type RenderData struct {
	Domain      string
	AppUser     string
	AppDir      string
	AppPort     int
	NodeVersion string
}

func renderData(cfg config.Configuration) RenderData {
	return RenderData{
		Domain:      cfg.Domain,
		AppUser:     cfg.AppUser,
		AppDir:      cfg.AppDir,
		AppPort:     cfg.AppPort,
		NodeVersion: cfg.NodeVersion,
	}
}

func renderTemplate(name string, data RenderData) (string, error) {
	content, err := templatesFS.ReadFile("templates/" + name)
	if err != nil {
		return "", err
	}
	return renderString(string(content), data)
}

func renderString(content string, data RenderData) (string, error) {
	tmpl, err := template.New("").Option("missingkey=error").Parse(content)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
