package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTemplateName(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"Liability caps in SaaS service contracts", "liability_service"},
		{"liability for defective goods", "generic"},
		{"Divorce and marital property", "family"},
		{"wrongful termination of employees", "employment"},
		{"family business employment dispute", "family"},
		{"", "generic"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, TemplateName(tt.query))
		})
	}
}

func TestTemplateBody(t *testing.T) {
	assert.Contains(t, TemplateBody("liability of a service provider"), "LIMITATION OF LIABILITY:")
	assert.Contains(t, TemplateBody("zoning variance"), `"zoning variance"`)

	for _, query := range []string{"service liability", "divorce", "termination", "zoning"} {
		body := TemplateBody(query)
		for _, section := range reportSections {
			assert.Contains(t, body, section.heading+":", "%s template missing %s", query, section.heading)
		}
	}
}
