package shaders

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed *.frag *.vert
var templateDir embed.FS

const (
	VertexShaderName   = "base.vert"
	FragmentShaderName = "base.frag"
)

type Shaderer struct {
	templates *template.Template
}

func NewShaderer() (*Shaderer, error) {
	s := &Shaderer{}

	var err error

	s.templates, err = template.ParseFS(templateDir, "*.frag", "*.vert")

	return s, err
}

// ShaderData selects the features compiled into the base effect program.
type ShaderData struct {
	UseConstantColor bool
	UseTexture       bool
}

func (s *Shaderer) GetShaderSource(name string, data *ShaderData) (string, error) {
	var b bytes.Buffer
	err := s.templates.ExecuteTemplate(&b, name, data)
	if err != nil {
		return "", fmt.Errorf("error while rendering template %s: %w", name, err)
	}

	return b.String(), nil
}

// Sources renders both base effect shaders.
func (s *Shaderer) Sources(data *ShaderData) (vertex string, fragment string, err error) {
	vertex, err = s.GetShaderSource(VertexShaderName, data)
	if err != nil {
		return "", "", fmt.Errorf("could not get vertex shader: %w", err)
	}

	fragment, err = s.GetShaderSource(FragmentShaderName, data)
	if err != nil {
		return "", "", fmt.Errorf("could not get fragment shader: %w", err)
	}
	return vertex, fragment, nil
}

func (s *Shaderer) TemplateNames() []string {
	var names []string
	for _, t := range s.templates.Templates() {
		names = append(names, t.Name())
	}
	return names
}
