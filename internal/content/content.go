// Package content loads the site copy rendered below the cloud. The
// default copy is compiled in; users can replace it wholesale with
// ~/.nimbus/content.yaml.
package content

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/andyrewlee/nimbus/internal/config"
)

//go:embed default.yaml
var defaultYAML []byte

// Site is the full site copy.
type Site struct {
	Title    string    `yaml:"title"`
	Tagline  string    `yaml:"tagline"`
	Contact  Contact   `yaml:"contact"`
	Sections []Section `yaml:"sections"`
}

// Contact is the copyable contact line at the bottom of the site.
type Contact struct {
	Email  string `yaml:"email"`
	Prompt string `yaml:"prompt"`
}

// Section is one block of site copy.
type Section struct {
	Heading string   `yaml:"heading"`
	Body    string   `yaml:"body"`
	Items   []string `yaml:"items,omitempty"`
}

// Load returns the user's content override if present, otherwise the
// compiled-in default.
func Load(paths *config.Paths) (*Site, error) {
	data, err := os.ReadFile(paths.ContentPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Default()
		}
		return nil, err
	}
	site, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", paths.ContentPath, err)
	}
	return site, nil
}

// Default returns the compiled-in site copy.
func Default() (*Site, error) {
	return parse(defaultYAML)
}

func parse(data []byte) (*Site, error) {
	var site Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, err
	}
	if err := site.validate(); err != nil {
		return nil, err
	}
	return &site, nil
}

func (s *Site) validate() error {
	if s.Title == "" {
		return fmt.Errorf("content: title is required")
	}
	if len(s.Sections) == 0 {
		return fmt.Errorf("content: at least one section is required")
	}
	for i, sec := range s.Sections {
		if sec.Heading == "" {
			return fmt.Errorf("content: section %d has no heading", i)
		}
	}
	return nil
}
