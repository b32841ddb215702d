package markdown

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-deepwood/internal/domain"
)

// FrontMatter is the metadata block of a seed document. Bilingual fields use
// an en/ar mapping:
//
//	name:
//	  en: Oak Chair
//	  ar: كرسي بلوط
type FrontMatter struct {
	Kind         string         `yaml:"kind"`
	Key          string         `yaml:"key"`
	Slug         string         `yaml:"slug"`
	SlugLanguage string         `yaml:"slug_lang"`
	Name         domain.Text    `yaml:"name"`
	Title        domain.Text    `yaml:"title"`
	Summary      domain.Text    `yaml:"summary"`
	Description  domain.Text    `yaml:"description"`
	Location     domain.Text    `yaml:"location"`
	Category     string         `yaml:"category"`
	Price        int64          `yaml:"price"`
	Currency     string         `yaml:"currency"`
	Year         int            `yaml:"year"`
	Images       []string       `yaml:"images"`
	Attributes   map[string]any `yaml:"attributes"`
	Featured     bool           `yaml:"featured"`
	Status       string         `yaml:"status"`
	Custom       map[string]any `yaml:",inline"`
}

// Document is a parsed seed file.
type Document struct {
	Path     string
	Meta     FrontMatter
	Body     []byte
	Checksum []byte
	Modified time.Time
}

// yamlFormat decodes with yaml.v3 so nested maps come back as map[string]any.
var yamlFormat = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// ParseFrontMatter extracts metadata and the Markdown body from source.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var meta FrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta, yamlFormat)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	meta.Kind = strings.ToLower(strings.TrimSpace(meta.Kind))
	meta.Attributes = maps.Clone(meta.Attributes)
	if meta.Custom == nil {
		meta.Custom = map[string]any{}
	}
	return meta, bytes.TrimSpace(body), nil
}

// ParseDocument builds a Document from a file's path, content and mtime.
func ParseDocument(path string, source []byte, modified time.Time) (*Document, error) {
	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sum := sha256.Sum256(source)
	return &Document{
		Path:     path,
		Meta:     meta,
		Body:     body,
		Checksum: sum[:],
		Modified: modified,
	}, nil
}

// DisplayName returns the title when set, otherwise the name.
func (m FrontMatter) DisplayName() domain.Text {
	if !m.Title.IsZero() {
		return m.Title.Trimmed()
	}
	return m.Name.Trimmed()
}

// DescriptionText returns the bilingual description: the frontmatter value,
// with the body used for English when the frontmatter leaves it empty.
func (d *Document) DescriptionText() domain.Text {
	text := d.Meta.Description.Trimmed()
	if text.En == "" {
		text.En = string(d.Body)
	}
	return text
}
