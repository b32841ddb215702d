// Package markdown reads seed documents (YAML frontmatter plus a Markdown
// body) and renders Markdown descriptions to HTML with goldmark.
package markdown
