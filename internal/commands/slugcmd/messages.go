package slugcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-deepwood/internal/slugs"
)

const (
	previewMessageType    = "deepwood.slugs.preview"
	regenerateMessageType = "deepwood.slugs.regenerate"
)

// Collection names a slug namespace.
type Collection string

const (
	CollectionProducts Collection = "products"
	CollectionProjects Collection = "projects"
	// CollectionAll is accepted by RegenerateSlugsCommand only.
	CollectionAll Collection = "all"
)

// ParseCollection accepts singular and plural names.
func ParseCollection(value string) Collection {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "product", "products":
		return CollectionProducts
	case "project", "projects":
		return CollectionProjects
	case "", "all":
		return CollectionAll
	default:
		return Collection(value)
	}
}

// PreviewSlugCommand computes the slug text would receive in Collection
// without persisting anything.
type PreviewSlugCommand struct {
	Text       string     `json:"text"`
	Language   string     `json:"language,omitempty"`
	Collection Collection `json:"collection"`
}

func (PreviewSlugCommand) Type() string { return previewMessageType }

func (cmd PreviewSlugCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Text, validation.Required, validation.Length(1, 1000)),
		validation.Field(&cmd.Language, validation.By(languageRule)),
		validation.Field(&cmd.Collection, validation.Required, validation.In(CollectionProducts, CollectionProjects)),
	)
}

// RegenerateSlugsCommand rebuilds slugs that are empty or no longer valid.
// Valid slugs are left alone so published URLs stay stable.
type RegenerateSlugsCommand struct {
	Collection Collection `json:"collection"`
	Language   string     `json:"language,omitempty"`
	DryRun     bool       `json:"dry_run,omitempty"`
}

func (RegenerateSlugsCommand) Type() string { return regenerateMessageType }

func (cmd RegenerateSlugsCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Collection, validation.Required, validation.In(CollectionProducts, CollectionProjects, CollectionAll)),
		validation.Field(&cmd.Language, validation.By(languageRule)),
	)
}

func languageRule(value any) error {
	code, _ := value.(string)
	if _, err := slugs.ParseLanguage(code); err != nil {
		return validation.NewError("deepwood.slugs.language_unknown", "language must be en or ar")
	}
	return nil
}
