package seedcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const importCatalogMessageType = "deepwood.seed.import_catalog"

// ImportCatalogCommand imports product and project seed documents found
// under Directory.
type ImportCatalogCommand struct {
	Directory string `json:"directory"`
	// FailOnError turns per-document failures into a command error.
	FailOnError bool `json:"fail_on_error,omitempty"`
}

func (ImportCatalogCommand) Type() string { return importCatalogMessageType }

func (cmd ImportCatalogCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("deepwood.seed.directory_required", "directory is required")
			}
			return nil
		})),
	)
}
