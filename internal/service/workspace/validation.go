package workspace

import (
	"errors"
	"strings"

	"docdesk/internal/config"
	"docdesk/internal/domain"
	models "docdesk/internal/domain/models/workspace"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ValidateDocumentName checks a document name before any remote call.
func ValidateDocumentName(name string) error {
	err := validation.Validate(name,
		validation.Required.Error("document name is required"),
		validation.Length(1, config.MaxDocumentNameLength),
		validation.Match(models.BareName).Error("document name cannot contain slashes"),
		validation.By(func(value interface{}) error {
			if !models.HasMarkupExtension(value.(string)) {
				return errors.New("document name must end with " + strings.Join(models.Extensions, " or "))
			}
			return nil
		}),
	)
	if err != nil {
		return &domain.ValidationError{Message: err.Error()}
	}
	return nil
}

// ValidateFolderName checks a folder name before any remote call.
func ValidateFolderName(name string) error {
	err := validation.Validate(name,
		validation.Required.Error("folder name is required"),
		validation.Length(1, config.MaxFolderNameLength),
	)
	if err != nil {
		return &domain.ValidationError{Message: err.Error()}
	}
	return nil
}
