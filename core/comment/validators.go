package comment

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/tesina/core"
)

var (
	authorRoleTag  = "authorrole"
	authorRoleText = "role must be one of: student, teacher"
)

// InitValidators registers the comment package's custom validators and translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(authorRoleTag, authorRoleValidation)
	core.RegisterCustomTranslation(validate, translator, authorRoleTag, authorRoleText)
}

// authorRoleValidation checks that the submitted role is a known AuthorRole.
func authorRoleValidation(fl validator.FieldLevel) bool {
	return AuthorRole(fl.Field().String()).Valid()
}
