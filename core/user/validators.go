package user

import (
	"github.com/go-playground/validator/v10"

	"github.com/mediotec/portal-api/core"
)

var (
	tipoTag  = "usertipo"
	tipoText = "tipo must be one of: coordenador, professor, aluno"
)

func init() {
	_ = core.Validate.RegisterValidation(tipoTag, tipoValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, tipoTag, tipoText)
}

// tipoValidation checks that the provided tipo is a known authorization class.
func tipoValidation(fl validator.FieldLevel) bool {
	tipo := fl.Field().String()
	for _, t := range AllTipos {
		if tipo == t {
			return true
		}
	}
	return false
}
