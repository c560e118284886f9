package turma

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mediotec/portal-api/core"
	"github.com/mediotec/portal-api/core/disciplina"
	"github.com/mediotec/portal-api/core/user"
)

// Series
const (
	SeriePrimeiroAno = "1º Ano"
	SerieSegundoAno  = "2º Ano"
	SerieTerceiroAno = "3º Ano"
)

var AllSeries = []string{SeriePrimeiroAno, SerieSegundoAno, SerieTerceiroAno}

var (
	serieTag  = "serie"
	serieText = "serie must be one of: 1º Ano, 2º Ano, 3º Ano"
)

func init() {
	_ = core.Validate.RegisterValidation(serieTag, serieValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, serieTag, serieText)
}

func serieValidation(fl validator.FieldLevel) bool {
	serie := fl.Field().String()
	for _, s := range AllSeries {
		if serie == s {
			return true
		}
	}
	return false
}

// Turma holds many-to-many membership lists of students and subjects.
// Both arrays follow set semantics: no duplicate ids.
type Turma struct {
	ID          string    `json:"id"`
	Nome        string    `json:"nome"`
	Ano         int       `json:"ano"`
	Serie       string    `json:"serie"`
	Alunos      []string  `json:"aluno"`
	Disciplinas []string  `json:"disciplinas"`
	CreatedAt   time.Time `json:"created_at"` // UTC
}

// Detail is a Turma with its membership arrays populated.
type Detail struct {
	ID          string                  `json:"id"`
	Nome        string                  `json:"nome"`
	Ano         int                     `json:"ano"`
	Serie       string                  `json:"serie"`
	Alunos      []user.User             `json:"aluno"`
	Disciplinas []disciplina.Disciplina `json:"disciplinas"`
	CreatedAt   time.Time               `json:"created_at"`
}

// NewTurma contains information needed to create a new Turma.
type NewTurma struct {
	Nome        string   `json:"nome" validate:"required"`
	Ano         int      `json:"ano" validate:"required"`
	Serie       string   `json:"serie" validate:"required,serie"`
	Alunos      []string `json:"aluno" validate:"omitempty,dive,objectid"`
	Disciplinas []string `json:"disciplinas" validate:"omitempty,dive,objectid"`
}

func (nt *NewTurma) Validate(ctx context.Context, svc Service) error {
	nt.Nome = core.CleanString(nt.Nome)
	if err := core.Validate.StructCtx(ctx, nt); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, nt.Nome)
}

// UpdateTurma defines what information may be provided to modify an existing Turma.
// The membership arrays are managed through the dedicated add/remove operations.
type UpdateTurma struct {
	Nome  string `json:"nome"`
	Ano   int    `json:"ano"`
	Serie string `json:"serie" validate:"omitempty,serie"`
}

func (ut *UpdateTurma) Validate(ctx context.Context, orig Turma, svc Service) error {
	ut.Nome = core.CleanString(ut.Nome)
	if ut.Nome == "" {
		ut.Nome = orig.Nome
	}
	if ut.Ano == 0 {
		ut.Ano = orig.Ano
	}
	if ut.Serie == "" {
		ut.Serie = orig.Serie
	}
	if err := core.Validate.StructCtx(ctx, ut); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, ut.Nome, orig)
}
