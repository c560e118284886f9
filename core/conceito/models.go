package conceito

import (
	"context"
	"time"

	"github.com/mediotec/portal-api/core"
	"github.com/mediotec/portal-api/core/disciplina"
	"github.com/mediotec/portal-api/core/user"
)

// Conceito is a grade record tying one aluno to one disciplina.
// (Aluno, Disciplina) is the logical uniqueness key.
type Conceito struct {
	ID              string    `json:"id"`
	Aluno           string    `json:"aluno"`
	Disciplina      string    `json:"disciplina"`
	Conceito1       *float64  `json:"conceito1,omitempty"`
	Conceito2       *float64  `json:"conceito2,omitempty"`
	ConceitoParcial *float64  `json:"conceitoParcial,omitempty"`
	ConceitoRec     *float64  `json:"conceitoRec,omitempty"`
	ConceitoFinal   *float64  `json:"conceitoFinal,omitempty"`
	CreatedAt       time.Time `json:"created_at"` // UTC
}

// Detail is a Conceito with its references populated.
type Detail struct {
	ID              string                 `json:"id"`
	Aluno           user.User              `json:"aluno"`
	Disciplina      disciplina.Disciplina  `json:"disciplina"`
	Conceito1       *float64               `json:"conceito1,omitempty"`
	Conceito2       *float64               `json:"conceito2,omitempty"`
	ConceitoParcial *float64               `json:"conceitoParcial,omitempty"`
	ConceitoRec     *float64               `json:"conceitoRec,omitempty"`
	ConceitoFinal   *float64               `json:"conceitoFinal,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
}

// SaveConceito is one entry of the batch upsert payload.
type SaveConceito struct {
	Aluno           string   `json:"aluno" validate:"required,objectid"`
	Disciplina      string   `json:"disciplina" validate:"required,objectid"`
	Conceito1       *float64 `json:"conceito1"`
	Conceito2       *float64 `json:"conceito2"`
	ConceitoParcial *float64 `json:"conceitoParcial"`
	ConceitoRec     *float64 `json:"conceitoRec"`
	ConceitoFinal   *float64 `json:"conceitoFinal"`
}

func (sc *SaveConceito) Validate(ctx context.Context) error {
	return core.Validate.StructCtx(ctx, sc)
}

// UpdateConceito carries the five grade fields for an in-place overwrite.
type UpdateConceito struct {
	Conceito1       *float64 `json:"conceito1"`
	Conceito2       *float64 `json:"conceito2"`
	ConceitoParcial *float64 `json:"conceitoParcial"`
	ConceitoRec     *float64 `json:"conceitoRec"`
	ConceitoFinal   *float64 `json:"conceitoFinal"`
}
