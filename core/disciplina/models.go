package disciplina

import (
	"context"
	"time"

	"github.com/mediotec/portal-api/core"
)

type Disciplina struct {
	ID        string    `json:"id"`
	Nome      string    `json:"nome"`
	Professor string    `json:"professor,omitempty"`
	Turma     string    `json:"turma,omitempty"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// Ref is a populated reference carrying only the fields the listing endpoints expose.
type Ref struct {
	ID   string `json:"id"`
	Nome string `json:"nome"`
}

// Detail is a Disciplina with its references populated.
type Detail struct {
	ID        string    `json:"id"`
	Nome      string    `json:"nome"`
	Professor *Ref      `json:"professor,omitempty"`
	Turma     *Ref      `json:"turma,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewDisciplina contains information needed to create a new Disciplina.
// Professor and Turma are optional single references.
type NewDisciplina struct {
	Nome      string `json:"nome" validate:"required"`
	Professor string `json:"professor" validate:"omitempty,objectid"`
	Turma     string `json:"turma" validate:"omitempty,objectid"`
}

func (nd *NewDisciplina) Validate(ctx context.Context) error {
	nd.Nome = core.CleanString(nd.Nome)
	return core.Validate.StructCtx(ctx, nd)
}

// UpdateDisciplina defines what information may be provided to modify an existing Disciplina.
type UpdateDisciplina struct {
	Nome      string `json:"nome"`
	Professor string `json:"professor" validate:"omitempty,objectid"`
	Turma     string `json:"turma" validate:"omitempty,objectid"`
}

func (ud *UpdateDisciplina) Validate(ctx context.Context, orig Disciplina) error {
	ud.Nome = core.CleanString(ud.Nome)
	if ud.Nome == "" {
		ud.Nome = orig.Nome
	}
	return core.Validate.StructCtx(ctx, ud)
}
