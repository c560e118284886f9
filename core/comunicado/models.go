package comunicado

import (
	"context"
	"time"

	"github.com/mediotec/portal-api/core"
)

// Comunicado is an announcement record owned by a user.
type Comunicado struct {
	ID        string    `json:"id"`
	Titulo    string    `json:"titulo"`
	Conteudo  string    `json:"conteudo"`
	User      string    `json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// NewComunicado contains information needed to create a new Comunicado.
type NewComunicado struct {
	Titulo   string `json:"titulo" validate:"required"`
	Conteudo string `json:"conteudo" validate:"required"`
	User     string `json:"user" validate:"omitempty,objectid"`
}

func (nc *NewComunicado) Validate(ctx context.Context, svc Service) error {
	nc.Titulo = core.CleanString(nc.Titulo)
	if err := core.Validate.StructCtx(ctx, nc); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, nc.Titulo)
}

// UpdateComunicado defines what information may be provided to modify an
// existing Comunicado.
type UpdateComunicado struct {
	Titulo   string `json:"titulo"`
	Conteudo string `json:"conteudo"`
}

func (uc *UpdateComunicado) Validate(ctx context.Context, orig Comunicado, svc Service) error {
	uc.Titulo = core.CleanString(uc.Titulo)
	if uc.Titulo == "" {
		uc.Titulo = orig.Titulo
	}
	if uc.Conteudo == "" {
		uc.Conteudo = orig.Conteudo
	}
	return svc.CheckUniqueness(ctx, uc.Titulo, orig)
}
