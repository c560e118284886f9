package comunicado

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/mediotec/portal-api/core"
)

var (
	// errors
	ErrNotFound     = errors.New("comunicado not found")
	ErrTituloExists = errors.New("a comunicado with this titulo already exists")
)

type (
	Repository interface {
		CheckTituloUniqueness(ctx context.Context, titulo string, excluded ...Comunicado) error
		CreateComunicado(ctx context.Context, c Comunicado) (Comunicado, error)
		QueryAllComunicados(ctx context.Context) ([]Comunicado, error)
		QueryComunicadosByUser(ctx context.Context, userID string) ([]Comunicado, error)
		GetComunicadoByID(ctx context.Context, id string) (Comunicado, error)
		UpdateComunicado(ctx context.Context, c Comunicado) (Comunicado, error)
		DeleteComunicado(ctx context.Context, id string) error
	}

	Service interface {
		CheckUniqueness(ctx context.Context, titulo string, excl ...Comunicado) error
		Create(ctx context.Context, nc NewComunicado) (Comunicado, error)
		QueryAll(ctx context.Context) ([]Comunicado, error)
		QueryByUser(ctx context.Context, userID string) ([]Comunicado, error)
		GetByID(ctx context.Context, id string) (Comunicado, error)
		Update(ctx context.Context, id string, uc UpdateComunicado) (Comunicado, error)
		Delete(ctx context.Context, id string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) CheckUniqueness(ctx context.Context, titulo string, excl ...Comunicado) error {
	if err := svc.repo.CheckTituloUniqueness(ctx, titulo, excl...); err != nil {
		if err == ErrTituloExists {
			return core.NewValidationError(err, core.FieldError{Field: "titulo", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) Create(ctx context.Context, nc NewComunicado) (Comunicado, error) {
	c := Comunicado{
		Titulo:    nc.Titulo,
		Conteudo:  nc.Conteudo,
		User:      nc.User,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateComunicado(ctx, c)
}

func (svc *service) QueryAll(ctx context.Context) ([]Comunicado, error) {
	return svc.repo.QueryAllComunicados(ctx)
}

func (svc *service) QueryByUser(ctx context.Context, userID string) ([]Comunicado, error) {
	return svc.repo.QueryComunicadosByUser(ctx, userID)
}

func (svc *service) GetByID(ctx context.Context, id string) (Comunicado, error) {
	return svc.repo.GetComunicadoByID(ctx, id)
}

func (svc *service) Update(ctx context.Context, id string, uc UpdateComunicado) (Comunicado, error) {
	c, err := svc.repo.GetComunicadoByID(ctx, id)
	if err != nil {
		return Comunicado{}, err
	}
	c.Titulo = uc.Titulo
	c.Conteudo = uc.Conteudo
	return svc.repo.UpdateComunicado(ctx, c)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteComunicado(ctx, id)
}
