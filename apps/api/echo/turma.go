package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mediotec/portal-api/core/turma"
	"github.com/mediotec/portal-api/core/user"
)

type turmaApi struct {
	svc turma.Service
}

func registerTurmaAPI(g *echo.Group, svc turma.Service, jwt, resolveUser, coord echo.MiddlewareFunc) {
	api := turmaApi{svc: svc}

	tg := g.Group("/turmas", jwt, resolveUser, coord)
	tg.POST("", api.create)
	tg.GET("", api.query)
	tg.GET("/:id", api.retrieve)
	tg.PUT("/:id", api.update)
	tg.DELETE("/:id", api.destroy)
	tg.GET("/:id/alunos", api.queryAlunos)
	tg.PUT("/:id/alunos", api.addAlunos)
	tg.DELETE("/:id/alunos", api.removeAlunos)
	tg.PUT("/:id/disciplinas", api.addDisciplinas)
	tg.DELETE("/:id/disciplinas", api.removeDisciplinas)
}

// Handlers

func (api *turmaApi) create(ctx echo.Context) error {
	var data turma.NewTurma
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTurma")
	}
	if err := data.Validate(ctx.Request().Context(), api.svc); err != nil {
		return err
	}

	t, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating turma")
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *turmaApi) query(ctx echo.Context) error {
	turmas, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying turmas")
	}
	if turmas == nil {
		turmas = []turma.Detail{}
	}
	return ctx.JSON(http.StatusOK, turmas)
}

func (api *turmaApi) retrieve(ctx echo.Context) error {
	t, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *turmaApi) update(ctx echo.Context) error {
	orig, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	var data turma.UpdateTurma
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTurma")
	}
	if err := data.Validate(ctx.Request().Context(), turma.Turma{ID: orig.ID, Nome: orig.Nome, Ano: orig.Ano, Serie: orig.Serie}, api.svc); err != nil {
		return err
	}

	t, err := api.svc.Update(ctx.Request().Context(), orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating turma")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *turmaApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting turma")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *turmaApi) queryAlunos(ctx echo.Context) error {
	alunos, err := api.svc.GetAlunos(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if alunos == nil {
		alunos = []user.User{}
	}
	return ctx.JSON(http.StatusOK, alunos)
}

func (api *turmaApi) addAlunos(ctx echo.Context) error {
	return api.mutateMembers(ctx, api.svc.AddAlunos)
}

func (api *turmaApi) removeAlunos(ctx echo.Context) error {
	return api.mutateMembers(ctx, api.svc.RemoveAlunos)
}

func (api *turmaApi) addDisciplinas(ctx echo.Context) error {
	return api.mutateMembers(ctx, api.svc.AddDisciplinas)
}

func (api *turmaApi) removeDisciplinas(ctx echo.Context) error {
	return api.mutateMembers(ctx, api.svc.RemoveDisciplinas)
}

func (api *turmaApi) mutateMembers(
	ctx echo.Context,
	op func(c context.Context, id string, ids []string) (turma.Turma, error),
) error {
	var data MembersRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MembersRequest")
	}

	t, err := op(ctx.Request().Context(), ctx.Param("id"), data.IDs)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, t)
}

// MembersRequest carries the membership ids of an array mutation.
type MembersRequest struct {
	IDs []string `json:"ids"`
}
