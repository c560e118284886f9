package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mediotec/portal-api/core/disciplina"
)

type disciplinaApi struct {
	svc disciplina.Service
}

func registerDisciplinaAPI(g *echo.Group, svc disciplina.Service, jwt, resolveUser, coord echo.MiddlewareFunc) {
	api := disciplinaApi{svc: svc}

	dg := g.Group("/disciplinas", jwt, resolveUser)

	// reads are open to any authenticated user
	dg.GET("", api.query)
	dg.GET("/:id", api.retrieve)
	dg.GET("/professor/:professorId", api.queryByProfessor)

	// writes require a coordenador
	cg := dg.Group("", coord)
	cg.POST("", api.create)
	cg.PUT("/:id", api.update)
	cg.DELETE("/:id", api.destroy)
	cg.PUT("/:id/professor", api.addProfessor)
	cg.DELETE("/:id/professor", api.removeProfessor)
	cg.PUT("/:id/turma", api.addTurma)
	cg.DELETE("/:id/turma", api.removeTurma)
}

// Handlers

func (api *disciplinaApi) create(ctx echo.Context) error {
	var data disciplina.NewDisciplina
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDisciplina")
	}
	if err := data.Validate(ctx.Request().Context()); err != nil {
		return err
	}

	d, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, d)
}

func (api *disciplinaApi) query(ctx echo.Context) error {
	disciplinas, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying disciplinas")
	}
	if disciplinas == nil {
		disciplinas = []disciplina.Detail{}
	}
	return ctx.JSON(http.StatusOK, disciplinas)
}

func (api *disciplinaApi) queryByProfessor(ctx echo.Context) error {
	disciplinas, err := api.svc.QueryByProfessor(ctx.Request().Context(), ctx.Param("professorId"))
	if err != nil {
		return err
	}
	if disciplinas == nil {
		disciplinas = []disciplina.Detail{}
	}
	return ctx.JSON(http.StatusOK, disciplinas)
}

func (api *disciplinaApi) retrieve(ctx echo.Context) error {
	d, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, d)
}

func (api *disciplinaApi) update(ctx echo.Context) error {
	orig, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	var data disciplina.UpdateDisciplina
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateDisciplina")
	}
	if err := data.Validate(ctx.Request().Context(), disciplina.Disciplina{ID: orig.ID, Nome: orig.Nome}); err != nil {
		return err
	}

	d, err := api.svc.Update(ctx.Request().Context(), orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating disciplina")
	}
	return ctx.JSON(http.StatusOK, d)
}

func (api *disciplinaApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting disciplina")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *disciplinaApi) addProfessor(ctx echo.Context) error {
	var data RefRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RefRequest")
	}

	d, err := api.svc.AddProfessor(ctx.Request().Context(), ctx.Param("id"), data.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, d)
}

func (api *disciplinaApi) removeProfessor(ctx echo.Context) error {
	d, err := api.svc.RemoveProfessor(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, d)
}

func (api *disciplinaApi) addTurma(ctx echo.Context) error {
	var data RefRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RefRequest")
	}

	d, err := api.svc.AddTurma(ctx.Request().Context(), ctx.Param("id"), data.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, d)
}

func (api *disciplinaApi) removeTurma(ctx echo.Context) error {
	d, err := api.svc.RemoveTurma(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, d)
}

// RefRequest carries the id of a single-reference mutation.
type RefRequest struct {
	ID string `json:"id"`
}
