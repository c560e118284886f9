package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mediotec/portal-api/core/conceito"
)

type conceitoApi struct {
	svc conceito.Service
}

func registerConceitoAPI(g *echo.Group, svc conceito.Service, jwt, resolveUser, staff echo.MiddlewareFunc) {
	api := conceitoApi{svc: svc}

	cg := g.Group("/conceitos", jwt, resolveUser)
	cg.GET("", api.query)
	cg.GET("/:id", api.retrieve)
	cg.GET("/aluno/:alunoId", api.queryByAluno)
	cg.PUT("/:id", api.update)
	cg.DELETE("/:id", api.destroy)

	// grade submission is restricted to staff
	cg.POST("", api.saveAll, staff)
}

// Handlers

// saveAll accepts a JSON array of entries and upserts each one on its
// (aluno, disciplina) key.
func (api *conceitoApi) saveAll(ctx echo.Context) error {
	var entries []conceito.SaveConceito
	if err := ctx.Bind(&entries); err != nil {
		return errors.Wrap(err, "binding to []SaveConceito")
	}

	saved, err := api.svc.SaveAll(ctx.Request().Context(), entries)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, saved)
}

func (api *conceitoApi) query(ctx echo.Context) error {
	conceitos, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying conceitos")
	}
	if conceitos == nil {
		conceitos = []conceito.Detail{}
	}
	return ctx.JSON(http.StatusOK, conceitos)
}

func (api *conceitoApi) queryByAluno(ctx echo.Context) error {
	conceitos, err := api.svc.QueryByAluno(ctx.Request().Context(), ctx.Param("alunoId"), ctx.QueryParam("disciplina"))
	if err != nil {
		return err
	}
	if conceitos == nil {
		conceitos = []conceito.Detail{}
	}
	return ctx.JSON(http.StatusOK, conceitos)
}

func (api *conceitoApi) retrieve(ctx echo.Context) error {
	c, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *conceitoApi) update(ctx echo.Context) error {
	var data conceito.UpdateConceito
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateConceito")
	}

	c, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *conceitoApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
