package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mediotec/portal-api/core/comunicado"
	"github.com/mediotec/portal-api/core/user"
)

type comunicadoApi struct {
	svc    comunicado.Service
	usrSvc user.Service
}

// registerComunicadoAPI wires the announcement endpoints. They are open,
// matching the portal frontend which renders them on the public landing page.
func registerComunicadoAPI(g *echo.Group, svc comunicado.Service, usrSvc user.Service) {
	api := comunicadoApi{svc: svc, usrSvc: usrSvc}

	cg := g.Group("/comunicados")
	cg.POST("", api.create)
	cg.GET("", api.query)
	cg.GET("/:id", api.retrieve)
	cg.GET("/user/:userId", api.queryByUser)
	cg.PUT("/:id", api.update)
	cg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *comunicadoApi) create(ctx echo.Context) error {
	var data comunicado.NewComunicado
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewComunicado")
	}
	if err := data.Validate(ctx.Request().Context(), api.svc); err != nil {
		return err
	}

	c, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating comunicado")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *comunicadoApi) query(ctx echo.Context) error {
	comunicados, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying comunicados")
	}
	if comunicados == nil {
		comunicados = []comunicado.Comunicado{}
	}
	return ctx.JSON(http.StatusOK, comunicados)
}

func (api *comunicadoApi) queryByUser(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	if _, err := api.usrSvc.GetByID(reqCtx, ctx.Param("userId")); err != nil {
		return err
	}

	comunicados, err := api.svc.QueryByUser(reqCtx, ctx.Param("userId"))
	if err != nil {
		return errors.Wrap(err, "querying comunicados by user")
	}
	if comunicados == nil {
		comunicados = []comunicado.Comunicado{}
	}
	return ctx.JSON(http.StatusOK, comunicados)
}

func (api *comunicadoApi) retrieve(ctx echo.Context) error {
	c, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *comunicadoApi) update(ctx echo.Context) error {
	orig, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	var data comunicado.UpdateComunicado
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateComunicado")
	}
	if err := data.Validate(ctx.Request().Context(), orig, api.svc); err != nil {
		return err
	}

	c, err := api.svc.Update(ctx.Request().Context(), orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating comunicado")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *comunicadoApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting comunicado")
	}
	return ctx.NoContent(http.StatusNoContent)
}
