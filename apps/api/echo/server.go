package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/mediotec/portal-api/core"
	"github.com/mediotec/portal-api/core/comunicado"
	"github.com/mediotec/portal-api/core/conceito"
	"github.com/mediotec/portal-api/core/disciplina"
	"github.com/mediotec/portal-api/core/turma"
	"github.com/mediotec/portal-api/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool
		Logger         core.Logger

		UserSvc       user.Service
		TurmaSvc      turma.Service
		DisciplinaSvc disciplina.Service
		ConceitoSvc   conceito.Service
		ComunicadoSvc comunicado.Service
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORS())

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = core.Conf.Debug

	s.app.GET("/", home)

	api := s.app.Group("/api")
	jwt := middleware.JWTWithConfig(appJWTConfig)
	resolveUser := resolveUserMiddleware(s.opts.UserSvc)
	coord := coordenadorMiddleware()
	staff := staffMiddleware()

	registerAuthAPI(api, s.opts.UserSvc)
	registerUserAPI(api, s.opts.UserSvc, jwt, resolveUser, coord)
	registerTurmaAPI(api, s.opts.TurmaSvc, jwt, resolveUser, coord)
	registerDisciplinaAPI(api, s.opts.DisciplinaSvc, jwt, resolveUser, coord)
	registerConceitoAPI(api, s.opts.ConceitoSvc, jwt, resolveUser, staff)
	registerComunicadoAPI(api, s.opts.ComunicadoSvc, s.opts.UserSvc)
}

func (s *server) Start() {
	if err := s.app.Start(s.opts.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Errors() <-chan error {
	return s.errors
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to the MedioTEC Portal API!")
}
