package main

import (
	"context"
	"fmt"
	"log"
	"os"

	echoapi "github.com/mediotec/portal-api/apps/api/echo"
	"github.com/mediotec/portal-api/core"
	"github.com/mediotec/portal-api/core/comunicado"
	"github.com/mediotec/portal-api/core/conceito"
	"github.com/mediotec/portal-api/core/disciplina"
	"github.com/mediotec/portal-api/core/turma"
	"github.com/mediotec/portal-api/core/user"
	emailsvc "github.com/mediotec/portal-api/services/email"
	logsvc "github.com/mediotec/portal-api/services/logger"
	"github.com/mediotec/portal-api/storage/mongodb"
)

func main() {
	conf := core.Conf
	ctx := context.Background()

	// set up loggers
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	var logger core.Logger
	if conf.Debug {
		logger = logsvc.NewStdLogger(std)
	} else {
		rlogger := logsvc.NewRollbarLogger(std, conf)
		rlogger.Enable(true)
		logger = rlogger
	}

	// set up DB
	db, err := mongodb.Open(ctx, conf)
	if err != nil {
		log.Fatalf("setting up database: %+v", err)
	}
	defer func() {
		if err := db.Close(ctx); err != nil {
			logger.Error(fmt.Sprintf("closing database: %v", err), err)
		}
	}()
	if err := db.EnsureIndexes(ctx); err != nil {
		log.Fatalf("ensuring indexes: %+v", err)
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	usrRepo := mongodb.NewUserRepository(db)
	turmaRepo := mongodb.NewTurmaRepository(db)

	usrSvc := user.NewService(usrRepo, mailSvc)
	turmaSvc := turma.NewService(turmaRepo)
	disciplinaSvc := disciplina.NewService(mongodb.NewDisciplinaRepository(db), turmaRepo, usrRepo)
	conceitoSvc := conceito.NewService(mongodb.NewConceitoRepository(db))
	comunicadoSvc := comunicado.NewService(mongodb.NewComunicadoRepository(db))

	logger.Info(fmt.Sprintf("Application initializing : version %q : env %s", conf.Build, conf.Env))
	defer logger.Info("Application stopped")

	// start API server
	server := echoapi.NewServer(&echoapi.Options{
		Address:        conf.Server.Address(),
		DisableReqLogs: conf.Server.DisableRequestLogs,
		Logger:         logger,

		UserSvc:       usrSvc,
		TurmaSvc:      turmaSvc,
		DisciplinaSvc: disciplinaSvc,
		ConceitoSvc:   conceitoSvc,
		ComunicadoSvc: comunicadoSvc,
	})

	go server.Start()

	// shutdown
	select {
	case err := <-server.Errors():
		logger.Error(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: start shutdown...", sig))

		shutCtx, cancel := context.WithTimeout(ctx, conf.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Stop(shutCtx); err != nil {
			logger.Error(fmt.Sprintf("graceful shutdown did not complete in %v: %v", conf.Server.ShutdownTimeout, err), err)
		}
	}
}
