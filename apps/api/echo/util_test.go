package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mediotec/portal-api/core"
	"github.com/mediotec/portal-api/core/comunicado"
	"github.com/mediotec/portal-api/core/conceito"
	"github.com/mediotec/portal-api/core/disciplina"
	"github.com/mediotec/portal-api/core/turma"
	"github.com/mediotec/portal-api/core/user"
	emailsvc "github.com/mediotec/portal-api/services/email"
	logsvc "github.com/mediotec/portal-api/services/logger"
	"github.com/mediotec/portal-api/storage/inmem"
)

var (
	db             *inmem.DB
	usrRepo        user.Repository
	turmaRepo      turma.Repository
	disciplinaRepo disciplina.Repository
	conceitoRepo   conceito.Repository
	comunicadoRepo comunicado.Repository

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
	errNotAuthed    = httpErr{Error: "user not authenticated"}
)

func TestMain(m *testing.M) {
	core.Conf.Debug = false
	core.Conf.TestMode = true
	os.Exit(m.Run())
}

func setup(t *testing.T) Server {
	t.Helper()

	db = inmem.NewDB()
	usrRepo = inmem.NewUserRepository(db)
	tRepo := inmem.NewTurmaRepository(db)
	turmaRepo = tRepo
	disciplinaRepo = inmem.NewDisciplinaRepository(db)
	conceitoRepo = inmem.NewConceitoRepository(db)
	comunicadoRepo = inmem.NewComunicadoRepository(db)

	mailSvc := emailsvc.NewConsoleServiceMock()

	return NewServer(&Options{
		DisableReqLogs: true,
		Logger:         logsvc.NewStdLogger(log.New(io.Discard, "", 0)),

		UserSvc:       user.NewService(usrRepo, mailSvc),
		TurmaSvc:      turma.NewService(tRepo),
		DisciplinaSvc: disciplina.NewService(disciplinaRepo, tRepo, usrRepo),
		ConceitoSvc:   conceito.NewService(conceitoRepo),
		ComunicadoSvc: comunicado.NewService(comunicadoRepo),
	})
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := GenerateToken(GetUserClaims(usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func createUser(t *testing.T, nome, email, tipo, pwd string) user.User {
	t.Helper()
	usr := user.User{
		Nome:      nome,
		Email:     email,
		Tipo:      tipo,
		CreatedAt: time.Now().UTC(),
	}
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	usr, err := usrRepo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func createTurma(t *testing.T, nome string, ano int, serie string) turma.Turma {
	t.Helper()
	tm, err := turmaRepo.CreateTurma(context.Background(), turma.Turma{
		Nome:        nome,
		Ano:         ano,
		Serie:       serie,
		Alunos:      []string{},
		Disciplinas: []string{},
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("createTurma() failed: %v", err)
	}
	return tm
}

func createDisciplina(t *testing.T, nome string) disciplina.Disciplina {
	t.Helper()
	d, err := disciplinaRepo.CreateDisciplina(context.Background(), disciplina.Disciplina{
		Nome:      nome,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("createDisciplina() failed: %v", err)
	}
	return d
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj() failed: %v", err)
	}
	return data
}

func marshalList(t *testing.T, objs ...interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marshalList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func runTests(t *testing.T, server Server, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
			server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

// checkCodeAndData compares the status code and, when wantData is set, the body.
func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	wantCode := tt.wantCode
	if wantCode == 0 {
		wantCode = http.StatusOK
	}
	if rec.Code != wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, wantCode, rec.Body.String())
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
