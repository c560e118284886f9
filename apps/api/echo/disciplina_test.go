package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/mediotec/portal-api/core/disciplina"
	"github.com/mediotec/portal-api/core/turma"
	"github.com/mediotec/portal-api/core/user"
)

func Test_disciplinaApi_create(t *testing.T) {
	server := setup(t)

	coord := createUser(t, "Ana Souza", "ana@mediotec.br", user.TipoCoordenador, "s3cr3t!")
	aluno := createUser(t, "Duda Reis", "duda@mediotec.br", user.TipoAluno, "s3cr3t!")
	token := getToken(t, coord)

	tm := createTurma(t, "Informática 1A", 2024, turma.SeriePrimeiroAno)

	tests := []httpTest{
		{name: "auth required", method: http.MethodPost, path: "/api/disciplinas", wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)},
		{
			name: "coordenador required", method: http.MethodPost, path: "/api/disciplinas", token: getToken(t, aluno),
			wantCode: http.StatusForbidden, wantData: marshalObj(t, errForbidden),
		},
		{
			name: "nome required", method: http.MethodPost, path: "/api/disciplinas", token: token,
			body: marshalObj(t, disciplina.NewDisciplina{}), wantCode: http.StatusBadRequest,
		},
		{
			name: "malformed turma ref", method: http.MethodPost, path: "/api/disciplinas", token: token,
			body: marshalObj(t, disciplina.NewDisciplina{Nome: "Lógica", Turma: "nope"}), wantCode: http.StatusBadRequest,
		},
	}
	runTests(t, server, tests)

	t.Run("create links onto the turma", func(t *testing.T) {
		body := marshalObj(t, disciplina.NewDisciplina{Nome: "Banco de Dados", Turma: tm.ID})
		req, rec := newAuthRequest(http.MethodPost, "/api/disciplinas", token, body)
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		var created disciplina.Disciplina
		if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
			t.Fatalf("unmarshalling Disciplina: %v", err)
		}

		got, err := turmaRepo.GetTurma(context.Background(), tm.ID)
		if err != nil {
			t.Fatalf("reading turma: %v", err)
		}
		if len(got.Disciplinas) != 1 || got.Disciplinas[0] != created.ID {
			t.Errorf("turma.disciplinas = %v; want [%v]", got.Disciplinas, created.ID)
		}
	})

	t.Run("missing turma leaves an orphan", func(t *testing.T) {
		body := marshalObj(t, disciplina.NewDisciplina{Nome: "Redes", Turma: "60c72b2f9b1e8b3a3c8d6e10"})
		req, rec := newAuthRequest(http.MethodPost, "/api/disciplinas", token, body)
		server.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusNotFound, wantData: marshalObj(t, httpErr{Error: "turma not found"})}
		checkCodeAndData(t, tt, rec)

		// the insert is not rolled back
		all, err := disciplinaRepo.QueryAllDisciplinas(context.Background())
		if err != nil {
			t.Fatalf("querying disciplinas: %v", err)
		}
		var found bool
		for _, d := range all {
			if d.Nome == "Redes" {
				found = true
				break
			}
		}
		if !found {
			t.Error("orphan disciplina was not persisted")
		}
	})
}

func Test_disciplinaApi_professorOps(t *testing.T) {
	server := setup(t)

	coord := createUser(t, "Ana Souza", "ana@mediotec.br", user.TipoCoordenador, "s3cr3t!")
	prof := createUser(t, "Caio Melo", "caio@mediotec.br", user.TipoProfessor, "s3cr3t!")
	aluno := createUser(t, "Duda Reis", "duda@mediotec.br", user.TipoAluno, "s3cr3t!")
	token := getToken(t, coord)

	d := createDisciplina(t, "Banco de Dados")

	tests := []httpTest{
		{
			name: "malformed disciplina id", method: http.MethodPut, path: "/api/disciplinas/nope/professor", token: token,
			body: marshalObj(t, RefRequest{ID: prof.ID}), wantCode: http.StatusBadRequest,
		},
		{
			name: "unknown professor", method: http.MethodPut, path: "/api/disciplinas/" + d.ID + "/professor", token: token,
			body:     marshalObj(t, RefRequest{ID: "60c72b2f9b1e8b3a3c8d6e10"}),
			wantCode: http.StatusNotFound, wantData: marshalObj(t, httpErr{Error: "professor not found"}),
		},
		{
			name: "aluno is not a professor", method: http.MethodPut, path: "/api/disciplinas/" + d.ID + "/professor", token: token,
			body:     marshalObj(t, RefRequest{ID: aluno.ID}),
			wantCode: http.StatusNotFound, wantData: marshalObj(t, httpErr{Error: "professor not found"}),
		},
	}
	runTests(t, server, tests)

	t.Run("assign and unassign", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/api/disciplinas/"+d.ID+"/professor", token, marshalObj(t, RefRequest{ID: prof.ID}))
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("assign failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		var out disciplina.Disciplina
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("unmarshalling Disciplina: %v", err)
		}
		if out.Professor != prof.ID {
			t.Errorf("professor = %v; want %v", out.Professor, prof.ID)
		}

		// listing by professor picks it up, populated with nome
		req, rec = newAuthRequest(http.MethodGet, "/api/disciplinas/professor/"+prof.ID, token)
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("listing failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		var details []disciplina.Detail
		if err := json.Unmarshal(rec.Body.Bytes(), &details); err != nil {
			t.Fatalf("unmarshalling []Detail: %v", err)
		}
		if len(details) != 1 || details[0].Professor == nil || details[0].Professor.Nome != prof.Nome {
			t.Errorf("details = %+v; want one entry with professor %q", details, prof.Nome)
		}

		req, rec = newAuthRequest(http.MethodDelete, "/api/disciplinas/"+d.ID+"/professor", token)
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("unassign failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("unmarshalling Disciplina: %v", err)
		}
		if out.Professor != "" {
			t.Errorf("professor = %v; want cleared", out.Professor)
		}
	})

	t.Run("reads are open to any authenticated user", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/disciplinas", getToken(t, aluno))
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
	})
}
