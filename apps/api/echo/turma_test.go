package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/mediotec/portal-api/core/turma"
	"github.com/mediotec/portal-api/core/user"
)

func Test_turmaApi_create(t *testing.T) {
	server := setup(t)

	coord := createUser(t, "Ana Souza", "ana@mediotec.br", user.TipoCoordenador, "s3cr3t!")
	aluno := createUser(t, "Duda Reis", "duda@mediotec.br", user.TipoAluno, "s3cr3t!")
	token := getToken(t, coord)

	createTurma(t, "Informática 1A", 2024, turma.SeriePrimeiroAno)

	tests := []httpTest{
		{name: "auth required", method: http.MethodPost, path: "/api/turmas", wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)},
		{
			name: "coordenador required", method: http.MethodPost, path: "/api/turmas", token: getToken(t, aluno),
			wantCode: http.StatusForbidden, wantData: marshalObj(t, errForbidden),
		},
		{
			name: "invalid serie", method: http.MethodPost, path: "/api/turmas", token: token,
			body:     marshalObj(t, turma.NewTurma{Nome: "Redes 1B", Ano: 2024, Serie: "4º Ano"}),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "duplicate nome", method: http.MethodPost, path: "/api/turmas", token: token,
			body:     marshalObj(t, turma.NewTurma{Nome: "Informática 1A", Ano: 2024, Serie: turma.SeriePrimeiroAno}),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"nome": "a turma with this nome already exists"}),
		},
		{
			name: "malformed aluno id", method: http.MethodPost, path: "/api/turmas", token: token,
			body:     marshalObj(t, turma.NewTurma{Nome: "Redes 1B", Ano: 2024, Serie: turma.SeriePrimeiroAno, Alunos: []string{"nope"}}),
			wantCode: http.StatusBadRequest,
		},
	}
	runTests(t, server, tests)

	t.Run("creates with deduped members", func(t *testing.T) {
		body := marshalObj(t, turma.NewTurma{
			Nome:   "Redes 1B",
			Ano:    2024,
			Serie:  turma.SeriePrimeiroAno,
			Alunos: []string{aluno.ID, aluno.ID},
		})
		req, rec := newAuthRequest(http.MethodPost, "/api/turmas", token, body)
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		var created turma.Turma
		if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
			t.Fatalf("unmarshalling Turma: %v", err)
		}
		if len(created.Alunos) != 1 {
			t.Errorf("alunos = %v; want a single entry", created.Alunos)
		}
	})
}

func Test_turmaApi_memberOps(t *testing.T) {
	server := setup(t)

	coord := createUser(t, "Ana Souza", "ana@mediotec.br", user.TipoCoordenador, "s3cr3t!")
	aluno1 := createUser(t, "Duda Reis", "duda@mediotec.br", user.TipoAluno, "s3cr3t!")
	aluno2 := createUser(t, "Edu Pinto", "edu@mediotec.br", user.TipoAluno, "s3cr3t!")
	token := getToken(t, coord)

	tm := createTurma(t, "Informática 1A", 2024, turma.SeriePrimeiroAno)

	addAlunos := func(ids ...string) turma.Turma {
		req, rec := newAuthRequest(http.MethodPut, "/api/turmas/"+tm.ID+"/alunos", token, marshalObj(t, MembersRequest{IDs: ids}))
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("addAlunos failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		var out turma.Turma
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("unmarshalling Turma: %v", err)
		}
		return out
	}

	t.Run("add is a set union", func(t *testing.T) {
		if got := addAlunos(aluno1.ID, aluno2.ID); len(got.Alunos) != 2 {
			t.Errorf("alunos = %v; want 2 entries", got.Alunos)
		}
		// re-adding an existing member is a silent no-op
		if got := addAlunos(aluno1.ID); len(got.Alunos) != 2 {
			t.Errorf("alunos = %v; want 2 entries after duplicate add", got.Alunos)
		}
	})

	t.Run("remove is a set difference", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/turmas/"+tm.ID+"/alunos", token,
			marshalObj(t, MembersRequest{IDs: []string{aluno1.ID, "60c72b2f9b1e8b3a3c8d6e10" /* absent */}}))
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		var out turma.Turma
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("unmarshalling Turma: %v", err)
		}
		if len(out.Alunos) != 1 || out.Alunos[0] != aluno2.ID {
			t.Errorf("alunos = %v; want [%v]", out.Alunos, aluno2.ID)
		}
	})

	tests := []httpTest{
		{
			name: "malformed turma id", method: http.MethodPut, path: "/api/turmas/nope/alunos", token: token,
			body: marshalObj(t, MembersRequest{IDs: []string{aluno1.ID}}), wantCode: http.StatusBadRequest,
		},
		{
			name: "malformed member id", method: http.MethodPut, path: "/api/turmas/" + tm.ID + "/alunos", token: token,
			body: marshalObj(t, MembersRequest{IDs: []string{"nope"}}), wantCode: http.StatusBadRequest,
		},
		{
			name: "missing turma", method: http.MethodPut, path: "/api/turmas/60c72b2f9b1e8b3a3c8d6e10/alunos", token: token,
			body:     marshalObj(t, MembersRequest{IDs: []string{aluno1.ID}}),
			wantCode: http.StatusNotFound, wantData: marshalObj(t, httpErr{Error: "turma not found"}),
		},
	}
	runTests(t, server, tests)

	t.Run("detail and alunos listing are populated", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/turmas/"+tm.ID, token)
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		var detail turma.Detail
		if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
			t.Fatalf("unmarshalling Detail: %v", err)
		}
		if len(detail.Alunos) != 1 || detail.Alunos[0].ID != aluno2.ID {
			t.Errorf("alunos = %+v; want [%v]", detail.Alunos, aluno2.ID)
		}

		req, rec = newAuthRequest(http.MethodGet, "/api/turmas/"+tm.ID+"/alunos", token)
		server.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusOK, wantData: marshalList(t, aluno2)}
		checkCodeAndData(t, tt, rec)
	})
}

func Test_turmaApi_deleteHasNoCascade(t *testing.T) {
	server := setup(t)

	coord := createUser(t, "Ana Souza", "ana@mediotec.br", user.TipoCoordenador, "s3cr3t!")
	token := getToken(t, coord)

	tm := createTurma(t, "Informática 1A", 2024, turma.SeriePrimeiroAno)
	d := createDisciplina(t, "Banco de Dados")

	// link both ways
	req, rec := newAuthRequest(http.MethodPut, "/api/disciplinas/"+d.ID+"/turma", token, marshalObj(t, RefRequest{ID: tm.ID}))
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("linking turma failed! code = %v; body %s", rec.Code, rec.Body.String())
	}

	req, rec = newAuthRequest(http.MethodDelete, "/api/turmas/"+tm.ID, token)
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete failed! code = %v; body %s", rec.Code, rec.Body.String())
	}

	// the disciplina keeps its dangling reference; reads tolerate it
	req, rec = newAuthRequest(http.MethodGet, "/api/disciplinas/"+d.ID, token)
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("disciplina read failed! code = %v; body %s", rec.Code, rec.Body.String())
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshalling Detail: %v", err)
	}
	if _, ok := body["turma"]; ok {
		t.Errorf("dangling turma ref should not populate: %v", body)
	}
}
