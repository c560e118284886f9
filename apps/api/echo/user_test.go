package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/mediotec/portal-api/core/user"
)

func Test_userApi_roleGates(t *testing.T) {
	server := setup(t)

	coord := createUser(t, "Ana Souza", "ana@mediotec.br", user.TipoCoordenador, "s3cr3t!")
	prof := createUser(t, "Caio Melo", "caio@mediotec.br", user.TipoProfessor, "s3cr3t!")
	aluno := createUser(t, "Duda Reis", "duda@mediotec.br", user.TipoAluno, "s3cr3t!")

	// a token whose subject no longer resolves must not pass the general gate
	ghost := createUser(t, "Ghost", "ghost@mediotec.br", user.TipoCoordenador, "s3cr3t!")
	ghostToken := getToken(t, ghost)
	if err := usrRepo.DeleteUser(context.Background(), ghost.ID); err != nil {
		t.Fatalf("deleting ghost: %v", err)
	}

	tests := []httpTest{
		{name: "auth required", path: "/api/users", wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)},
		{name: "garbage token", path: "/api/users", token: "not-a-jwt", wantCode: http.StatusUnauthorized},
		{name: "deleted account", path: "/api/users", token: ghostToken, wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errNotAuthed)},
		{name: "aluno forbidden", path: "/api/users", token: getToken(t, aluno), wantCode: http.StatusForbidden, wantData: marshalObj(t, errForbidden)},
		{name: "professor forbidden", path: "/api/users", token: getToken(t, prof), wantCode: http.StatusForbidden, wantData: marshalObj(t, errForbidden)},
		{name: "coordenador allowed", path: "/api/users", token: getToken(t, coord), wantData: marshalList(t, coord, prof, aluno)},
		{name: "alunos listing needs auth", path: "/api/users/alunos", wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)},
		{name: "alunos listing open to professor", path: "/api/users/alunos", token: getToken(t, prof), wantData: marshalList(t, aluno)},
		{name: "alunos listing open to aluno", path: "/api/users/alunos", token: getToken(t, aluno), wantData: marshalList(t, aluno)},
		{name: "professores listing", path: "/api/users/professores", token: getToken(t, coord), wantData: marshalList(t, prof)},
		{name: "coordenadores listing", path: "/api/users/coordenadores", token: getToken(t, coord), wantData: marshalList(t, coord)},
	}
	runTests(t, server, tests)
}

func Test_userApi_crud(t *testing.T) {
	server := setup(t)

	coord := createUser(t, "Ana Souza", "ana@mediotec.br", user.TipoCoordenador, "s3cr3t!")
	token := getToken(t, coord)

	var created user.User
	t.Run("create", func(t *testing.T) {
		body := marshalObj(t, user.NewUser{Nome: "Caio Melo", Email: "caio@mediotec.br", Password: "s3cr3t!", Tipo: user.TipoProfessor})
		req, rec := newAuthRequest(http.MethodPost, "/api/users", token, body)
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
			t.Fatalf("unmarshalling User: %v", err)
		}
		if created.ID == "" || created.Tipo != user.TipoProfessor {
			t.Errorf("unexpected user: %+v", created)
		}
	})

	t.Run("create rejects bad tipo", func(t *testing.T) {
		body := marshalObj(t, user.NewUser{Nome: "X", Email: "x@mediotec.br", Password: "pwd", Tipo: "diretor"})
		req, rec := newAuthRequest(http.MethodPost, "/api/users", token, body)
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
	})

	tests := []httpTest{
		{
			name: "duplicate email", method: http.MethodPost, path: "/api/users", token: token,
			body:     marshalObj(t, user.NewUser{Nome: "Other", Email: "caio@mediotec.br", Password: "pwd", Tipo: user.TipoAluno}),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"email": "a user with this email already exists"}),
		},
		{name: "retrieve unknown", path: "/api/users/60c72b2f9b1e8b3a3c8d6e10", token: token, wantCode: http.StatusNotFound, wantData: marshalObj(t, httpErr{Error: "user not found"})},
	}
	runTests(t, server, tests)

	t.Run("retrieve", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/users/"+created.ID, token)
		server.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusOK, wantData: marshalObj(t, created)}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("update keeps password when empty", func(t *testing.T) {
		body := marshalObj(t, user.UpdateUser{Nome: "Caio M. Melo"})
		req, rec := newAuthRequest(http.MethodPut, "/api/users/"+created.ID, token, body)
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		var updated user.User
		if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
			t.Fatalf("unmarshalling User: %v", err)
		}
		if updated.Nome != "Caio M. Melo" {
			t.Errorf("nome = %v; want %v", updated.Nome, "Caio M. Melo")
		}
		if updated.Email != created.Email || updated.Tipo != created.Tipo {
			t.Errorf("fallback fields changed: %+v", updated)
		}

		// original password still works
		req, rec = newRequest(http.MethodPost, "/api/auth/login", marshalObj(t, LoginRequest{Email: created.Email, Password: "s3cr3t!"}))
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("login failed after update! code = %v; body %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("destroy", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/users/"+created.ID, token)
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}

		req, rec = newAuthRequest(http.MethodGet, "/api/users/"+created.ID, token)
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("still found! code = %v", rec.Code)
		}
	})
}
