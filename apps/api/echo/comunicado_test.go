package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/mediotec/portal-api/core/comunicado"
	"github.com/mediotec/portal-api/core/user"
)

func Test_comunicadoApi_crud(t *testing.T) {
	server := setup(t)

	coord := createUser(t, "Ana Souza", "ana@mediotec.br", user.TipoCoordenador, "s3cr3t!")

	var created comunicado.Comunicado
	t.Run("create needs no auth", func(t *testing.T) {
		body := marshalObj(t, comunicado.NewComunicado{Titulo: "Semana de provas", Conteudo: "As provas começam segunda.", User: coord.ID})
		req, rec := newRequest(http.MethodPost, "/api/comunicados", body)
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
			t.Fatalf("unmarshalling Comunicado: %v", err)
		}
		if created.ID == "" || created.User != coord.ID {
			t.Errorf("unexpected comunicado: %+v", created)
		}
	})

	tests := []httpTest{
		{
			name: "missing fields", method: http.MethodPost, path: "/api/comunicados",
			body: marshalObj(t, comunicado.NewComunicado{Titulo: "Só título"}), wantCode: http.StatusBadRequest,
		},
		{
			name: "duplicate titulo", method: http.MethodPost, path: "/api/comunicados",
			body:     marshalObj(t, comunicado.NewComunicado{Titulo: "Semana de provas", Conteudo: "Outro texto."}),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"titulo": "a comunicado with this titulo already exists"}),
		},
		{name: "retrieve unknown", path: "/api/comunicados/60c72b2f9b1e8b3a3c8d6e10", wantCode: http.StatusNotFound, wantData: marshalObj(t, httpErr{Error: "comunicado not found"})},
		{
			name: "by unknown user", path: "/api/comunicados/user/60c72b2f9b1e8b3a3c8d6e10",
			wantCode: http.StatusNotFound, wantData: marshalObj(t, httpErr{Error: "user not found"}),
		},
	}
	runTests(t, server, tests)

	t.Run("listings", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/comunicados")
		server.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusOK, wantData: marshalList(t, created)}
		checkCodeAndData(t, tt, rec)

		req, rec = newRequest(http.MethodGet, "/api/comunicados/user/"+coord.ID)
		server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("update falls back to the original fields", func(t *testing.T) {
		body := marshalObj(t, comunicado.UpdateComunicado{Conteudo: "As provas começam terça."})
		req, rec := newRequest(http.MethodPut, "/api/comunicados/"+created.ID, body)
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		var updated comunicado.Comunicado
		if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
			t.Fatalf("unmarshalling Comunicado: %v", err)
		}
		if updated.Titulo != created.Titulo {
			t.Errorf("titulo = %v; want unchanged %v", updated.Titulo, created.Titulo)
		}
		if updated.Conteudo != "As provas começam terça." {
			t.Errorf("conteudo = %v; want the new text", updated.Conteudo)
		}
	})

	t.Run("destroy", func(t *testing.T) {
		req, rec := newRequest(http.MethodDelete, "/api/comunicados/"+created.ID)
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}

		req, rec = newRequest(http.MethodGet, "/api/comunicados/"+created.ID)
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("still found! code = %v", rec.Code)
		}
	})
}
