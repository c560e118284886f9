package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/mediotec/portal-api/core/user"
)

func Test_userApi_login(t *testing.T) {
	server := setup(t)

	coord := createUser(t, "Ana Souza", "ana@mediotec.br", user.TipoCoordenador, "s3cr3t!")

	tests := []httpTest{
		{
			name: "unknown email", method: http.MethodPost, path: "/api/auth/login",
			body:     marshalObj(t, LoginRequest{Email: "ghost@mediotec.br", Password: "s3cr3t!"}),
			wantCode: http.StatusUnauthorized, wantData: marshalObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "bad password", method: http.MethodPost, path: "/api/auth/login",
			body:     marshalObj(t, LoginRequest{Email: coord.Email, Password: "nope"}),
			wantCode: http.StatusUnauthorized, wantData: marshalObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "missing fields", method: http.MethodPost, path: "/api/auth/login",
			body:     marshalObj(t, LoginRequest{}),
			wantCode: http.StatusBadRequest,
		},
	}
	runTests(t, server, tests)

	t.Run("valid credentials", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/auth/login", marshalObj(t, LoginRequest{Email: "Ana@MedioTec.br", Password: "s3cr3t!"}))
		server.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("login failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		var resp LoginResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshalling LoginResponse: %v", err)
		}
		if resp.Token == "" {
			t.Error("expected a token")
		}
		if resp.UserID != coord.ID {
			t.Errorf("userId = %v; want %v", resp.UserID, coord.ID)
		}
		if resp.UserType != user.TipoCoordenador {
			t.Errorf("userType = %v; want %v", resp.UserType, user.TipoCoordenador)
		}
		if resp.UserName != coord.Nome {
			t.Errorf("userName = %v; want %v", resp.UserName, coord.Nome)
		}

		// the issued token must pass the general gate
		req, rec = newAuthRequest(http.MethodGet, "/api/users", resp.Token)
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("authed request failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
	})
}

func Test_userApi_createCoordenador(t *testing.T) {
	server := setup(t)

	createUser(t, "Ana Souza", "ana@mediotec.br", user.TipoCoordenador, "s3cr3t!")

	tests := []httpTest{
		{
			name: "missing fields", method: http.MethodPost, path: "/api/auth/users/coord",
			body:     marshalObj(t, user.NewUser{Nome: "Beto Lima"}),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "duplicate email", method: http.MethodPost, path: "/api/auth/users/coord",
			body:     marshalObj(t, user.NewUser{Nome: "Beto Lima", Email: "ana@mediotec.br", Password: "s3cr3t!"}),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"email": "a user with this email already exists"}),
		},
	}
	runTests(t, server, tests)

	t.Run("registers a coordenador", func(t *testing.T) {
		body := marshalObj(t, user.NewUser{Nome: "Beto Lima", Email: "beto@mediotec.br", Password: "s3cr3t!", Tipo: user.TipoAluno /* ignored */})
		req, rec := newRequest(http.MethodPost, "/api/auth/users/coord", body)
		server.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		var usr user.User
		if err := json.Unmarshal(rec.Body.Bytes(), &usr); err != nil {
			t.Fatalf("unmarshalling User: %v", err)
		}
		if usr.Tipo != user.TipoCoordenador {
			t.Errorf("tipo = %v; want %v", usr.Tipo, user.TipoCoordenador)
		}
	})
}

func Test_userApi_passwordReset(t *testing.T) {
	server := setup(t)

	usr := createUser(t, "Caio Melo", "caio@mediotec.br", user.TipoProfessor, "0ldpwd!")

	t.Run("request is always a 200", func(t *testing.T) {
		for _, email := range []string{usr.Email, "ghost@mediotec.br"} {
			req, rec := newRequest(http.MethodPost, "/api/auth/password-reset", marshalObj(t, PasswordResetRequest{Email: email}))
			server.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Errorf("failed for %s! code = %v; body %s", email, rec.Code, rec.Body.String())
			}
		}
	})

	t.Run("confirm resets the password", func(t *testing.T) {
		token, err := user.MakeToken(usr)
		if err != nil {
			t.Fatalf("MakeToken() failed: %v", err)
		}
		body := marshalObj(t, user.ResetUserPassword{
			UID:             user.EncodeUID(usr),
			Token:           token,
			Password:        "n3wpwd!",
			PasswordConfirm: "n3wpwd!",
		})
		req, rec := newRequest(http.MethodPost, "/api/auth/password-reset-confirm", body)
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}

		// old password no longer works, the new one does
		req, rec = newRequest(http.MethodPost, "/api/auth/login", marshalObj(t, LoginRequest{Email: usr.Email, Password: "0ldpwd!"}))
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("old password accepted! code = %v", rec.Code)
		}
		req, rec = newRequest(http.MethodPost, "/api/auth/login", marshalObj(t, LoginRequest{Email: usr.Email, Password: "n3wpwd!"}))
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("new password rejected! code = %v; body %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("used token is rejected", func(t *testing.T) {
		token, err := user.MakeToken(usr) // built from the pre-reset hash
		if err != nil {
			t.Fatalf("MakeToken() failed: %v", err)
		}
		body := marshalObj(t, user.ResetUserPassword{
			UID:             user.EncodeUID(usr),
			Token:           token,
			Password:        "an0ther!",
			PasswordConfirm: "an0ther!",
		})
		req, rec := newRequest(http.MethodPost, "/api/auth/password-reset-confirm", body)
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("stale token accepted! code = %v; body %s", rec.Code, rec.Body.String())
		}
	})
}
