package user

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mediotec/portal-api/core"
)

// Tipos (authorization classes)
const (
	TipoCoordenador = "coordenador"
	TipoProfessor   = "professor"
	TipoAluno       = "aluno"
)

var AllTipos = []string{TipoCoordenador, TipoProfessor, TipoAluno}

type User struct {
	ID           string    `json:"id"`
	Nome         string    `json:"nome"`
	Login        string    `json:"login,omitempty"`
	Email        string    `json:"email"`
	Tipo         string    `json:"tipo"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsCoordenador() bool { return u.Tipo == TipoCoordenador }
func (u *User) IsProfessor() bool   { return u.Tipo == TipoProfessor }
func (u *User) IsAluno() bool       { return u.Tipo == TipoAluno }

// NewUser contains information needed to create a new User.
type NewUser struct {
	Nome     string `json:"nome" validate:"required"`
	Login    string `json:"login" validate:"omitempty,min=4,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Tipo     string `json:"tipo" validate:"required,usertipo"`
}

func (nu *NewUser) Validate(ctx context.Context, svc Service) error {
	nu.Nome = core.CleanString(nu.Nome)
	nu.Login = core.CleanString(nu.Login, true /* lower */)
	nu.Email = core.CleanString(nu.Email, true /* lower */)

	if err := core.Validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, nu.Email, nu.Login)
}

// UpdateUser defines what information may be provided to modify an existing User.
// Tipo is accepted but should not change an account's authorization class in practice;
// the schema does not enforce it.
type UpdateUser struct {
	Nome     string `json:"nome"`
	Login    string `json:"login" validate:"omitempty,min=4,alphanum"`
	Email    string `json:"email" validate:"omitempty,email"`
	Tipo     string `json:"tipo" validate:"omitempty,usertipo"`
	Password string `json:"password"`
}

func (uu *UpdateUser) Validate(ctx context.Context, origUsr User, svc Service) error {
	uu.Nome = core.CleanString(uu.Nome)
	if uu.Nome == "" {
		uu.Nome = origUsr.Nome
	}
	uu.Login = core.CleanString(uu.Login, true /* lower */)
	if uu.Login == "" {
		uu.Login = origUsr.Login
	}
	uu.Email = core.CleanString(uu.Email, true /* lower */)
	if uu.Email == "" {
		uu.Email = origUsr.Email
	}
	if uu.Tipo == "" {
		uu.Tipo = origUsr.Tipo
	}

	if err := core.Validate.Struct(uu); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, uu.Email, uu.Login, origUsr)
}

type ResetUserPassword struct {
	Token           string `json:"token,omitempty" validate:"required"`
	UID             string `json:"uid,omitempty" validate:"required"`
	Password        string `json:"password,omitempty" validate:"required"`
	PasswordConfirm string `json:"password_confirm,omitempty" validate:"required,eqfield=Password"`
}

func (rp ResetUserPassword) Validate() error { return core.Validate.Struct(rp) }
