package main

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/mediotec/portal-api/core"
	"github.com/mediotec/portal-api/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(nome, email, pwd string, isCoord bool) error {
	ctx := context.Background()
	nome = core.CleanString(nome)
	email = core.CleanString(email, true /* lower */)

	tipo := user.TipoProfessor
	if isCoord {
		tipo = user.TipoCoordenador
	}

	usr, err := cli.usrRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Nome:      nome,
			Email:     email,
			Tipo:      tipo,
			CreatedAt: time.Now().UTC(),
		}
		if err := usr.SetPassword(pwd); err != nil {
			return err
		}
		_, err = cli.usrRepo.CreateUser(ctx, usr)
		return err
	}

	usr.Nome = nome
	usr.Tipo = tipo
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	_, err = cli.usrRepo.UpdateUser(ctx, usr)
	return err
}
