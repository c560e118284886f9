// Package inmem provides map-backed implementations of the core repositories.
// It backs the API test suites and local experiments; nothing is persisted.
package inmem

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mediotec/portal-api/core/comunicado"
	"github.com/mediotec/portal-api/core/conceito"
	"github.com/mediotec/portal-api/core/disciplina"
	"github.com/mediotec/portal-api/core/turma"
	"github.com/mediotec/portal-api/core/user"
)

type DB struct {
	mutex sync.RWMutex

	users       map[string]user.User
	turmas      map[string]turma.Turma
	disciplinas map[string]disciplina.Disciplina
	conceitos   map[string]conceito.Conceito
	comunicados map[string]comunicado.Comunicado
}

func NewDB() *DB {
	return &DB{
		users:       make(map[string]user.User),
		turmas:      make(map[string]turma.Turma),
		disciplinas: make(map[string]disciplina.Disciplina),
		conceitos:   make(map[string]conceito.Conceito),
		comunicados: make(map[string]comunicado.Comunicado),
	}
}

// Clear empties all tables. Test helper.
func (db *DB) Clear() {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.users = make(map[string]user.User)
	db.turmas = make(map[string]turma.Turma)
	db.disciplinas = make(map[string]disciplina.Disciplina)
	db.conceitos = make(map[string]conceito.Conceito)
	db.comunicados = make(map[string]comunicado.Comunicado)
}

func newID() string {
	return primitive.NewObjectID().Hex()
}
