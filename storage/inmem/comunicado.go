package inmem

import (
	"context"

	"github.com/mediotec/portal-api/core/comunicado"
)

type comunicadoRepository struct {
	db *DB
}

var _ comunicado.Repository = (*comunicadoRepository)(nil) // interface compliance check

func NewComunicadoRepository(db *DB) *comunicadoRepository {
	return &comunicadoRepository{db: db}
}

func (repo *comunicadoRepository) CheckTituloUniqueness(ctx context.Context, titulo string, excluded ...comunicado.Comunicado) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	isExcluded := func(id string) bool {
		for _, c := range excluded {
			if c.ID == id {
				return true
			}
		}
		return false
	}
	for _, c := range repo.db.comunicados {
		if isExcluded(c.ID) {
			continue
		}
		if c.Titulo == titulo {
			return comunicado.ErrTituloExists
		}
	}
	return nil
}

func (repo *comunicadoRepository) CreateComunicado(ctx context.Context, c comunicado.Comunicado) (comunicado.Comunicado, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	c.ID = newID()
	repo.db.comunicados[c.ID] = c
	return c, nil
}

func (repo *comunicadoRepository) QueryAllComunicados(ctx context.Context) ([]comunicado.Comunicado, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	comunicados := make([]comunicado.Comunicado, 0, len(repo.db.comunicados))
	for _, c := range repo.db.comunicados {
		comunicados = append(comunicados, c)
	}
	return comunicados, nil
}

func (repo *comunicadoRepository) QueryComunicadosByUser(ctx context.Context, userID string) ([]comunicado.Comunicado, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	comunicados := make([]comunicado.Comunicado, 0)
	for _, c := range repo.db.comunicados {
		if c.User == userID {
			comunicados = append(comunicados, c)
		}
	}
	return comunicados, nil
}

func (repo *comunicadoRepository) GetComunicadoByID(ctx context.Context, id string) (comunicado.Comunicado, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if c, ok := repo.db.comunicados[id]; ok {
		return c, nil
	}
	return comunicado.Comunicado{}, comunicado.ErrNotFound
}

func (repo *comunicadoRepository) UpdateComunicado(ctx context.Context, c comunicado.Comunicado) (comunicado.Comunicado, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.comunicados[c.ID]; !ok {
		return comunicado.Comunicado{}, comunicado.ErrNotFound
	}
	repo.db.comunicados[c.ID] = c
	return c, nil
}

func (repo *comunicadoRepository) DeleteComunicado(ctx context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	delete(repo.db.comunicados, id)
	return nil
}
