package inmem

import (
	"context"

	"github.com/mediotec/portal-api/core/conceito"
)

type conceitoRepository struct {
	db *DB
}

var _ conceito.Repository = (*conceitoRepository)(nil) // interface compliance check

func NewConceitoRepository(db *DB) *conceitoRepository {
	return &conceitoRepository{db: db}
}

func (repo *conceitoRepository) CreateConceito(ctx context.Context, c conceito.Conceito) (conceito.Conceito, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	c.ID = newID()
	repo.db.conceitos[c.ID] = c
	return c, nil
}

func (repo *conceitoRepository) QueryAllConceitos(ctx context.Context) ([]conceito.Detail, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	details := make([]conceito.Detail, 0, len(repo.db.conceitos))
	for _, c := range repo.db.conceitos {
		details = append(details, repo.populate(c))
	}
	return details, nil
}

func (repo *conceitoRepository) QueryConceitosByAluno(ctx context.Context, alunoID, disciplinaID string) ([]conceito.Detail, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	details := make([]conceito.Detail, 0)
	for _, c := range repo.db.conceitos {
		if c.Aluno != alunoID {
			continue
		}
		if disciplinaID != "" && c.Disciplina != disciplinaID {
			continue
		}
		details = append(details, repo.populate(c))
	}
	return details, nil
}

func (repo *conceitoRepository) GetConceitoByID(ctx context.Context, id string) (conceito.Detail, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	c, ok := repo.db.conceitos[id]
	if !ok {
		return conceito.Detail{}, conceito.ErrNotFound
	}
	return repo.populate(c), nil
}

func (repo *conceitoRepository) GetConceitoByAlunoDisciplina(ctx context.Context, alunoID, disciplinaID string) (conceito.Conceito, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, c := range repo.db.conceitos {
		if c.Aluno == alunoID && c.Disciplina == disciplinaID {
			return c, nil
		}
	}
	return conceito.Conceito{}, conceito.ErrNotFound
}

func (repo *conceitoRepository) UpdateConceitoGrades(ctx context.Context, id string, uc conceito.UpdateConceito) (conceito.Conceito, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	c, ok := repo.db.conceitos[id]
	if !ok {
		return conceito.Conceito{}, conceito.ErrNotFound
	}
	c.Conceito1 = uc.Conceito1
	c.Conceito2 = uc.Conceito2
	c.ConceitoParcial = uc.ConceitoParcial
	c.ConceitoRec = uc.ConceitoRec
	c.ConceitoFinal = uc.ConceitoFinal
	repo.db.conceitos[id] = c
	return c, nil
}

func (repo *conceitoRepository) DeleteConceito(ctx context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.conceitos[id]; !ok {
		return conceito.ErrNotFound
	}
	delete(repo.db.conceitos, id)
	return nil
}

// populate resolves references, leaving zero values for dangling ones.
// Caller must hold the lock.
func (repo *conceitoRepository) populate(c conceito.Conceito) conceito.Detail {
	detail := conceito.Detail{
		ID:              c.ID,
		Conceito1:       c.Conceito1,
		Conceito2:       c.Conceito2,
		ConceitoParcial: c.ConceitoParcial,
		ConceitoRec:     c.ConceitoRec,
		ConceitoFinal:   c.ConceitoFinal,
		CreatedAt:       c.CreatedAt,
	}
	if usr, ok := repo.db.users[c.Aluno]; ok {
		detail.Aluno = usr
	}
	if d, ok := repo.db.disciplinas[c.Disciplina]; ok {
		detail.Disciplina = d
	}
	return detail
}
