package inmem

import (
	"context"

	"github.com/mediotec/portal-api/core/disciplina"
)

type disciplinaRepository struct {
	db *DB
}

var _ disciplina.Repository = (*disciplinaRepository)(nil) // interface compliance check

func NewDisciplinaRepository(db *DB) *disciplinaRepository {
	return &disciplinaRepository{db: db}
}

func (repo *disciplinaRepository) CreateDisciplina(ctx context.Context, d disciplina.Disciplina) (disciplina.Disciplina, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	d.ID = newID()
	repo.db.disciplinas[d.ID] = d
	return d, nil
}

func (repo *disciplinaRepository) QueryAllDisciplinas(ctx context.Context) ([]disciplina.Detail, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	details := make([]disciplina.Detail, 0, len(repo.db.disciplinas))
	for _, d := range repo.db.disciplinas {
		details = append(details, repo.populate(d))
	}
	return details, nil
}

func (repo *disciplinaRepository) QueryDisciplinasByProfessor(ctx context.Context, professorID string) ([]disciplina.Detail, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	details := make([]disciplina.Detail, 0)
	for _, d := range repo.db.disciplinas {
		if d.Professor == professorID {
			details = append(details, repo.populate(d))
		}
	}
	return details, nil
}

func (repo *disciplinaRepository) GetDisciplinaByID(ctx context.Context, id string) (disciplina.Detail, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	d, ok := repo.db.disciplinas[id]
	if !ok {
		return disciplina.Detail{}, disciplina.ErrNotFound
	}
	return repo.populate(d), nil
}

func (repo *disciplinaRepository) GetDisciplina(ctx context.Context, id string) (disciplina.Disciplina, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	d, ok := repo.db.disciplinas[id]
	if !ok {
		return disciplina.Disciplina{}, disciplina.ErrNotFound
	}
	return d, nil
}

// populate resolves references, skipping dangling ones. Caller must hold the lock.
func (repo *disciplinaRepository) populate(d disciplina.Disciplina) disciplina.Detail {
	detail := disciplina.Detail{
		ID:        d.ID,
		Nome:      d.Nome,
		CreatedAt: d.CreatedAt,
	}
	if d.Professor != "" {
		if usr, ok := repo.db.users[d.Professor]; ok {
			detail.Professor = &disciplina.Ref{ID: usr.ID, Nome: usr.Nome}
		}
	}
	if d.Turma != "" {
		if t, ok := repo.db.turmas[d.Turma]; ok {
			detail.Turma = &disciplina.Ref{ID: t.ID, Nome: t.Nome}
		}
	}
	return detail
}

func (repo *disciplinaRepository) UpdateDisciplina(ctx context.Context, d disciplina.Disciplina) (disciplina.Disciplina, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.disciplinas[d.ID]
	if !ok {
		return disciplina.Disciplina{}, disciplina.ErrNotFound
	}
	orig.Nome = d.Nome
	if d.Professor != "" {
		orig.Professor = d.Professor
	}
	if d.Turma != "" {
		orig.Turma = d.Turma
	}
	repo.db.disciplinas[d.ID] = orig
	return orig, nil
}

func (repo *disciplinaRepository) SetProfessor(ctx context.Context, id, professorID string) (disciplina.Disciplina, error) {
	return repo.mutate(id, func(d *disciplina.Disciplina) { d.Professor = professorID })
}

func (repo *disciplinaRepository) UnsetProfessor(ctx context.Context, id string) (disciplina.Disciplina, error) {
	return repo.mutate(id, func(d *disciplina.Disciplina) { d.Professor = "" })
}

func (repo *disciplinaRepository) SetTurma(ctx context.Context, id, turmaID string) (disciplina.Disciplina, error) {
	return repo.mutate(id, func(d *disciplina.Disciplina) { d.Turma = turmaID })
}

func (repo *disciplinaRepository) UnsetTurma(ctx context.Context, id string) (disciplina.Disciplina, error) {
	return repo.mutate(id, func(d *disciplina.Disciplina) { d.Turma = "" })
}

func (repo *disciplinaRepository) mutate(id string, fn func(*disciplina.Disciplina)) (disciplina.Disciplina, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	d, ok := repo.db.disciplinas[id]
	if !ok {
		return disciplina.Disciplina{}, disciplina.ErrNotFound
	}
	fn(&d)
	repo.db.disciplinas[id] = d
	return d, nil
}

func (repo *disciplinaRepository) DeleteDisciplina(ctx context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.disciplinas[id]; !ok {
		return disciplina.ErrNotFound
	}
	delete(repo.db.disciplinas, id)
	return nil
}
