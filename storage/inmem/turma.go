package inmem

import (
	"context"

	"github.com/mediotec/portal-api/core/disciplina"
	"github.com/mediotec/portal-api/core/turma"
	"github.com/mediotec/portal-api/core/user"
)

type turmaRepository struct {
	db *DB
}

var (
	_ turma.Repository         = (*turmaRepository)(nil) // interface compliance check
	_ disciplina.TurmaRegistry = (*turmaRepository)(nil)
)

func NewTurmaRepository(db *DB) *turmaRepository {
	return &turmaRepository{db: db}
}

func (repo *turmaRepository) CheckNomeUniqueness(ctx context.Context, nome string, excludedTurmas ...turma.Turma) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	excluded := func(id string) bool {
		for _, t := range excludedTurmas {
			if t.ID == id {
				return true
			}
		}
		return false
	}
	for _, t := range repo.db.turmas {
		if excluded(t.ID) {
			continue
		}
		if t.Nome == nome {
			return turma.ErrNomeExists
		}
	}
	return nil
}

func (repo *turmaRepository) CreateTurma(ctx context.Context, t turma.Turma) (turma.Turma, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	t.ID = newID()
	if t.Alunos == nil {
		t.Alunos = []string{}
	}
	if t.Disciplinas == nil {
		t.Disciplinas = []string{}
	}
	repo.db.turmas[t.ID] = t
	return t, nil
}

func (repo *turmaRepository) QueryAllTurmas(ctx context.Context) ([]turma.Detail, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	details := make([]turma.Detail, 0, len(repo.db.turmas))
	for _, t := range repo.db.turmas {
		details = append(details, repo.populate(t))
	}
	return details, nil
}

func (repo *turmaRepository) GetTurmaByID(ctx context.Context, id string) (turma.Detail, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	t, ok := repo.db.turmas[id]
	if !ok {
		return turma.Detail{}, turma.ErrNotFound
	}
	return repo.populate(t), nil
}

func (repo *turmaRepository) GetTurma(ctx context.Context, id string) (turma.Turma, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	t, ok := repo.db.turmas[id]
	if !ok {
		return turma.Turma{}, turma.ErrNotFound
	}
	return t, nil
}

// populate resolves membership ids, skipping dangling references.
// Caller must hold the lock.
func (repo *turmaRepository) populate(t turma.Turma) turma.Detail {
	detail := turma.Detail{
		ID:          t.ID,
		Nome:        t.Nome,
		Ano:         t.Ano,
		Serie:       t.Serie,
		Alunos:      []user.User{},
		Disciplinas: []disciplina.Disciplina{},
		CreatedAt:   t.CreatedAt,
	}
	for _, id := range t.Alunos {
		if usr, ok := repo.db.users[id]; ok {
			detail.Alunos = append(detail.Alunos, usr)
		}
	}
	for _, id := range t.Disciplinas {
		if d, ok := repo.db.disciplinas[id]; ok {
			detail.Disciplinas = append(detail.Disciplinas, d)
		}
	}
	return detail
}

func (repo *turmaRepository) UpdateTurma(ctx context.Context, t turma.Turma) (turma.Turma, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.turmas[t.ID]
	if !ok {
		return turma.Turma{}, turma.ErrNotFound
	}
	orig.Nome = t.Nome
	orig.Ano = t.Ano
	orig.Serie = t.Serie
	repo.db.turmas[t.ID] = orig
	return orig, nil
}

func (repo *turmaRepository) DeleteTurma(ctx context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	delete(repo.db.turmas, id)
	return nil
}

func (repo *turmaRepository) AddAlunos(ctx context.Context, id string, alunoIDs []string) (turma.Turma, error) {
	return repo.mutate(id, func(t *turma.Turma) {
		t.Alunos = addToSet(t.Alunos, alunoIDs)
	})
}

func (repo *turmaRepository) RemoveAlunos(ctx context.Context, id string, alunoIDs []string) (turma.Turma, error) {
	return repo.mutate(id, func(t *turma.Turma) {
		t.Alunos = pullAll(t.Alunos, alunoIDs)
	})
}

func (repo *turmaRepository) AddDisciplinas(ctx context.Context, id string, disciplinaIDs []string) (turma.Turma, error) {
	return repo.mutate(id, func(t *turma.Turma) {
		t.Disciplinas = addToSet(t.Disciplinas, disciplinaIDs)
	})
}

func (repo *turmaRepository) RemoveDisciplinas(ctx context.Context, id string, disciplinaIDs []string) (turma.Turma, error) {
	return repo.mutate(id, func(t *turma.Turma) {
		t.Disciplinas = pullAll(t.Disciplinas, disciplinaIDs)
	})
}

func (repo *turmaRepository) PushDisciplina(ctx context.Context, turmaID, disciplinaID string) error {
	_, err := repo.mutate(turmaID, func(t *turma.Turma) {
		t.Disciplinas = addToSet(t.Disciplinas, []string{disciplinaID})
	})
	if err != nil {
		return disciplina.ErrTurmaNotFound
	}
	return nil
}

func (repo *turmaRepository) mutate(id string, fn func(*turma.Turma)) (turma.Turma, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	t, ok := repo.db.turmas[id]
	if !ok {
		return turma.Turma{}, turma.ErrNotFound
	}
	fn(&t)
	repo.db.turmas[id] = t
	return t, nil
}

func addToSet(set, ids []string) []string {
	seen := make(map[string]struct{}, len(set))
	for _, id := range set {
		seen[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		set = append(set, id)
	}
	return set
}

func pullAll(set, ids []string) []string {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for _, id := range set {
		if _, ok := drop[id]; ok {
			continue
		}
		out = append(out, id)
	}
	return out
}
