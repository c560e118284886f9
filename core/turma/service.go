package turma

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/mediotec/portal-api/core"
	"github.com/mediotec/portal-api/core/user"
)

var (
	// errors
	ErrNotFound   = errors.New("turma not found")
	ErrNomeExists = errors.New("a turma with this nome already exists")

	errInvalidID = errors.New("invalid id")
)

type (
	Repository interface {
		CheckNomeUniqueness(ctx context.Context, nome string, excludedTurmas ...Turma) error
		CreateTurma(ctx context.Context, t Turma) (Turma, error)
		QueryAllTurmas(ctx context.Context) ([]Detail, error)
		GetTurmaByID(ctx context.Context, id string) (Detail, error)
		GetTurma(ctx context.Context, id string) (Turma, error)
		UpdateTurma(ctx context.Context, t Turma) (Turma, error)
		DeleteTurma(ctx context.Context, id string) error
		// The array mutations below rely on the store's atomic set-update
		// primitives; ids already present (or absent) are silent no-ops.
		AddAlunos(ctx context.Context, id string, alunoIDs []string) (Turma, error)
		RemoveAlunos(ctx context.Context, id string, alunoIDs []string) (Turma, error)
		AddDisciplinas(ctx context.Context, id string, disciplinaIDs []string) (Turma, error)
		RemoveDisciplinas(ctx context.Context, id string, disciplinaIDs []string) (Turma, error)
	}

	Service interface {
		CheckUniqueness(ctx context.Context, nome string, exclTurmas ...Turma) error
		Create(ctx context.Context, nt NewTurma) (Turma, error)
		QueryAll(ctx context.Context) ([]Detail, error)
		GetByID(ctx context.Context, id string) (Detail, error)
		Update(ctx context.Context, id string, ut UpdateTurma) (Turma, error)
		Delete(ctx context.Context, id string) error
		GetAlunos(ctx context.Context, id string) ([]user.User, error)
		AddAlunos(ctx context.Context, id string, alunoIDs []string) (Turma, error)
		RemoveAlunos(ctx context.Context, id string, alunoIDs []string) (Turma, error)
		AddDisciplinas(ctx context.Context, id string, disciplinaIDs []string) (Turma, error)
		RemoveDisciplinas(ctx context.Context, id string, disciplinaIDs []string) (Turma, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) CheckUniqueness(ctx context.Context, nome string, exclTurmas ...Turma) error {
	if err := svc.repo.CheckNomeUniqueness(ctx, nome, exclTurmas...); err != nil {
		if err == ErrNomeExists {
			return core.NewValidationError(err, core.FieldError{Field: "nome", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) Create(ctx context.Context, nt NewTurma) (Turma, error) {
	t := Turma{
		Nome:        nt.Nome,
		Ano:         nt.Ano,
		Serie:       nt.Serie,
		Alunos:      dedupe(nt.Alunos),
		Disciplinas: dedupe(nt.Disciplinas),
		CreatedAt:   time.Now().UTC(),
	}
	return svc.repo.CreateTurma(ctx, t)
}

func (svc *service) QueryAll(ctx context.Context) ([]Detail, error) {
	return svc.repo.QueryAllTurmas(ctx)
}

func (svc *service) GetByID(ctx context.Context, id string) (Detail, error) {
	return svc.repo.GetTurmaByID(ctx, id)
}

func (svc *service) Update(ctx context.Context, id string, ut UpdateTurma) (Turma, error) {
	t, err := svc.repo.GetTurma(ctx, id)
	if err != nil {
		return Turma{}, err
	}
	t.Nome = ut.Nome
	t.Ano = ut.Ano
	t.Serie = ut.Serie
	return svc.repo.UpdateTurma(ctx, t)
}

// Delete removes the turma only; dangling references from disciplinas and
// conceitos are left in place.
func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteTurma(ctx, id)
}

func (svc *service) GetAlunos(ctx context.Context, id string) ([]user.User, error) {
	detail, err := svc.repo.GetTurmaByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return detail.Alunos, nil
}

func (svc *service) AddAlunos(ctx context.Context, id string, alunoIDs []string) (Turma, error) {
	if err := validateIDs(id, alunoIDs); err != nil {
		return Turma{}, err
	}
	return svc.repo.AddAlunos(ctx, id, alunoIDs)
}

func (svc *service) RemoveAlunos(ctx context.Context, id string, alunoIDs []string) (Turma, error) {
	if err := validateIDs(id, alunoIDs); err != nil {
		return Turma{}, err
	}
	return svc.repo.RemoveAlunos(ctx, id, alunoIDs)
}

func (svc *service) AddDisciplinas(ctx context.Context, id string, disciplinaIDs []string) (Turma, error) {
	if err := validateIDs(id, disciplinaIDs); err != nil {
		return Turma{}, err
	}
	return svc.repo.AddDisciplinas(ctx, id, disciplinaIDs)
}

func (svc *service) RemoveDisciplinas(ctx context.Context, id string, disciplinaIDs []string) (Turma, error) {
	if err := validateIDs(id, disciplinaIDs); err != nil {
		return Turma{}, err
	}
	return svc.repo.RemoveDisciplinas(ctx, id, disciplinaIDs)
}

func validateIDs(id string, refs []string) error {
	if !core.IsValidID(id) {
		return core.NewValidationError(errInvalidID)
	}
	for _, ref := range refs {
		if !core.IsValidID(ref) {
			return core.NewValidationError(errInvalidID)
		}
	}
	return nil
}

func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return ids
	}
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
