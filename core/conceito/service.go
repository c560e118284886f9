package conceito

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/mediotec/portal-api/core"
)

var (
	// errors
	ErrNotFound = errors.New("conceito not found")

	errEmptyList = errors.New("a non-empty list of conceitos is required")
)

type (
	Repository interface {
		CreateConceito(ctx context.Context, c Conceito) (Conceito, error)
		QueryAllConceitos(ctx context.Context) ([]Detail, error)
		QueryConceitosByAluno(ctx context.Context, alunoID, disciplinaID string) ([]Detail, error)
		GetConceitoByID(ctx context.Context, id string) (Detail, error)
		GetConceitoByAlunoDisciplina(ctx context.Context, alunoID, disciplinaID string) (Conceito, error)
		// UpdateConceitoGrades overwrites the five grade fields in place,
		// preserving id and created_at.
		UpdateConceitoGrades(ctx context.Context, id string, uc UpdateConceito) (Conceito, error)
		DeleteConceito(ctx context.Context, id string) error
	}

	Service interface {
		SaveAll(ctx context.Context, entries []SaveConceito) ([]Conceito, error)
		QueryAll(ctx context.Context) ([]Detail, error)
		QueryByAluno(ctx context.Context, alunoID, disciplinaID string) ([]Detail, error)
		GetByID(ctx context.Context, id string) (Detail, error)
		Update(ctx context.Context, id string, uc UpdateConceito) (Conceito, error)
		Delete(ctx context.Context, id string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// SaveAll upserts each entry on its (aluno, disciplina) key: an existing record
// gets its grade fields overwritten in place, a missing one is inserted.
// Results are returned in input order. Entries are written independently;
// there is no multi-document transaction.
func (svc *service) SaveAll(ctx context.Context, entries []SaveConceito) ([]Conceito, error) {
	if len(entries) == 0 {
		return nil, core.NewValidationError(errEmptyList)
	}

	saved := make([]Conceito, 0, len(entries))
	for i := range entries {
		entry := &entries[i]
		if err := entry.Validate(ctx); err != nil {
			return nil, err
		}

		existing, err := svc.repo.GetConceitoByAlunoDisciplina(ctx, entry.Aluno, entry.Disciplina)
		switch errors.Cause(err) {
		case nil:
			c, err := svc.repo.UpdateConceitoGrades(ctx, existing.ID, UpdateConceito{
				Conceito1:       entry.Conceito1,
				Conceito2:       entry.Conceito2,
				ConceitoParcial: entry.ConceitoParcial,
				ConceitoRec:     entry.ConceitoRec,
				ConceitoFinal:   entry.ConceitoFinal,
			})
			if err != nil {
				return nil, errors.Wrap(err, "updating conceito")
			}
			saved = append(saved, c)
		case ErrNotFound:
			c, err := svc.repo.CreateConceito(ctx, Conceito{
				Aluno:           entry.Aluno,
				Disciplina:      entry.Disciplina,
				Conceito1:       entry.Conceito1,
				Conceito2:       entry.Conceito2,
				ConceitoParcial: entry.ConceitoParcial,
				ConceitoRec:     entry.ConceitoRec,
				ConceitoFinal:   entry.ConceitoFinal,
				CreatedAt:       time.Now().UTC(),
			})
			if err != nil {
				return nil, errors.Wrap(err, "creating conceito")
			}
			saved = append(saved, c)
		default:
			return nil, errors.Wrap(err, "finding conceito by (aluno, disciplina)")
		}
	}
	return saved, nil
}

func (svc *service) QueryAll(ctx context.Context) ([]Detail, error) {
	return svc.repo.QueryAllConceitos(ctx)
}

func (svc *service) QueryByAluno(ctx context.Context, alunoID, disciplinaID string) ([]Detail, error) {
	if !core.IsValidID(alunoID) {
		return nil, core.NewValidationError(errors.New("invalid aluno id"))
	}
	return svc.repo.QueryConceitosByAluno(ctx, alunoID, disciplinaID)
}

func (svc *service) GetByID(ctx context.Context, id string) (Detail, error) {
	return svc.repo.GetConceitoByID(ctx, id)
}

func (svc *service) Update(ctx context.Context, id string, uc UpdateConceito) (Conceito, error) {
	return svc.repo.UpdateConceitoGrades(ctx, id, uc)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteConceito(ctx, id)
}
