package disciplina

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/mediotec/portal-api/core"
	"github.com/mediotec/portal-api/core/user"
)

var (
	// errors
	ErrNotFound          = errors.New("disciplina not found")
	ErrTurmaNotFound     = errors.New("turma not found")
	ErrProfessorNotFound = errors.New("professor not found")

	errInvalidID = errors.New("invalid id")
)

type (
	Repository interface {
		CreateDisciplina(ctx context.Context, d Disciplina) (Disciplina, error)
		QueryAllDisciplinas(ctx context.Context) ([]Detail, error)
		QueryDisciplinasByProfessor(ctx context.Context, professorID string) ([]Detail, error)
		GetDisciplinaByID(ctx context.Context, id string) (Detail, error)
		GetDisciplina(ctx context.Context, id string) (Disciplina, error)
		UpdateDisciplina(ctx context.Context, d Disciplina) (Disciplina, error)
		// SetProfessor / SetTurma overwrite the single reference;
		// the Unset variants remove the field from the document entirely.
		SetProfessor(ctx context.Context, id, professorID string) (Disciplina, error)
		UnsetProfessor(ctx context.Context, id string) (Disciplina, error)
		SetTurma(ctx context.Context, id, turmaID string) (Disciplina, error)
		UnsetTurma(ctx context.Context, id string) (Disciplina, error)
		DeleteDisciplina(ctx context.Context, id string) error
	}

	// TurmaRegistry is the narrow slice of the turma store this service needs for
	// the create-time dual write. Returns ErrTurmaNotFound when the turma is missing.
	TurmaRegistry interface {
		PushDisciplina(ctx context.Context, turmaID, disciplinaID string) error
	}

	Service interface {
		Create(ctx context.Context, nd NewDisciplina) (Disciplina, error)
		QueryAll(ctx context.Context) ([]Detail, error)
		QueryByProfessor(ctx context.Context, professorID string) ([]Detail, error)
		GetByID(ctx context.Context, id string) (Detail, error)
		Update(ctx context.Context, id string, ud UpdateDisciplina) (Disciplina, error)
		AddProfessor(ctx context.Context, id, professorID string) (Disciplina, error)
		RemoveProfessor(ctx context.Context, id string) (Disciplina, error)
		AddTurma(ctx context.Context, id, turmaID string) (Disciplina, error)
		RemoveTurma(ctx context.Context, id string) (Disciplina, error)
		Delete(ctx context.Context, id string) error
	}

	service struct {
		repo    Repository
		turmas  TurmaRegistry
		usrRepo user.Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, turmas TurmaRegistry, usrRepo user.Repository) Service {
	return &service{
		repo:    repo,
		turmas:  turmas,
		usrRepo: usrRepo,
	}
}

// Create inserts the disciplina and then links it onto the target turma's
// disciplinas array. The two writes are not transactional: when the turma does
// not exist the already-inserted disciplina persists as an orphan and
// ErrTurmaNotFound is returned.
func (svc *service) Create(ctx context.Context, nd NewDisciplina) (Disciplina, error) {
	d := Disciplina{
		Nome:      nd.Nome,
		Professor: nd.Professor,
		Turma:     nd.Turma,
		CreatedAt: time.Now().UTC(),
	}
	d, err := svc.repo.CreateDisciplina(ctx, d)
	if err != nil {
		return Disciplina{}, err
	}
	if nd.Turma != "" {
		if err := svc.turmas.PushDisciplina(ctx, nd.Turma, d.ID); err != nil {
			return d, err
		}
	}
	return d, nil
}

func (svc *service) QueryAll(ctx context.Context) ([]Detail, error) {
	return svc.repo.QueryAllDisciplinas(ctx)
}

func (svc *service) QueryByProfessor(ctx context.Context, professorID string) ([]Detail, error) {
	if !core.IsValidID(professorID) {
		return nil, core.NewValidationError(errInvalidID)
	}
	return svc.repo.QueryDisciplinasByProfessor(ctx, professorID)
}

func (svc *service) GetByID(ctx context.Context, id string) (Detail, error) {
	return svc.repo.GetDisciplinaByID(ctx, id)
}

func (svc *service) Update(ctx context.Context, id string, ud UpdateDisciplina) (Disciplina, error) {
	d, err := svc.repo.GetDisciplina(ctx, id)
	if err != nil {
		return Disciplina{}, err
	}
	d.Nome = ud.Nome
	if ud.Professor != "" {
		d.Professor = ud.Professor
	}
	if ud.Turma != "" {
		d.Turma = ud.Turma
	}
	return svc.repo.UpdateDisciplina(ctx, d)
}

// AddProfessor overwrites any previously assigned professor (0..1 cardinality).
func (svc *service) AddProfessor(ctx context.Context, id, professorID string) (Disciplina, error) {
	if !core.IsValidID(id) {
		return Disciplina{}, core.NewValidationError(errInvalidID)
	}
	usr, err := svc.usrRepo.GetUserByID(ctx, professorID)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return Disciplina{}, ErrProfessorNotFound
		}
		return Disciplina{}, err
	}
	if !usr.IsProfessor() {
		return Disciplina{}, ErrProfessorNotFound
	}
	return svc.repo.SetProfessor(ctx, id, professorID)
}

func (svc *service) RemoveProfessor(ctx context.Context, id string) (Disciplina, error) {
	if !core.IsValidID(id) {
		return Disciplina{}, core.NewValidationError(errInvalidID)
	}
	return svc.repo.UnsetProfessor(ctx, id)
}

func (svc *service) AddTurma(ctx context.Context, id, turmaID string) (Disciplina, error) {
	if !core.IsValidID(id) || !core.IsValidID(turmaID) {
		return Disciplina{}, core.NewValidationError(errInvalidID)
	}
	return svc.repo.SetTurma(ctx, id, turmaID)
}

func (svc *service) RemoveTurma(ctx context.Context, id string) (Disciplina, error) {
	if !core.IsValidID(id) {
		return Disciplina{}, core.NewValidationError(errInvalidID)
	}
	return svc.repo.UnsetTurma(ctx, id)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteDisciplina(ctx, id)
}
