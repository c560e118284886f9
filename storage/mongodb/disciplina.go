package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mediotec/portal-api/core/disciplina"
)

type disciplinaDoc struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty"`
	Nome      string              `bson:"nome"`
	Professor *primitive.ObjectID `bson:"professor,omitempty"`
	Turma     *primitive.ObjectID `bson:"turma,omitempty"`
	CreatedAt time.Time           `bson:"created_at"`
}

func newDisciplinaDoc(d disciplina.Disciplina) (disciplinaDoc, error) {
	doc := disciplinaDoc{
		Nome:      d.Nome,
		CreatedAt: d.CreatedAt,
	}
	if d.ID != "" {
		oid, err := primitive.ObjectIDFromHex(d.ID)
		if err != nil {
			return disciplinaDoc{}, disciplina.ErrNotFound
		}
		doc.ID = oid
	}
	if d.Professor != "" {
		if oid, err := primitive.ObjectIDFromHex(d.Professor); err == nil {
			doc.Professor = &oid
		}
	}
	if d.Turma != "" {
		if oid, err := primitive.ObjectIDFromHex(d.Turma); err == nil {
			doc.Turma = &oid
		}
	}
	return doc, nil
}

func (doc disciplinaDoc) toDisciplina() disciplina.Disciplina {
	d := disciplina.Disciplina{
		ID:        doc.ID.Hex(),
		Nome:      doc.Nome,
		CreatedAt: doc.CreatedAt,
	}
	if doc.Professor != nil {
		d.Professor = doc.Professor.Hex()
	}
	if doc.Turma != nil {
		d.Turma = doc.Turma.Hex()
	}
	return d
}

type disciplinaRepository struct {
	db *DB
}

var _ disciplina.Repository = (*disciplinaRepository)(nil) // interface compliance check

func NewDisciplinaRepository(db *DB) *disciplinaRepository {
	return &disciplinaRepository{db: db}
}

func (repo *disciplinaRepository) col() *mongo.Collection {
	return repo.db.collection(disciplinasCollection)
}

func (repo *disciplinaRepository) CreateDisciplina(ctx context.Context, d disciplina.Disciplina) (disciplina.Disciplina, error) {
	doc, err := newDisciplinaDoc(d)
	if err != nil {
		return disciplina.Disciplina{}, err
	}
	res, err := repo.col().InsertOne(ctx, doc)
	if err != nil {
		return disciplina.Disciplina{}, errors.Wrap(err, "inserting disciplina")
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDisciplina(), nil
}

func (repo *disciplinaRepository) QueryAllDisciplinas(ctx context.Context) ([]disciplina.Detail, error) {
	return repo.queryDetails(ctx, bson.M{})
}

func (repo *disciplinaRepository) QueryDisciplinasByProfessor(ctx context.Context, professorID string) ([]disciplina.Detail, error) {
	oid, err := primitive.ObjectIDFromHex(professorID)
	if err != nil {
		return []disciplina.Detail{}, nil
	}
	return repo.queryDetails(ctx, bson.M{"professor": oid})
}

func (repo *disciplinaRepository) queryDetails(ctx context.Context, filter bson.M) ([]disciplina.Detail, error) {
	cur, err := repo.col().Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying disciplinas")
	}
	var docs []disciplinaDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding disciplinas")
	}
	details := make([]disciplina.Detail, 0, len(docs))
	for _, doc := range docs {
		detail, err := repo.populate(ctx, doc)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}

func (repo *disciplinaRepository) GetDisciplinaByID(ctx context.Context, id string) (disciplina.Detail, error) {
	doc, err := repo.getDoc(ctx, id)
	if err != nil {
		return disciplina.Detail{}, err
	}
	return repo.populate(ctx, doc)
}

func (repo *disciplinaRepository) GetDisciplina(ctx context.Context, id string) (disciplina.Disciplina, error) {
	doc, err := repo.getDoc(ctx, id)
	if err != nil {
		return disciplina.Disciplina{}, err
	}
	return doc.toDisciplina(), nil
}

func (repo *disciplinaRepository) getDoc(ctx context.Context, id string) (disciplinaDoc, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return disciplinaDoc{}, disciplina.ErrNotFound
	}
	var doc disciplinaDoc
	if err := repo.col().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return disciplinaDoc{}, disciplina.ErrNotFound
		}
		return disciplinaDoc{}, errors.Wrap(err, "finding disciplina")
	}
	return doc, nil
}

// populate resolves professor and turma references to their nome, mirroring
// the listing payloads the portal frontend expects.
func (repo *disciplinaRepository) populate(ctx context.Context, doc disciplinaDoc) (disciplina.Detail, error) {
	detail := disciplina.Detail{
		ID:        doc.ID.Hex(),
		Nome:      doc.Nome,
		CreatedAt: doc.CreatedAt,
	}

	if doc.Professor != nil {
		var ud userDoc
		err := repo.db.collection(usersCollection).FindOne(ctx, bson.M{"_id": *doc.Professor}).Decode(&ud)
		switch err {
		case nil:
			detail.Professor = &disciplina.Ref{ID: ud.ID.Hex(), Nome: ud.Nome}
		case mongo.ErrNoDocuments:
			// dangling reference; deletes do not cascade
		default:
			return disciplina.Detail{}, errors.Wrap(err, "populating professor")
		}
	}

	if doc.Turma != nil {
		var td turmaDoc
		err := repo.db.collection(turmasCollection).FindOne(ctx, bson.M{"_id": *doc.Turma}).Decode(&td)
		switch err {
		case nil:
			detail.Turma = &disciplina.Ref{ID: td.ID.Hex(), Nome: td.Nome}
		case mongo.ErrNoDocuments:
			// dangling reference; deletes do not cascade
		default:
			return disciplina.Detail{}, errors.Wrap(err, "populating turma")
		}
	}

	return detail, nil
}

func (repo *disciplinaRepository) UpdateDisciplina(ctx context.Context, d disciplina.Disciplina) (disciplina.Disciplina, error) {
	doc, err := newDisciplinaDoc(d)
	if err != nil {
		return disciplina.Disciplina{}, err
	}
	set := bson.M{"nome": doc.Nome}
	if doc.Professor != nil {
		set["professor"] = *doc.Professor
	}
	if doc.Turma != nil {
		set["turma"] = *doc.Turma
	}
	return repo.findOneAndUpdate(ctx, doc.ID, bson.M{"$set": set})
}

func (repo *disciplinaRepository) SetProfessor(ctx context.Context, id, professorID string) (disciplina.Disciplina, error) {
	return repo.setRef(ctx, id, "professor", professorID)
}

func (repo *disciplinaRepository) UnsetProfessor(ctx context.Context, id string) (disciplina.Disciplina, error) {
	return repo.unsetRef(ctx, id, "professor")
}

func (repo *disciplinaRepository) SetTurma(ctx context.Context, id, turmaID string) (disciplina.Disciplina, error) {
	return repo.setRef(ctx, id, "turma", turmaID)
}

func (repo *disciplinaRepository) UnsetTurma(ctx context.Context, id string) (disciplina.Disciplina, error) {
	return repo.unsetRef(ctx, id, "turma")
}

func (repo *disciplinaRepository) setRef(ctx context.Context, id, field, refID string) (disciplina.Disciplina, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return disciplina.Disciplina{}, disciplina.ErrNotFound
	}
	refOID, err := primitive.ObjectIDFromHex(refID)
	if err != nil {
		return disciplina.Disciplina{}, disciplina.ErrNotFound
	}
	return repo.findOneAndUpdate(ctx, oid, bson.M{"$set": bson.M{field: refOID}})
}

// unsetRef removes the field from the document entirely (not a null value).
func (repo *disciplinaRepository) unsetRef(ctx context.Context, id, field string) (disciplina.Disciplina, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return disciplina.Disciplina{}, disciplina.ErrNotFound
	}
	return repo.findOneAndUpdate(ctx, oid, bson.M{"$unset": bson.M{field: ""}})
}

func (repo *disciplinaRepository) findOneAndUpdate(ctx context.Context, oid primitive.ObjectID, update bson.M) (disciplina.Disciplina, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc disciplinaDoc
	if err := repo.col().FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return disciplina.Disciplina{}, disciplina.ErrNotFound
		}
		return disciplina.Disciplina{}, errors.Wrap(err, "updating disciplina")
	}
	return doc.toDisciplina(), nil
}

func (repo *disciplinaRepository) DeleteDisciplina(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return disciplina.ErrNotFound
	}
	res, err := repo.col().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return errors.Wrap(err, "deleting disciplina")
	}
	if res.DeletedCount == 0 {
		return disciplina.ErrNotFound
	}
	return nil
}
