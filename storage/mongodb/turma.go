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
	"github.com/mediotec/portal-api/core/turma"
	"github.com/mediotec/portal-api/core/user"
)

type turmaDoc struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Nome        string               `bson:"nome"`
	Ano         int                  `bson:"ano"`
	Serie       string               `bson:"serie"`
	Alunos      []primitive.ObjectID `bson:"aluno"`
	Disciplinas []primitive.ObjectID `bson:"disciplinas"`
	CreatedAt   time.Time            `bson:"created_at"`
}

func newTurmaDoc(t turma.Turma) (turmaDoc, error) {
	doc := turmaDoc{
		Nome:        t.Nome,
		Ano:         t.Ano,
		Serie:       t.Serie,
		Alunos:      toObjectIDs(t.Alunos),
		Disciplinas: toObjectIDs(t.Disciplinas),
		CreatedAt:   t.CreatedAt,
	}
	if t.ID != "" {
		oid, err := primitive.ObjectIDFromHex(t.ID)
		if err != nil {
			return turmaDoc{}, turma.ErrNotFound
		}
		doc.ID = oid
	}
	return doc, nil
}

func (doc turmaDoc) toTurma() turma.Turma {
	return turma.Turma{
		ID:          doc.ID.Hex(),
		Nome:        doc.Nome,
		Ano:         doc.Ano,
		Serie:       doc.Serie,
		Alunos:      toHexIDs(doc.Alunos),
		Disciplinas: toHexIDs(doc.Disciplinas),
		CreatedAt:   doc.CreatedAt,
	}
}

func toObjectIDs(ids []string) []primitive.ObjectID {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	return oids
}

func toHexIDs(oids []primitive.ObjectID) []string {
	ids := make([]string, 0, len(oids))
	for _, oid := range oids {
		ids = append(ids, oid.Hex())
	}
	return ids
}

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

func (repo *turmaRepository) col() *mongo.Collection {
	return repo.db.collection(turmasCollection)
}

func (repo *turmaRepository) CheckNomeUniqueness(ctx context.Context, nome string, excludedTurmas ...turma.Turma) error {
	filter := bson.M{"nome": nome}
	exclIDs := make([]primitive.ObjectID, 0, len(excludedTurmas))
	for _, t := range excludedTurmas {
		if oid, err := primitive.ObjectIDFromHex(t.ID); err == nil {
			exclIDs = append(exclIDs, oid)
		}
	}
	if len(exclIDs) > 0 {
		filter["_id"] = bson.M{"$nin": exclIDs}
	}
	n, err := repo.col().CountDocuments(ctx, filter)
	if err != nil {
		return errors.Wrap(err, "counting turmas by nome")
	}
	if n > 0 {
		return turma.ErrNomeExists
	}
	return nil
}

func (repo *turmaRepository) CreateTurma(ctx context.Context, t turma.Turma) (turma.Turma, error) {
	doc, err := newTurmaDoc(t)
	if err != nil {
		return turma.Turma{}, err
	}
	res, err := repo.col().InsertOne(ctx, doc)
	if err != nil {
		return turma.Turma{}, errors.Wrap(err, "inserting turma")
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toTurma(), nil
}

func (repo *turmaRepository) QueryAllTurmas(ctx context.Context) ([]turma.Detail, error) {
	cur, err := repo.col().Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "querying turmas")
	}
	var docs []turmaDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding turmas")
	}
	details := make([]turma.Detail, 0, len(docs))
	for _, doc := range docs {
		detail, err := repo.populate(ctx, doc)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}

func (repo *turmaRepository) GetTurmaByID(ctx context.Context, id string) (turma.Detail, error) {
	doc, err := repo.getDoc(ctx, id)
	if err != nil {
		return turma.Detail{}, err
	}
	return repo.populate(ctx, doc)
}

func (repo *turmaRepository) GetTurma(ctx context.Context, id string) (turma.Turma, error) {
	doc, err := repo.getDoc(ctx, id)
	if err != nil {
		return turma.Turma{}, err
	}
	return doc.toTurma(), nil
}

func (repo *turmaRepository) getDoc(ctx context.Context, id string) (turmaDoc, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return turmaDoc{}, turma.ErrNotFound
	}
	var doc turmaDoc
	if err := repo.col().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return turmaDoc{}, turma.ErrNotFound
		}
		return turmaDoc{}, errors.Wrap(err, "finding turma")
	}
	return doc, nil
}

// populate resolves the membership arrays into full sub-documents.
func (repo *turmaRepository) populate(ctx context.Context, doc turmaDoc) (turma.Detail, error) {
	detail := turma.Detail{
		ID:          doc.ID.Hex(),
		Nome:        doc.Nome,
		Ano:         doc.Ano,
		Serie:       doc.Serie,
		Alunos:      []user.User{},
		Disciplinas: []disciplina.Disciplina{},
		CreatedAt:   doc.CreatedAt,
	}

	if len(doc.Alunos) > 0 {
		cur, err := repo.db.collection(usersCollection).Find(ctx, bson.M{"_id": bson.M{"$in": doc.Alunos}})
		if err != nil {
			return turma.Detail{}, errors.Wrap(err, "populating alunos")
		}
		var usrDocs []userDoc
		if err := cur.All(ctx, &usrDocs); err != nil {
			return turma.Detail{}, errors.Wrap(err, "decoding alunos")
		}
		for _, ud := range usrDocs {
			detail.Alunos = append(detail.Alunos, ud.toUser())
		}
	}

	if len(doc.Disciplinas) > 0 {
		cur, err := repo.db.collection(disciplinasCollection).Find(ctx, bson.M{"_id": bson.M{"$in": doc.Disciplinas}})
		if err != nil {
			return turma.Detail{}, errors.Wrap(err, "populating disciplinas")
		}
		var dDocs []disciplinaDoc
		if err := cur.All(ctx, &dDocs); err != nil {
			return turma.Detail{}, errors.Wrap(err, "decoding disciplinas")
		}
		for _, dd := range dDocs {
			detail.Disciplinas = append(detail.Disciplinas, dd.toDisciplina())
		}
	}

	return detail, nil
}

func (repo *turmaRepository) UpdateTurma(ctx context.Context, t turma.Turma) (turma.Turma, error) {
	oid, err := primitive.ObjectIDFromHex(t.ID)
	if err != nil {
		return turma.Turma{}, turma.ErrNotFound
	}
	update := bson.M{"$set": bson.M{
		"nome":  t.Nome,
		"ano":   t.Ano,
		"serie": t.Serie,
	}}
	return repo.findOneAndUpdate(ctx, oid, update)
}

// DeleteTurma performs no cascade: dangling references in disciplinas and
// conceitos are left as-is.
func (repo *turmaRepository) DeleteTurma(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return turma.ErrNotFound
	}
	if _, err := repo.col().DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return errors.Wrap(err, "deleting turma")
	}
	return nil
}

func (repo *turmaRepository) AddAlunos(ctx context.Context, id string, alunoIDs []string) (turma.Turma, error) {
	return repo.updateArray(ctx, id, bson.M{"$addToSet": bson.M{"aluno": bson.M{"$each": toObjectIDs(alunoIDs)}}})
}

func (repo *turmaRepository) RemoveAlunos(ctx context.Context, id string, alunoIDs []string) (turma.Turma, error) {
	return repo.updateArray(ctx, id, bson.M{"$pullAll": bson.M{"aluno": toObjectIDs(alunoIDs)}})
}

func (repo *turmaRepository) AddDisciplinas(ctx context.Context, id string, disciplinaIDs []string) (turma.Turma, error) {
	return repo.updateArray(ctx, id, bson.M{"$addToSet": bson.M{"disciplinas": bson.M{"$each": toObjectIDs(disciplinaIDs)}}})
}

func (repo *turmaRepository) RemoveDisciplinas(ctx context.Context, id string, disciplinaIDs []string) (turma.Turma, error) {
	return repo.updateArray(ctx, id, bson.M{"$pullAll": bson.M{"disciplinas": toObjectIDs(disciplinaIDs)}})
}

// PushDisciplina is the disciplina-creation side of the turma linkage.
func (repo *turmaRepository) PushDisciplina(ctx context.Context, turmaID, disciplinaID string) error {
	oid, err := primitive.ObjectIDFromHex(turmaID)
	if err != nil {
		return disciplina.ErrTurmaNotFound
	}
	dOID, err := primitive.ObjectIDFromHex(disciplinaID)
	if err != nil {
		return disciplina.ErrTurmaNotFound
	}
	res, err := repo.col().UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$addToSet": bson.M{"disciplinas": dOID}})
	if err != nil {
		return errors.Wrap(err, "pushing disciplina onto turma")
	}
	if res.MatchedCount == 0 {
		return disciplina.ErrTurmaNotFound
	}
	return nil
}

func (repo *turmaRepository) updateArray(ctx context.Context, id string, update bson.M) (turma.Turma, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return turma.Turma{}, turma.ErrNotFound
	}
	return repo.findOneAndUpdate(ctx, oid, update)
}

func (repo *turmaRepository) findOneAndUpdate(ctx context.Context, oid primitive.ObjectID, update bson.M) (turma.Turma, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc turmaDoc
	if err := repo.col().FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return turma.Turma{}, turma.ErrNotFound
		}
		return turma.Turma{}, errors.Wrap(err, "updating turma")
	}
	return doc.toTurma(), nil
}
