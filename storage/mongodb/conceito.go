package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mediotec/portal-api/core/conceito"
)

type conceitoDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Aluno           primitive.ObjectID `bson:"aluno"`
	Disciplina      primitive.ObjectID `bson:"disciplina"`
	Conceito1       *float64           `bson:"conceito1,omitempty"`
	Conceito2       *float64           `bson:"conceito2,omitempty"`
	ConceitoParcial *float64           `bson:"conceitoParcial,omitempty"`
	ConceitoRec     *float64           `bson:"conceitoRec,omitempty"`
	ConceitoFinal   *float64           `bson:"conceitoFinal,omitempty"`
	CreatedAt       time.Time          `bson:"created_at"`
}

func newConceitoDoc(c conceito.Conceito) (conceitoDoc, error) {
	alunoOID, err := primitive.ObjectIDFromHex(c.Aluno)
	if err != nil {
		return conceitoDoc{}, conceito.ErrNotFound
	}
	discOID, err := primitive.ObjectIDFromHex(c.Disciplina)
	if err != nil {
		return conceitoDoc{}, conceito.ErrNotFound
	}
	doc := conceitoDoc{
		Aluno:           alunoOID,
		Disciplina:      discOID,
		Conceito1:       c.Conceito1,
		Conceito2:       c.Conceito2,
		ConceitoParcial: c.ConceitoParcial,
		ConceitoRec:     c.ConceitoRec,
		ConceitoFinal:   c.ConceitoFinal,
		CreatedAt:       c.CreatedAt,
	}
	if c.ID != "" {
		oid, err := primitive.ObjectIDFromHex(c.ID)
		if err != nil {
			return conceitoDoc{}, conceito.ErrNotFound
		}
		doc.ID = oid
	}
	return doc, nil
}

func (doc conceitoDoc) toConceito() conceito.Conceito {
	return conceito.Conceito{
		ID:              doc.ID.Hex(),
		Aluno:           doc.Aluno.Hex(),
		Disciplina:      doc.Disciplina.Hex(),
		Conceito1:       doc.Conceito1,
		Conceito2:       doc.Conceito2,
		ConceitoParcial: doc.ConceitoParcial,
		ConceitoRec:     doc.ConceitoRec,
		ConceitoFinal:   doc.ConceitoFinal,
		CreatedAt:       doc.CreatedAt,
	}
}

type conceitoRepository struct {
	db *DB
}

var _ conceito.Repository = (*conceitoRepository)(nil) // interface compliance check

func NewConceitoRepository(db *DB) *conceitoRepository {
	return &conceitoRepository{db: db}
}

func (repo *conceitoRepository) col() *mongo.Collection {
	return repo.db.collection(conceitosCollection)
}

func (repo *conceitoRepository) CreateConceito(ctx context.Context, c conceito.Conceito) (conceito.Conceito, error) {
	doc, err := newConceitoDoc(c)
	if err != nil {
		return conceito.Conceito{}, err
	}
	res, err := repo.col().InsertOne(ctx, doc)
	if err != nil {
		return conceito.Conceito{}, errors.Wrap(err, "inserting conceito")
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toConceito(), nil
}

func (repo *conceitoRepository) QueryAllConceitos(ctx context.Context) ([]conceito.Detail, error) {
	return repo.queryDetails(ctx, bson.M{})
}

func (repo *conceitoRepository) QueryConceitosByAluno(ctx context.Context, alunoID, disciplinaID string) ([]conceito.Detail, error) {
	oid, err := primitive.ObjectIDFromHex(alunoID)
	if err != nil {
		return []conceito.Detail{}, nil
	}
	filter := bson.M{"aluno": oid}
	if disciplinaID != "" {
		if dOID, err := primitive.ObjectIDFromHex(disciplinaID); err == nil {
			filter["disciplina"] = dOID
		}
	}
	return repo.queryDetails(ctx, filter)
}

func (repo *conceitoRepository) queryDetails(ctx context.Context, filter bson.M) ([]conceito.Detail, error) {
	cur, err := repo.col().Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying conceitos")
	}
	var docs []conceitoDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding conceitos")
	}
	details := make([]conceito.Detail, 0, len(docs))
	for _, doc := range docs {
		detail, err := repo.populate(ctx, doc)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}

func (repo *conceitoRepository) GetConceitoByID(ctx context.Context, id string) (conceito.Detail, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return conceito.Detail{}, conceito.ErrNotFound
	}
	var doc conceitoDoc
	if err := repo.col().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return conceito.Detail{}, conceito.ErrNotFound
		}
		return conceito.Detail{}, errors.Wrap(err, "finding conceito")
	}
	return repo.populate(ctx, doc)
}

func (repo *conceitoRepository) GetConceitoByAlunoDisciplina(ctx context.Context, alunoID, disciplinaID string) (conceito.Conceito, error) {
	alunoOID, err := primitive.ObjectIDFromHex(alunoID)
	if err != nil {
		return conceito.Conceito{}, conceito.ErrNotFound
	}
	discOID, err := primitive.ObjectIDFromHex(disciplinaID)
	if err != nil {
		return conceito.Conceito{}, conceito.ErrNotFound
	}
	var doc conceitoDoc
	if err := repo.col().FindOne(ctx, bson.M{"aluno": alunoOID, "disciplina": discOID}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return conceito.Conceito{}, conceito.ErrNotFound
		}
		return conceito.Conceito{}, errors.Wrap(err, "finding conceito by (aluno, disciplina)")
	}
	return doc.toConceito(), nil
}

// UpdateConceitoGrades overwrites the five grade fields, preserving _id and created_at.
func (repo *conceitoRepository) UpdateConceitoGrades(ctx context.Context, id string, uc conceito.UpdateConceito) (conceito.Conceito, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return conceito.Conceito{}, conceito.ErrNotFound
	}
	update := bson.M{"$set": bson.M{
		"conceito1":       uc.Conceito1,
		"conceito2":       uc.Conceito2,
		"conceitoParcial": uc.ConceitoParcial,
		"conceitoRec":     uc.ConceitoRec,
		"conceitoFinal":   uc.ConceitoFinal,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc conceitoDoc
	if err := repo.col().FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return conceito.Conceito{}, conceito.ErrNotFound
		}
		return conceito.Conceito{}, errors.Wrap(err, "updating conceito")
	}
	return doc.toConceito(), nil
}

func (repo *conceitoRepository) DeleteConceito(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return conceito.ErrNotFound
	}
	res, err := repo.col().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return errors.Wrap(err, "deleting conceito")
	}
	if res.DeletedCount == 0 {
		return conceito.ErrNotFound
	}
	return nil
}

func (repo *conceitoRepository) populate(ctx context.Context, doc conceitoDoc) (conceito.Detail, error) {
	detail := conceito.Detail{
		ID:              doc.ID.Hex(),
		Conceito1:       doc.Conceito1,
		Conceito2:       doc.Conceito2,
		ConceitoParcial: doc.ConceitoParcial,
		ConceitoRec:     doc.ConceitoRec,
		ConceitoFinal:   doc.ConceitoFinal,
		CreatedAt:       doc.CreatedAt,
	}

	var ud userDoc
	err := repo.db.collection(usersCollection).FindOne(ctx, bson.M{"_id": doc.Aluno}).Decode(&ud)
	switch err {
	case nil:
		detail.Aluno = ud.toUser()
	case mongo.ErrNoDocuments:
		// dangling reference; deletes do not cascade
	default:
		return conceito.Detail{}, errors.Wrap(err, "populating aluno")
	}

	var dd disciplinaDoc
	err = repo.db.collection(disciplinasCollection).FindOne(ctx, bson.M{"_id": doc.Disciplina}).Decode(&dd)
	switch err {
	case nil:
		detail.Disciplina = dd.toDisciplina()
	case mongo.ErrNoDocuments:
		// dangling reference; deletes do not cascade
	default:
		return conceito.Detail{}, errors.Wrap(err, "populating disciplina")
	}

	return detail, nil
}
