package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mediotec/portal-api/core/comunicado"
)

type comunicadoDoc struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty"`
	Titulo    string              `bson:"titulo"`
	Conteudo  string              `bson:"conteudo"`
	User      *primitive.ObjectID `bson:"user,omitempty"`
	CreatedAt time.Time           `bson:"created_at"`
}

func newComunicadoDoc(c comunicado.Comunicado) (comunicadoDoc, error) {
	doc := comunicadoDoc{
		Titulo:    c.Titulo,
		Conteudo:  c.Conteudo,
		CreatedAt: c.CreatedAt,
	}
	if c.ID != "" {
		oid, err := primitive.ObjectIDFromHex(c.ID)
		if err != nil {
			return comunicadoDoc{}, comunicado.ErrNotFound
		}
		doc.ID = oid
	}
	if c.User != "" {
		if oid, err := primitive.ObjectIDFromHex(c.User); err == nil {
			doc.User = &oid
		}
	}
	return doc, nil
}

func (doc comunicadoDoc) toComunicado() comunicado.Comunicado {
	c := comunicado.Comunicado{
		ID:        doc.ID.Hex(),
		Titulo:    doc.Titulo,
		Conteudo:  doc.Conteudo,
		CreatedAt: doc.CreatedAt,
	}
	if doc.User != nil {
		c.User = doc.User.Hex()
	}
	return c
}

type comunicadoRepository struct {
	db *DB
}

var _ comunicado.Repository = (*comunicadoRepository)(nil) // interface compliance check

func NewComunicadoRepository(db *DB) *comunicadoRepository {
	return &comunicadoRepository{db: db}
}

func (repo *comunicadoRepository) col() *mongo.Collection {
	return repo.db.collection(comunicadosCollection)
}

func (repo *comunicadoRepository) CheckTituloUniqueness(ctx context.Context, titulo string, excluded ...comunicado.Comunicado) error {
	filter := bson.M{"titulo": titulo}
	exclIDs := make([]primitive.ObjectID, 0, len(excluded))
	for _, c := range excluded {
		if oid, err := primitive.ObjectIDFromHex(c.ID); err == nil {
			exclIDs = append(exclIDs, oid)
		}
	}
	if len(exclIDs) > 0 {
		filter["_id"] = bson.M{"$nin": exclIDs}
	}
	n, err := repo.col().CountDocuments(ctx, filter)
	if err != nil {
		return errors.Wrap(err, "counting comunicados by titulo")
	}
	if n > 0 {
		return comunicado.ErrTituloExists
	}
	return nil
}

func (repo *comunicadoRepository) CreateComunicado(ctx context.Context, c comunicado.Comunicado) (comunicado.Comunicado, error) {
	doc, err := newComunicadoDoc(c)
	if err != nil {
		return comunicado.Comunicado{}, err
	}
	res, err := repo.col().InsertOne(ctx, doc)
	if err != nil {
		return comunicado.Comunicado{}, errors.Wrap(err, "inserting comunicado")
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toComunicado(), nil
}

func (repo *comunicadoRepository) QueryAllComunicados(ctx context.Context) ([]comunicado.Comunicado, error) {
	return repo.query(ctx, bson.M{})
}

func (repo *comunicadoRepository) QueryComunicadosByUser(ctx context.Context, userID string) ([]comunicado.Comunicado, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []comunicado.Comunicado{}, nil
	}
	return repo.query(ctx, bson.M{"user": oid})
}

func (repo *comunicadoRepository) query(ctx context.Context, filter bson.M) ([]comunicado.Comunicado, error) {
	cur, err := repo.col().Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying comunicados")
	}
	var docs []comunicadoDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding comunicados")
	}
	comunicados := make([]comunicado.Comunicado, 0, len(docs))
	for _, doc := range docs {
		comunicados = append(comunicados, doc.toComunicado())
	}
	return comunicados, nil
}

func (repo *comunicadoRepository) GetComunicadoByID(ctx context.Context, id string) (comunicado.Comunicado, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return comunicado.Comunicado{}, comunicado.ErrNotFound
	}
	var doc comunicadoDoc
	if err := repo.col().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return comunicado.Comunicado{}, comunicado.ErrNotFound
		}
		return comunicado.Comunicado{}, errors.Wrap(err, "finding comunicado")
	}
	return doc.toComunicado(), nil
}

func (repo *comunicadoRepository) UpdateComunicado(ctx context.Context, c comunicado.Comunicado) (comunicado.Comunicado, error) {
	doc, err := newComunicadoDoc(c)
	if err != nil {
		return comunicado.Comunicado{}, err
	}
	res, err := repo.col().ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return comunicado.Comunicado{}, errors.Wrap(err, "updating comunicado")
	}
	if res.MatchedCount == 0 {
		return comunicado.Comunicado{}, comunicado.ErrNotFound
	}
	return doc.toComunicado(), nil
}

func (repo *comunicadoRepository) DeleteComunicado(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return comunicado.ErrNotFound
	}
	if _, err := repo.col().DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return errors.Wrap(err, "deleting comunicado")
	}
	return nil
}
