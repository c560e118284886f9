package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/mediotec/portal-api/core"
)

// collection names
const (
	usersCollection       = "users"
	turmasCollection      = "turmas"
	disciplinasCollection = "disciplinas"
	conceitosCollection   = "conceitos"
	comunicadosCollection = "comunicados"
)

type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

func Open(ctx context.Context, conf *core.Config) (*DB, error) {
	opts := options.Client().
		ApplyURI(conf.Database.URI).
		SetConnectTimeout(conf.Database.Timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongodb")
	}

	pingCtx, cancel := context.WithTimeout(ctx, conf.Database.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, errors.Wrap(err, "pinging mongodb")
	}

	return &DB{
		client: client,
		db:     client.Database(conf.Database.Name),
	}, nil
}

func (db *DB) Close(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}

func (db *DB) collection(name string) *mongo.Collection {
	return db.db.Collection(name)
}

// EnsureIndexes creates the unique indexes backing the uniqueness invariants.
// Uniqueness is still checked application-side first so violations surface as
// validation errors instead of duplicate-key failures.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	if _, err := db.collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: unique,
	}); err != nil {
		return errors.Wrap(err, "creating users.email index")
	}
	if _, err := db.collection(turmasCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "nome", Value: 1}},
		Options: unique,
	}); err != nil {
		return errors.Wrap(err, "creating turmas.nome index")
	}
	if _, err := db.collection(comunicadosCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "titulo", Value: 1}},
		Options: unique,
	}); err != nil {
		return errors.Wrap(err, "creating comunicados.titulo index")
	}
	if _, err := db.collection(conceitosCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "aluno", Value: 1}, {Key: "disciplina", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return errors.Wrap(err, "creating conceitos.(aluno,disciplina) index")
	}
	return nil
}
