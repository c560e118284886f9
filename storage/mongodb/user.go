package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mediotec/portal-api/core/user"
)

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Nome         string             `bson:"nome"`
	Login        string             `bson:"login,omitempty"`
	Email        string             `bson:"email"`
	Tipo         string             `bson:"tipo"`
	PasswordHash []byte             `bson:"password"`
	CreatedAt    time.Time          `bson:"created_at"`
}

func newUserDoc(usr user.User) (userDoc, error) {
	doc := userDoc{
		Nome:         usr.Nome,
		Login:        usr.Login,
		Email:        usr.Email,
		Tipo:         usr.Tipo,
		PasswordHash: usr.PasswordHash,
		CreatedAt:    usr.CreatedAt,
	}
	if usr.ID != "" {
		oid, err := primitive.ObjectIDFromHex(usr.ID)
		if err != nil {
			return userDoc{}, user.ErrNotFound
		}
		doc.ID = oid
	}
	return doc, nil
}

func (doc userDoc) toUser() user.User {
	return user.User{
		ID:           doc.ID.Hex(),
		Nome:         doc.Nome,
		Login:        doc.Login,
		Email:        doc.Email,
		Tipo:         doc.Tipo,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    doc.CreatedAt,
	}
}

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) *userRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) col() *mongo.Collection {
	return repo.db.collection(usersCollection)
}

func (repo *userRepository) CheckEmailUniqueness(ctx context.Context, email, login string, excludedUsers ...user.User) error {
	exclIDs := make([]primitive.ObjectID, 0, len(excludedUsers))
	for _, usr := range excludedUsers {
		if oid, err := primitive.ObjectIDFromHex(usr.ID); err == nil {
			exclIDs = append(exclIDs, oid)
		}
	}

	count := func(filter bson.M) (int64, error) {
		if len(exclIDs) > 0 {
			filter["_id"] = bson.M{"$nin": exclIDs}
		}
		return repo.col().CountDocuments(ctx, filter)
	}

	if email != "" {
		n, err := count(bson.M{"email": email})
		if err != nil {
			return errors.Wrap(err, "counting users by email")
		}
		if n > 0 {
			return user.ErrEmailExists
		}
	}
	if login != "" {
		n, err := count(bson.M{"login": login})
		if err != nil {
			return errors.Wrap(err, "counting users by login")
		}
		if n > 0 {
			return user.ErrLoginExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	doc, err := newUserDoc(usr)
	if err != nil {
		return user.User{}, err
	}
	res, err := repo.col().InsertOne(ctx, doc)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toUser(), nil
}

func (repo *userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	return repo.queryUsers(ctx, bson.M{})
}

func (repo *userRepository) QueryUsersByTipo(ctx context.Context, tipo string) ([]user.User, error) {
	return repo.queryUsers(ctx, bson.M{"tipo": tipo})
}

func (repo *userRepository) queryUsers(ctx context.Context, filter bson.M) ([]user.User, error) {
	cur, err := repo.col().Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding users")
	}
	users := make([]user.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, doc.toUser())
	}
	return users, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return user.User{}, user.ErrNotFound
	}
	return repo.getUser(ctx, bson.M{"_id": oid})
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return repo.getUser(ctx, bson.M{"email": email})
}

func (repo *userRepository) getUser(ctx context.Context, filter bson.M) (user.User, error) {
	var doc userDoc
	if err := repo.col().FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "finding user")
	}
	return doc.toUser(), nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	doc, err := newUserDoc(usr)
	if err != nil {
		return user.User{}, err
	}
	res, err := repo.col().ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if res.MatchedCount == 0 {
		return user.User{}, user.ErrNotFound
	}
	return doc.toUser(), nil
}

func (repo *userRepository) DeleteUser(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return user.ErrNotFound
	}
	if _, err := repo.col().DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return errors.Wrap(err, "deleting user")
	}
	return nil
}
