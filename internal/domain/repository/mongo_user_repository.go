package repository

import (
	"context"
	"errors"

	"mesto_backend/internal/domain/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	UsersCollection = "users"
	CardsCollection = "cards"
)

// codeDocumentValidationFailure is raised when a collection $jsonSchema
// rejects a write.
const codeDocumentValidationFailure = 121

type userDocument struct {
	ID       primitive.ObjectID `bson:"_id"`
	Name     string             `bson:"name"`
	About    string             `bson:"about"`
	Avatar   string             `bson:"avatar"`
	Email    string             `bson:"email"`
	Password string             `bson:"password,omitempty"`
}

func (d *userDocument) toModel() *model.User {
	return &model.User{
		ID:       d.ID.Hex(),
		Name:     d.Name,
		About:    d.About,
		Avatar:   d.Avatar,
		Email:    d.Email,
		Password: d.Password,
	}
}

var withoutPassword = bson.M{"password": 0}

type mongoUserRepository struct {
	collection *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{collection: db.Collection(UsersCollection)}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *model.User) error {
	const op = "mongoUserRepository.Create"
	if err := CheckUser(op, user); err != nil {
		return err
	}
	doc := userDocument{
		ID:       primitive.NewObjectID(),
		Name:     user.Name,
		About:    user.About,
		Avatar:   user.Avatar,
		Email:    user.Email,
		Password: user.Password,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return classifyMongoError(op, err)
	}
	user.ID = doc.ID.Hex()
	return nil
}

func (r *mongoUserRepository) FindAll(ctx context.Context) ([]model.User, error) {
	const op = "mongoUserRepository.FindAll"
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetProjection(withoutPassword))
	if err != nil {
		return nil, classifyMongoError(op, err)
	}
	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, classifyMongoError(op, err)
	}
	users := make([]model.User, 0, len(docs))
	for i := range docs {
		users = append(users, *docs[i].toModel())
	}
	return users, nil
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	const op = "mongoUserRepository.FindByID"
	oid, err := parseID(op, id)
	if err != nil {
		return nil, err
	}
	var doc userDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}, options.FindOne().SetProjection(withoutPassword)).Decode(&doc)
	if err != nil {
		return nil, classifyMongoError(op, err)
	}
	return doc.toModel(), nil
}

func (r *mongoUserRepository) FindByEmailWithPassword(ctx context.Context, email string) (*model.User, error) {
	const op = "mongoUserRepository.FindByEmailWithPassword"
	var doc userDocument
	if err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		return nil, classifyMongoError(op, err)
	}
	return doc.toModel(), nil
}

func (r *mongoUserRepository) Update(ctx context.Context, id string, update model.UserUpdate) (*model.User, error) {
	const op = "mongoUserRepository.Update"
	oid, err := parseID(op, id)
	if err != nil {
		return nil, err
	}
	if err := CheckUserUpdate(op, update); err != nil {
		return nil, err
	}

	if update.IsEmpty() {
		return r.FindByID(ctx, id)
	}

	set := bson.M{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.About != nil {
		set["about"] = *update.About
	}
	if update.Avatar != nil {
		set["avatar"] = *update.Avatar
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(withoutPassword)
	var doc userDocument
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		return nil, classifyMongoError(op, err)
	}
	return doc.toModel(), nil
}

// classifyMongoError folds driver errors into an Outcome.
func classifyMongoError(op string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return NewStorageError(op, OutcomeNotFound, err)
	case mongo.IsDuplicateKeyError(err):
		return NewStorageError(op, OutcomeDuplicate, err)
	}
	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) && serverErr.HasErrorCode(codeDocumentValidationFailure) {
		return NewStorageError(op, OutcomeInvalid, err)
	}
	return NewStorageError(op, OutcomeFailure, err)
}
