package repository

import (
	"context"
	"time"

	"mesto_backend/internal/domain/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type cardDocument struct {
	ID        primitive.ObjectID   `bson:"_id"`
	Name      string               `bson:"name"`
	Link      string               `bson:"link"`
	Owner     primitive.ObjectID   `bson:"owner"`
	Likes     []primitive.ObjectID `bson:"likes"`
	CreatedAt time.Time            `bson:"createdAt"`
}

func (d *cardDocument) toModel() *model.Card {
	likes := make([]string, 0, len(d.Likes))
	for _, id := range d.Likes {
		likes = append(likes, id.Hex())
	}
	return &model.Card{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Link:      d.Link,
		Owner:     d.Owner.Hex(),
		Likes:     likes,
		CreatedAt: d.CreatedAt,
	}
}

type mongoCardRepository struct {
	collection *mongo.Collection
}

func NewMongoCardRepository(db *mongo.Database) CardRepository {
	return &mongoCardRepository{collection: db.Collection(CardsCollection)}
}

func (r *mongoCardRepository) Create(ctx context.Context, card *model.Card) error {
	const op = "mongoCardRepository.Create"
	if err := CheckCard(op, card); err != nil {
		return err
	}
	owner, err := parseID(op, card.Owner)
	if err != nil {
		return err
	}
	doc := cardDocument{
		ID:        primitive.NewObjectID(),
		Name:      card.Name,
		Link:      card.Link,
		Owner:     owner,
		Likes:     []primitive.ObjectID{},
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return classifyMongoError(op, err)
	}
	*card = *doc.toModel()
	return nil
}

func (r *mongoCardRepository) FindAll(ctx context.Context) ([]model.Card, error) {
	const op = "mongoCardRepository.FindAll"
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, classifyMongoError(op, err)
	}
	var docs []cardDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, classifyMongoError(op, err)
	}
	cards := make([]model.Card, 0, len(docs))
	for i := range docs {
		cards = append(cards, *docs[i].toModel())
	}
	return cards, nil
}

func (r *mongoCardRepository) FindByID(ctx context.Context, id string) (*model.Card, error) {
	const op = "mongoCardRepository.FindByID"
	oid, err := parseID(op, id)
	if err != nil {
		return nil, err
	}
	var doc cardDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, classifyMongoError(op, err)
	}
	return doc.toModel(), nil
}

func (r *mongoCardRepository) DeleteByID(ctx context.Context, id string) error {
	const op = "mongoCardRepository.DeleteByID"
	oid, err := parseID(op, id)
	if err != nil {
		return err
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return classifyMongoError(op, err)
	}
	if res.DeletedCount == 0 {
		return NewStorageError(op, OutcomeNotFound, mongo.ErrNoDocuments)
	}
	return nil
}

func (r *mongoCardRepository) AddLike(ctx context.Context, cardID, userID string) (*model.Card, error) {
	return r.updateLikes(ctx, "mongoCardRepository.AddLike", "$addToSet", cardID, userID)
}

func (r *mongoCardRepository) RemoveLike(ctx context.Context, cardID, userID string) (*model.Card, error) {
	return r.updateLikes(ctx, "mongoCardRepository.RemoveLike", "$pull", cardID, userID)
}

func (r *mongoCardRepository) updateLikes(ctx context.Context, op, operator, cardID, userID string) (*model.Card, error) {
	cid, err := parseID(op, cardID)
	if err != nil {
		return nil, err
	}
	uid, err := parseID(op, userID)
	if err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc cardDocument
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": cid},
		bson.M{operator: bson.M{"likes": uid}},
		opts,
	).Decode(&doc)
	if err != nil {
		return nil, classifyMongoError(op, err)
	}
	return doc.toModel(), nil
}
