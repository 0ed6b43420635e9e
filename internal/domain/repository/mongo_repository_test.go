package repository

import (
	"context"
	"testing"
	"time"

	"mesto_backend/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newMockMongo(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

// sentCommand returns the first command the client issued in this subtest.
func sentCommand(mt *mtest.T) bson.Raw {
	mt.Helper()
	evt := mt.GetStartedEvent()
	require.NotNil(mt, evt, "no command was sent")
	return evt.Command
}

func lookup(mt *mtest.T, cmd bson.Raw, key ...string) bson.RawValue {
	mt.Helper()
	v, err := cmd.LookupErr(key...)
	require.NoError(mt, err, "missing %v in %s", key, cmd)
	return v
}

func userDoc(id primitive.ObjectID, withPassword bool) bson.D {
	doc := bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: "Bob"},
		{Key: "about", Value: "Diver"},
		{Key: "avatar", Value: "https://example.com/bob.png"},
		{Key: "email", Value: "bob@example.com"},
	}
	if withPassword {
		doc = append(doc, bson.E{Key: "password", Value: "$2a$10$hash"})
	}
	return doc
}

func cardDoc(id, owner primitive.ObjectID, likes ...primitive.ObjectID) bson.D {
	doc := bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: "Lake"},
		{Key: "link", Value: "https://example.com/lake.jpg"},
		{Key: "owner", Value: owner},
		{Key: "createdAt", Value: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
	}
	if likes != nil {
		arr := bson.A{}
		for _, l := range likes {
			arr = append(arr, l)
		}
		doc = append(doc, bson.E{Key: "likes", Value: arr})
	}
	return doc
}

func nsOf(mt *mtest.T, collection string) string {
	return mt.DB.Name() + "." + collection
}

func TestMongoUserRepository(t *testing.T) {
	mt := newMockMongo(t)
	ctx := context.Background()

	mt.Run("create stores the hash and assigns an id", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user := model.NewUser(model.NewUserParams{Email: "bob@example.com", PasswordHash: "$2a$10$hash"})
		require.NoError(mt, repo.Create(ctx, user))
		assert.Len(mt, user.ID, 24)

		cmd := sentCommand(mt)
		assert.Equal(mt, UsersCollection, lookup(mt, cmd, "insert").StringValue())
		assert.Equal(mt, "bob@example.com", lookup(mt, cmd, "documents", "0", "email").StringValue())
		assert.Equal(mt, "$2a$10$hash", lookup(mt, cmd, "documents", "0", "password").StringValue())
		assert.Equal(mt, user.ID, lookup(mt, cmd, "documents", "0", "_id").ObjectID().Hex())
	})

	mt.Run("create with a taken email is a duplicate", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: users index: email_unique",
		}))

		user := model.NewUser(model.NewUserParams{Email: "bob@example.com", PasswordHash: "$2a$10$hash"})
		err := repo.Create(ctx, user)
		assert.Equal(mt, OutcomeDuplicate, OutcomeOf(err))
		assert.Empty(mt, user.ID)
	})

	mt.Run("create rejects an invalid record without a round trip", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		user := model.NewUser(model.NewUserParams{Email: "not-an-email"})

		assert.Equal(mt, OutcomeInvalid, OutcomeOf(repo.Create(ctx, user)))
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("find by id projects the password away", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, nsOf(mt, UsersCollection), mtest.FirstBatch, userDoc(id, false)))

		user, err := repo.FindByID(ctx, id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), user.ID)
		assert.Empty(mt, user.Password)

		cmd := sentCommand(mt)
		assert.Equal(mt, id, lookup(mt, cmd, "filter", "_id").ObjectID())
		lookup(mt, cmd, "projection", "password")
	})

	mt.Run("find by id on a missing user is not found", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, nsOf(mt, UsersCollection), mtest.FirstBatch))

		_, err := repo.FindByID(ctx, primitive.NewObjectID().Hex())
		assert.Equal(mt, OutcomeNotFound, OutcomeOf(err))
	})

	mt.Run("find by email loads the hash", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, nsOf(mt, UsersCollection), mtest.FirstBatch, userDoc(id, true)))

		user, err := repo.FindByEmailWithPassword(ctx, "bob@example.com")
		require.NoError(mt, err)
		assert.Equal(mt, "$2a$10$hash", user.Password)

		cmd := sentCommand(mt)
		assert.Equal(mt, "bob@example.com", lookup(mt, cmd, "filter", "email").StringValue())
		_, err = cmd.LookupErr("projection")
		assert.Error(mt, err)
	})

	mt.Run("update sets only the supplied fields", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: userDoc(id, false)}))

		name, about := "Bob", "Diver"
		user, err := repo.Update(ctx, id.Hex(), model.UserUpdate{Name: &name, About: &about})
		require.NoError(mt, err)
		assert.Equal(mt, "Diver", user.About)

		cmd := sentCommand(mt)
		assert.Equal(mt, "Bob", lookup(mt, cmd, "update", "$set", "name").StringValue())
		assert.Equal(mt, "Diver", lookup(mt, cmd, "update", "$set", "about").StringValue())
		_, err = cmd.LookupErr("update", "$set", "avatar")
		assert.Error(mt, err)
		assert.True(mt, lookup(mt, cmd, "new").Boolean())
	})

	mt.Run("update of a missing user is not found", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		avatar := "https://example.com/a.png"
		_, err := repo.Update(ctx, primitive.NewObjectID().Hex(), model.UserUpdate{Avatar: &avatar})
		assert.Equal(mt, OutcomeNotFound, OutcomeOf(err))
	})

	mt.Run("empty update reads the record back", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, nsOf(mt, UsersCollection), mtest.FirstBatch, userDoc(id, false)))

		user, err := repo.Update(ctx, id.Hex(), model.UserUpdate{})
		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), user.ID)
		assert.Equal(mt, UsersCollection, lookup(mt, sentCommand(mt), "find").StringValue())
	})
}

func TestMongoCardRepository(t *testing.T) {
	mt := newMockMongo(t)
	ctx := context.Background()
	owner := primitive.NewObjectID()
	fan := primitive.NewObjectID()

	mt.Run("create starts with no likes", func(mt *mtest.T) {
		repo := NewMongoCardRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		card := model.NewCard("Lake", "https://example.com/lake.jpg", owner.Hex())
		require.NoError(mt, repo.Create(ctx, card))
		assert.Len(mt, card.ID, 24)
		assert.Equal(mt, []string{}, card.Likes)
		assert.False(mt, card.CreatedAt.IsZero())

		cmd := sentCommand(mt)
		assert.Equal(mt, owner, lookup(mt, cmd, "documents", "0", "owner").ObjectID())
		likes, err := lookup(mt, cmd, "documents", "0", "likes").Array().Values()
		require.NoError(mt, err)
		assert.Empty(mt, likes)
	})

	mt.Run("add like uses addToSet", func(mt *mtest.T) {
		repo := NewMongoCardRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: cardDoc(id, owner, fan)}))

		card, err := repo.AddLike(ctx, id.Hex(), fan.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, []string{fan.Hex()}, card.Likes)
		assert.Equal(mt, owner.Hex(), card.Owner)

		cmd := sentCommand(mt)
		assert.Equal(mt, id, lookup(mt, cmd, "query", "_id").ObjectID())
		assert.Equal(mt, fan, lookup(mt, cmd, "update", "$addToSet", "likes").ObjectID())
	})

	mt.Run("add like on a document without likes returns an empty list", func(mt *mtest.T) {
		repo := NewMongoCardRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: cardDoc(id, owner)}))

		card, err := repo.AddLike(ctx, id.Hex(), fan.Hex())
		require.NoError(mt, err)
		assert.NotNil(mt, card.Likes)
		assert.Empty(mt, card.Likes)
	})

	mt.Run("remove like uses pull", func(mt *mtest.T) {
		repo := NewMongoCardRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: cardDoc(id, owner, []primitive.ObjectID{}...)}))

		card, err := repo.RemoveLike(ctx, id.Hex(), fan.Hex())
		require.NoError(mt, err)
		assert.Empty(mt, card.Likes)

		cmd := sentCommand(mt)
		assert.Equal(mt, fan, lookup(mt, cmd, "update", "$pull", "likes").ObjectID())
	})

	mt.Run("likes on a missing card are not found", func(mt *mtest.T) {
		repo := NewMongoCardRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
		)

		_, err := repo.AddLike(ctx, primitive.NewObjectID().Hex(), fan.Hex())
		assert.Equal(mt, OutcomeNotFound, OutcomeOf(err))
		_, err = repo.RemoveLike(ctx, primitive.NewObjectID().Hex(), fan.Hex())
		assert.Equal(mt, OutcomeNotFound, OutcomeOf(err))
	})

	mt.Run("likes with a malformed id never reach the server", func(mt *mtest.T) {
		repo := NewMongoCardRepository(mt.DB)

		_, err := repo.AddLike(ctx, "nope", fan.Hex())
		assert.Equal(mt, OutcomeInvalid, OutcomeOf(err))
		_, err = repo.RemoveLike(ctx, primitive.NewObjectID().Hex(), "nope")
		assert.Equal(mt, OutcomeInvalid, OutcomeOf(err))
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("delete by id", func(mt *mtest.T) {
		repo := NewMongoCardRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		require.NoError(mt, repo.DeleteByID(ctx, id.Hex()))
		cmd := sentCommand(mt)
		assert.Equal(mt, id, lookup(mt, cmd, "deletes", "0", "q", "_id").ObjectID())
	})

	mt.Run("delete of a missing card is not found", func(mt *mtest.T) {
		repo := NewMongoCardRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := repo.DeleteByID(ctx, primitive.NewObjectID().Hex())
		assert.Equal(mt, OutcomeNotFound, OutcomeOf(err))
	})

	mt.Run("find all keeps documents in order", func(mt *mtest.T) {
		repo := NewMongoCardRepository(mt.DB)
		first, second := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, nsOf(mt, CardsCollection), mtest.FirstBatch,
			cardDoc(first, owner, fan),
			cardDoc(second, owner),
		))

		cards, err := repo.FindAll(ctx)
		require.NoError(mt, err)
		require.Len(mt, cards, 2)
		assert.Equal(mt, first.Hex(), cards[0].ID)
		assert.Equal(mt, []string{fan.Hex()}, cards[0].Likes)
		assert.Equal(mt, []string{}, cards[1].Likes)
	})
}
