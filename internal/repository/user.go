package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Bankydog/auth-service/internal/model"
)

// ErrUserNotFound is returned when no account matches the lookup. Storage
// specific not-found errors are translated to this sentinel so callers
// never depend on the driver.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the interface for account persistence. Accounts
// are keyed by email; the email lookup is case-sensitive, exactly as
// stored.
type UserRepository interface {
	// GetUserByEmail returns the account stored under the given email, or
	// ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// SaveUser inserts or updates the account identified by its email and
	// returns the stored state.
	SaveUser(ctx context.Context, user *model.User) (*model.User, error)

	// ListUsers returns all accounts.
	ListUsers(ctx context.Context) ([]*model.User, error)
}

const userCollection = "users"

type userMongoRepository struct {
	db *mongo.Database
}

func NewUserMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) UserRepository {
	collection := db.Collection(userCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create user indexes")
	}

	return &userMongoRepository{db: db}
}

func (r *userMongoRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	result := r.db.Collection(userCollection).FindOne(ctx, bson.M{"email": email})
	if err := result.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) SaveUser(ctx context.Context, user *model.User) (*model.User, error) {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	result := r.db.Collection(userCollection).FindOneAndReplace(
		ctx,
		bson.M{"email": user.Email},
		user,
		options.FindOneAndReplace().SetUpsert(true).SetReturnDocument(options.After),
	)
	if err := result.Err(); err != nil {
		return nil, err
	}

	var stored model.User
	if err := result.Decode(&stored); err != nil {
		return nil, err
	}

	return &stored, nil
}

func (r *userMongoRepository) ListUsers(ctx context.Context) ([]*model.User, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.db.Collection(userCollection).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*model.User
	for cursor.Next(ctx) {
		var user model.User
		if err := cursor.Decode(&user); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return users, nil
}
