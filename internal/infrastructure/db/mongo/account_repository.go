package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/codehive/classroom/internal/core/domain"
)

const accountCollection = "users"

// AccountRepository implements ports.AccountRepository on MongoDB. Every
// operation is a single-document read or update, so per-document atomicity in
// the store is all the coordination required.
type AccountRepository struct {
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{coll: db.Collection(accountCollection)}
}

type mongoAccount struct {
	ID           primitive.ObjectID             `bson:"_id,omitempty"`
	Username     string                         `bson:"username"`
	PasswordHash string                         `bson:"password_hash,omitempty"`
	GroupNumber  int                            `bson:"group_number"`
	Role         string                         `bson:"role,omitempty"`
	Courses      []string                       `bson:"courses,omitempty"`
	Environments []domain.EnvironmentDescriptor `bson:"environments,omitempty"`
	CreatedAt    int64                          `bson:"created_at,omitempty"`
	UpdatedAt    int64                          `bson:"updated_at,omitempty"`
}

func (a mongoAccount) toDomain() *domain.UserAccount {
	return &domain.UserAccount{
		ID:           a.ID.Hex(),
		Username:     a.Username,
		PasswordHash: a.PasswordHash,
		GroupNumber:  a.GroupNumber,
		Role:         a.Role,
		Courses:      a.Courses,
		Environments: a.Environments,
		CreatedAt:    unixToTime(a.CreatedAt),
		UpdatedAt:    unixToTime(a.UpdatedAt),
	}
}

// FindByUsername returns (nil, nil) when no account exists for username.
func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*domain.UserAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var acc mongoAccount
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&acc); err != nil {
		if isNoDocuments(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return acc.toDomain(), nil
}

// SetPassword stores the hash and drops the legacy plaintext password field in
// the same update, so no document ever carries both.
func (r *AccountRepository) SetPassword(ctx context.Context, username, passwordHash string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$set":   bson.M{"password_hash": passwordHash, "updated_at": time.Now().UTC().Unix()},
		"$unset": bson.M{"password": ""},
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"username": username}, update)
	if err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// ListEnvironments reads only the environments field.
func (r *AccountRepository) ListEnvironments(ctx context.Context, username string) ([]domain.EnvironmentDescriptor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOne().SetProjection(bson.M{"environments": 1})

	var acc mongoAccount
	if err := r.coll.FindOne(ctx, bson.M{"username": username}, opts).Decode(&acc); err != nil {
		if isNoDocuments(err) {
			return []domain.EnvironmentDescriptor{}, nil
		}
		return nil, fmt.Errorf("list environments: %w", err)
	}
	if acc.Environments == nil {
		return []domain.EnvironmentDescriptor{}, nil
	}
	return acc.Environments, nil
}

// AddEnvironment pushes env only when no entry with the same name exists. The
// name guard lives in the filter, not in a prior read, so concurrent adds of
// the same name cannot both match.
func (r *AccountRepository) AddEnvironment(ctx context.Context, username string, env domain.EnvironmentDescriptor) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"username":          username,
		"environments.name": bson.M{"$ne": env.Name},
	}
	update := bson.M{"$push": bson.M{"environments": env}}

	_, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("add environment: %w", err)
	}
	// MatchedCount == 0 means the name already exists: postcondition holds.
	return nil
}

// RemoveEnvironment pulls the named entry; absent entries are a no-op.
func (r *AccountRepository) RemoveEnvironment(ctx context.Context, username, name string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$pull": bson.M{"environments": bson.M{"name": name}}}

	_, err := r.coll.UpdateOne(ctx, bson.M{"username": username}, update)
	if err != nil {
		return fmt.Errorf("remove environment: %w", err)
	}
	return nil
}

// ListAll returns every account projected to its roster-relevant fields.
func (r *AccountRepository) ListAll(ctx context.Context) ([]*domain.UserAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{
		"username":     1,
		"group_number": 1,
		"role":         1,
		"courses":      1,
	})

	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.UserAccount
	for cur.Next(ctx) {
		var acc mongoAccount
		if err := cur.Decode(&acc); err != nil {
			return nil, fmt.Errorf("decode account: %w", err)
		}
		out = append(out, acc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return out, nil
}

// EnsureIndexes creates the unique username index.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// isNoDocuments reports whether err is the driver's no-result marker, even
// when the driver hands it back wrapped.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
