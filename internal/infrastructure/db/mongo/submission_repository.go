package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/codehive/classroom/internal/core/domain"
)

const submissionCollection = "submissions"

// SubmissionRepository implements ports.SubmissionRepository on MongoDB.
//
// Replace runs inside a multi-document transaction: the two delete phases and
// the insert commit together or not at all, so a failed delete can never
// leave both an old and a new record visible.
type SubmissionRepository struct {
	coll *mongo.Collection
}

func NewSubmissionRepository(db *mongo.Database) *SubmissionRepository {
	return &SubmissionRepository{coll: db.Collection(submissionCollection)}
}

type mongoSubmission struct {
	ID             primitive.ObjectID     `bson:"_id,omitempty"`
	Username       string                 `bson:"username"`
	GroupNumber    int                    `bson:"group_number"`
	Environment    string                 `bson:"environment"`
	CreatedAt      time.Time              `bson:"created_at"`
	TerminalStates []domain.TerminalState `bson:"terminal_states"`
	Files          []domain.SubmittedFile `bson:"files"`
}

// Replace deletes every record for (username, environment), every record for
// (groupNumber, environment), then inserts record, all in one transaction.
// The group delete is independent of the user delete: it may remove records
// created by other members of the same group.
func (r *SubmissionRepository) Replace(ctx context.Context, record *domain.SubmissionRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoSubmission{
		Username:       record.Username,
		GroupNumber:    record.GroupNumber,
		Environment:    record.Environment,
		CreatedAt:      record.CreatedAt.UTC(),
		TerminalStates: record.TerminalStates,
		Files:          record.Files,
	}

	session, err := r.coll.Database().Client().StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.coll.DeleteMany(sc, bson.M{
			"username":    doc.Username,
			"environment": doc.Environment,
		}); err != nil {
			return nil, fmt.Errorf("delete user submissions: %w", err)
		}

		if _, err := r.coll.DeleteMany(sc, bson.M{
			"group_number": doc.GroupNumber,
			"environment":  doc.Environment,
		}); err != nil {
			return nil, fmt.Errorf("delete group submissions: %w", err)
		}

		if _, err := r.coll.InsertOne(sc, doc); err != nil {
			return nil, fmt.Errorf("insert submission: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSubmissionFailed, err)
	}
	return nil
}

// ListByOwner returns every submission whose username or group number matches,
// projected to the assignment name and last-changed time.
func (r *SubmissionRepository) ListByOwner(ctx context.Context, username string, groupNumber int) ([]domain.SubmissionSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"$or": bson.A{
		bson.M{"username": username},
		bson.M{"group_number": groupNumber},
	}}
	opts := options.Find().SetProjection(bson.M{"environment": 1, "created_at": 1})

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.SubmissionSummary
	for cur.Next(ctx) {
		var s mongoSubmission
		if err := cur.Decode(&s); err != nil {
			return nil, fmt.Errorf("decode submission: %w", err)
		}
		out = append(out, domain.SubmissionSummary{
			AssignmentName: s.Environment,
			LastChanged:    s.CreatedAt,
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return out, nil
}

// EnsureIndexes creates the lookup indexes for both submission keys.
func (r *SubmissionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}, {Key: "environment", Value: 1}}},
		{Keys: bson.D{{Key: "group_number", Value: 1}, {Key: "environment", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
