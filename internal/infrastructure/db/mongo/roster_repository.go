package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/codehive/classroom/internal/core/domain"
)

const courseCollection = "courses"

// RosterRepository implements ports.RosterRepository on MongoDB. Membership
// changes touch many user documents, so they run in one multi-document
// transaction: both bulk updates commit together or the whole change is
// rolled back.
type RosterRepository struct {
	users   *mongo.Collection
	courses *mongo.Collection
}

func NewRosterRepository(db *mongo.Database) *RosterRepository {
	return &RosterRepository{
		users:   db.Collection(accountCollection),
		courses: db.Collection(courseCollection),
	}
}

// UpdateMembership adds courseID to every account in addIDs and removes it
// from every account in removeIDs. $addToSet keeps the course set duplicate
// free under repeated adds; the $pull runs second, so an ID present in both
// lists ends without the course. The session is ended on every exit path.
func (r *RosterRepository) UpdateMembership(ctx context.Context, addIDs, removeIDs []string, courseID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	addOIDs, err := toObjectIDs(addIDs)
	if err != nil {
		return err
	}
	removeOIDs, err := toObjectIDs(removeIDs)
	if err != nil {
		return err
	}

	session, err := r.users.Database().Client().StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if len(addOIDs) > 0 {
			filter := bson.M{"_id": bson.M{"$in": addOIDs}}
			update := bson.M{"$addToSet": bson.M{"courses": courseID}}
			if _, err := r.users.UpdateMany(sc, filter, update); err != nil {
				return nil, fmt.Errorf("add members: %w", err)
			}
		}

		if len(removeOIDs) > 0 {
			filter := bson.M{"_id": bson.M{"$in": removeOIDs}}
			update := bson.M{"$pull": bson.M{"courses": courseID}}
			if _, err := r.users.UpdateMany(sc, filter, update); err != nil {
				return nil, fmt.Errorf("remove members: %w", err)
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRosterAborted, err)
	}
	return nil
}

// ListCourses returns every course projected to id, name and assignments.
func (r *RosterRepository) ListCourses(ctx context.Context) ([]*domain.CourseRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"name": 1, "assignments": 1})

	cur, err := r.courses.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.CourseRecord
	for cur.Next(ctx) {
		var doc struct {
			ID          primitive.ObjectID            `bson:"_id"`
			Name        string                        `bson:"name"`
			Assignments []domain.AssignmentDescriptor `bson:"assignments"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode course: %w", err)
		}
		out = append(out, &domain.CourseRecord{
			ID:          doc.ID.Hex(),
			Name:        doc.Name,
			Assignments: doc.Assignments,
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return out, nil
}

func toObjectIDs(ids []string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q: %w", id, err)
		}
		out = append(out, oid)
	}
	return out, nil
}
