package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tasktrack/tasks-service/internal/core/domain"
)

const collectionStatusEvents = "status_events"

// AuditRepository implements ports.AuditRepository on the status_events
// collection. Documents are append-only.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionStatusEvents)}
}

// statusEvent is the stored shape of a domain.StatusChange.
type statusEvent struct {
	Entity     string    `bson:"entity"`
	EntityID   int64     `bson:"entity_id"`
	Field      string    `bson:"field"`
	From       string    `bson:"from,omitempty"`
	To         string    `bson:"to"`
	ChangedAt  time.Time `bson:"changed_at"`
	RecordedAt time.Time `bson:"recorded_at"`
}

// Record inserts one status change.
func (r *AuditRepository) Record(ctx context.Context, c domain.StatusChange) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := statusEvent{
		Entity:     string(c.Entity),
		EntityID:   c.EntityID,
		Field:      c.Field,
		From:       c.From,
		To:         c.To,
		ChangedAt:  c.ChangedAt.UTC(),
		RecordedAt: time.Now().UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert status event: %w", err)
	}
	return nil
}

// History returns the changes of one entity ordered by changed_at, then by
// insertion order.
func (r *AuditRepository) History(ctx context.Context, entity domain.EntityKind, id int64) ([]domain.StatusChange, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"entity": string(entity), "entity_id": id}
	opts := options.Find().SetSort(bson.D{{Key: "changed_at", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find status events: %w", err)
	}
	defer cur.Close(ctx)

	var docs []statusEvent
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode status events: %w", err)
	}

	changes := make([]domain.StatusChange, 0, len(docs))
	for _, d := range docs {
		changes = append(changes, domain.StatusChange{
			Entity:    domain.EntityKind(d.Entity),
			EntityID:  d.EntityID,
			Field:     d.Field,
			From:      d.From,
			To:        d.To,
			ChangedAt: d.ChangedAt.UTC(),
		})
	}
	return changes, nil
}

// EnsureIndexes creates the lookup index used by History.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "entity", Value: 1}, {Key: "entity_id", Value: 1}, {Key: "changed_at", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
