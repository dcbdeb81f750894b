package todos

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/birimengo/mytrade-api/pkg/errors"
)

type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("todos")

	// Indexes backing the list filters and the reminder scan queries
	collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "dueDate", Value: 1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "priority", Value: 1}}},
		{Keys: bson.D{{Key: "reminderDate", Value: 1}, {Key: "reminderSent", Value: 1}}},
		{Keys: bson.D{{Key: "dueDate", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "reminderDate", Value: 1}, {Key: "whatsappReminderSent", Value: 1}}},
	})

	return &Repository{collection: collection}
}

// openStatuses are the statuses a reminder can still fire for.
var openStatuses = []string{StatusPending, StatusInProgress}

// applyStaleReminderReset enforces the invariant that a task with a past
// reminder date and no dispatched reminder stays "due": both sent flags are
// forced back to false so a backdated reminder date is never missed forever.
func applyStaleReminderReset(task *Task, now time.Time) {
	if task.ReminderDate != nil && task.ReminderDate.Before(now) && !task.ReminderSent {
		task.WhatsAppReminderSent = false
	}
}

func (r *Repository) Create(ctx context.Context, task *Task) error {
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	if task.Category == "" {
		task.Category = "general"
	}
	if task.Priority == "" {
		task.Priority = PriorityMedium
	}
	if task.Status == "" {
		task.Status = StatusPending
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}
	applyStaleReminderReset(task, now)

	result, err := r.collection.InsertOne(ctx, task)
	if err != nil {
		return err
	}

	task.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string, userID primitive.ObjectID) (*Task, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.ErrBadRequest
	}

	var task Task
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID, "userId": userID}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

// Update applies a partial $set and re-checks the stale-reminder invariant
// afterwards, mirroring a save hook.
func (r *Repository) Update(ctx context.Context, id string, userID primitive.ObjectID, update bson.M) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.ErrBadRequest
	}

	update["updatedAt"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID, "userId": userID},
		bson.M{"$set": update},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}

	// Stale-reminder reset: a past reminder date with reminderSent still
	// false also clears the WhatsApp flag, so the task stays due.
	_, err = r.collection.UpdateOne(
		ctx,
		bson.M{
			"_id":          objectID,
			"reminderDate": bson.M{"$lt": time.Now()},
			"reminderSent": false,
		},
		bson.M{"$set": bson.M{"whatsappReminderSent": false}},
	)
	return err
}

func (r *Repository) Delete(ctx context.Context, id string, userID primitive.ObjectID) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.ErrBadRequest
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *Repository) List(ctx context.Context, userID primitive.ObjectID, q ListQuery) ([]Task, int64, error) {
	filter := bson.M{"userId": userID}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.Priority != "" {
		filter["priority"] = q.Priority
	}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.Search != "" {
		regex := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		filter["$or"] = []bson.M{
			{"title": regex},
			{"description": regex},
		}
	}

	order := -1
	if q.SortOrder == "asc" {
		order = 1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: q.SortBy, Value: order}}).
		SetSkip(int64((q.Page - 1) * q.Limit)).
		SetLimit(int64(q.Limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var tasks []Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, 0, err
	}
	if tasks == nil {
		tasks = []Task{}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// ListOverdue returns a user's open tasks whose due date has passed.
func (r *Repository) ListOverdue(ctx context.Context, userID primitive.ObjectID) ([]Task, error) {
	return r.findSorted(ctx, bson.M{
		"userId":  userID,
		"dueDate": bson.M{"$lt": time.Now()},
		"status":  bson.M{"$in": openStatuses},
	}, bson.D{{Key: "dueDate", Value: 1}})
}

// ListUpcoming returns a user's open tasks due within the given number of days.
func (r *Repository) ListUpcoming(ctx context.Context, userID primitive.ObjectID, days int) ([]Task, error) {
	now := time.Now()
	return r.findSorted(ctx, bson.M{
		"userId":  userID,
		"dueDate": bson.M{"$gte": now, "$lte": now.AddDate(0, 0, days)},
		"status":  bson.M{"$in": openStatuses},
	}, bson.D{{Key: "dueDate", Value: 1}})
}

func (r *Repository) findSorted(ctx context.Context, filter bson.M, sort bson.D) ([]Task, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

// Complete transitions a task into completed, stamping completedAt.
// A task already completed yields ErrDuplicate.
func (r *Repository) Complete(ctx context.Context, id string, userID primitive.ObjectID) (*Task, error) {
	task, err := r.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apperrors.ErrNotFound
	}
	if task.Status == StatusCompleted {
		return nil, apperrors.ErrDuplicate
	}

	now := time.Now()
	err = r.Update(ctx, id, userID, bson.M{
		"status":      StatusCompleted,
		"completedAt": now,
	})
	if err != nil {
		return nil, err
	}

	task.Status = StatusCompleted
	task.CompletedAt = &now
	return task, nil
}

// Reopen transitions a completed task back to pending, clearing completedAt.
func (r *Repository) Reopen(ctx context.Context, id string, userID primitive.ObjectID) (*Task, error) {
	task, err := r.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apperrors.ErrNotFound
	}
	if task.Status != StatusCompleted {
		return nil, apperrors.ErrDuplicate
	}

	objectID, _ := primitive.ObjectIDFromHex(id)
	_, err = r.collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID, "userId": userID},
		bson.M{
			"$set":   bson.M{"status": StatusPending, "updatedAt": time.Now()},
			"$unset": bson.M{"completedAt": ""},
		},
	)
	if err != nil {
		return nil, err
	}

	task.Status = StatusPending
	task.CompletedAt = nil
	return task, nil
}

// dueFilter matches open tasks whose reminder has not gone out and whose
// reminder date is at or before the end of the window. There is no lower
// bound on the date: a backdated reminder stays due until reminderSent
// flips, so a failed dispatch is picked up again on the next pass.
func dueFilter(now time.Time, windowMinutes int) bson.M {
	return bson.M{
		"reminderDate": bson.M{
			"$lte": now.Add(time.Duration(windowMinutes) * time.Minute),
		},
		"reminderSent": false,
		"status":       bson.M{"$in": openStatuses},
	}
}

func overdueFilter(now time.Time) bson.M {
	return bson.M{
		"dueDate":      bson.M{"$lt": now},
		"reminderSent": false,
		"status":       bson.M{"$in": openStatuses},
	}
}

// FindDue returns tasks whose reminder date has arrived or falls inside
// the window ahead of now, with the owning user embedded.
func (r *Repository) FindDue(ctx context.Context, windowMinutes int) ([]TaskWithOwner, error) {
	return r.findWithOwner(ctx, dueFilter(time.Now(), windowMinutes))
}

// FindOverdue returns open tasks past their due date that never had their
// reminder dispatched, with the owning user embedded.
func (r *Repository) FindOverdue(ctx context.Context) ([]TaskWithOwner, error) {
	return r.findWithOwner(ctx, overdueFilter(time.Now()))
}

func (r *Repository) findWithOwner(ctx context.Context, match bson.M) ([]TaskWithOwner, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "userId",
			"foreignField": "_id",
			"as":           "owner",
		}}},
		{{Key: "$unwind", Value: "$owner"}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []TaskWithOwner
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// MarkReminderSent flips the reminder flag. The conditional filter makes a
// second call a state-wise no-op and reports whether this call claimed the
// task.
func (r *Repository) MarkReminderSent(ctx context.Context, id primitive.ObjectID) (bool, error) {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "reminderSent": false},
		bson.M{"$set": bson.M{
			"reminderSent":     true,
			"lastReminderSent": time.Now(),
		}},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}

// MarkWhatsAppReminderSent records a WhatsApp delivery on the task.
func (r *Repository) MarkWhatsAppReminderSent(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{
			"$set": bson.M{
				"whatsappReminderSent": true,
				"lastReminderSent":     time.Now(),
			},
			"$inc": bson.M{"whatsappReminderCount": 1},
		},
	)
	return err
}

// MarkOverdueAlerted records an overdue alert. Only lastReminderSent moves;
// overdue alerts are a separate channel from the original reminder.
func (r *Repository) MarkOverdueAlerted(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"lastReminderSent": time.Now()}},
	)
	return err
}

// FindRecurringDue returns recurring tasks whose due date has passed and
// that have not spawned a successor yet.
func (r *Repository) FindRecurringDue(ctx context.Context) ([]Task, error) {
	return r.findSorted(ctx, bson.M{
		"isRecurring":    true,
		"dueDate":        bson.M{"$lt": time.Now()},
		"nextRecurrence": nil,
	}, bson.D{{Key: "dueDate", Value: 1}})
}

// SpawnSuccessor inserts the follow-up task for a recurring task and stamps
// the predecessor's nextRecurrence in one transaction, so a half-applied
// spawn cannot be observed.
func (r *Repository) SpawnSuccessor(ctx context.Context, task *Task) (*Task, error) {
	succ, ok := task.Successor()
	if !ok {
		return nil, apperrors.ErrBadRequest
	}

	now := time.Now()
	succ.CreatedAt = now
	succ.UpdatedAt = now
	if succ.Tags == nil {
		succ.Tags = []string{}
	}

	session, err := r.collection.Database().Client().StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		result, err := r.collection.InsertOne(sc, succ)
		if err != nil {
			return nil, err
		}
		succ.ID = result.InsertedID.(primitive.ObjectID)

		_, err = r.collection.UpdateOne(
			sc,
			bson.M{"_id": task.ID},
			bson.M{"$set": bson.M{
				"nextRecurrence": succ.DueDate,
				"updatedAt":      now,
			}},
		)
		return nil, err
	})
	if err != nil {
		return nil, err
	}

	return succ, nil
}

// Stats aggregates a user's task counts.
func (r *Repository) Stats(ctx context.Context, userID primitive.ObjectID) (*Stats, error) {
	stats := &Stats{}
	now := time.Now()

	total, err := r.collection.CountDocuments(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	stats.Total = total

	for _, group := range []struct {
		field string
		dest  *[]BucketCount
	}{
		{"status", &stats.ByStatus},
		{"priority", &stats.ByPriority},
		{"category", &stats.ByCategory},
	} {
		pipeline := mongo.Pipeline{
			{{Key: "$match", Value: bson.M{"userId": userID}}},
			{{Key: "$group", Value: bson.M{
				"_id":   "$" + group.field,
				"count": bson.M{"$sum": 1},
			}}},
			{{Key: "$sort", Value: bson.M{"count": -1}}},
		}

		cursor, err := r.collection.Aggregate(ctx, pipeline)
		if err != nil {
			return nil, err
		}
		var buckets []BucketCount
		if err := cursor.All(ctx, &buckets); err != nil {
			return nil, err
		}
		*group.dest = buckets
	}

	stats.Overdue, err = r.collection.CountDocuments(ctx, bson.M{
		"userId":  userID,
		"dueDate": bson.M{"$lt": now},
		"status":  bson.M{"$in": openStatuses},
	})
	if err != nil {
		return nil, err
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	stats.DueToday, err = r.collection.CountDocuments(ctx, bson.M{
		"userId":  userID,
		"dueDate": bson.M{"$gte": startOfDay, "$lt": startOfDay.AddDate(0, 0, 1)},
		"status":  bson.M{"$in": openStatuses},
	})
	if err != nil {
		return nil, err
	}

	stats.CompletedLast7Days, err = r.collection.CountDocuments(ctx, bson.M{
		"userId":      userID,
		"status":      StatusCompleted,
		"completedAt": bson.M{"$gte": now.AddDate(0, 0, -7)},
	})
	if err != nil {
		return nil, err
	}

	return stats, nil
}
