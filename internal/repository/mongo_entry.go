package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/shiftledger/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoAppliedEntryRepo implements AppliedEntryRepo over the entries collection.
type MongoAppliedEntryRepo struct {
	coll *mongo.Collection
}

func (r *MongoAppliedEntryRepo) Get(ctx context.Context, id string) (*domain.AppliedEntry, error) {
	var doc entryDoc
	if err := findOne(ctx, r.coll, "applied entry", bson.M{"_id": id}, &doc); err != nil {
		return nil, err
	}
	return &domain.AppliedEntry{
		ID:         doc.ID,
		Email:      doc.Email,
		Date:       doc.Date.UTC(),
		ClockIn:    doc.ClockIn.UTC(),
		ClockOut:   doc.ClockOut.UTC(),
		WeekNumber: doc.WeekNumber,
		TotalHours: doc.TotalHours,
		Totals:     doc.Totals.domain(),
		CreatedAt:  doc.CreatedAt.UTC(),
	}, nil
}

func (r *MongoAppliedEntryRepo) Create(ctx context.Context, e *domain.AppliedEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	doc := entryDoc{
		ID:         e.ID,
		Email:      e.Email,
		Date:       e.Date,
		ClockIn:    e.ClockIn,
		ClockOut:   e.ClockOut,
		WeekNumber: e.WeekNumber,
		TotalHours: e.TotalHours,
		Totals:     toTotalsDoc(e.Totals),
		CreatedAt:  e.CreatedAt,
	}
	return casWrite(ctx, r.coll, "inserting applied entry", e.ID, 0, doc)
}

func (r *MongoAppliedEntryRepo) DeleteYear(ctx context.Context, email string, year int) (int64, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	filter := bson.M{"email": email, "date": bson.M{"$gte": from, "$lt": from.AddDate(1, 0, 0)}}
	return deleteMany(ctx, r.coll, "deleting applied entries", filter)
}
