package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/shiftledger/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDailyRollupRepo implements DailyRollupRepo over the daily collection.
type MongoDailyRollupRepo struct {
	coll *mongo.Collection
}

func (r *MongoDailyRollupRepo) Get(ctx context.Context, email string, month int, dayKey string) (*domain.DailyRollup, error) {
	var doc dailyDoc
	op := fmt.Sprintf("daily rollup %s", dayKey)
	if err := findOne(ctx, r.coll, op, bson.M{"_id": dailyID(email, month, dayKey)}, &doc); err != nil {
		return nil, err
	}
	return doc.domain(), nil
}

func (r *MongoDailyRollupRepo) ListRange(ctx context.Context, email string, month int, from, to string) ([]*domain.DailyRollup, error) {
	filter := bson.M{
		"email":       email,
		"monthNumber": month,
		"dayKey":      bson.M{"$gte": from, "$lte": to},
	}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "dayKey", Value: 1}}))
	if err != nil {
		return nil, mongoErr("listing daily rollups", err)
	}
	var docs []dailyDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, mongoErr("decoding daily rollups", err)
	}
	out := make([]*domain.DailyRollup, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.domain())
	}
	return out, nil
}

func (r *MongoDailyRollupRepo) Save(ctx context.Context, d *domain.DailyRollup) error {
	id := dailyID(d.Email, d.MonthNumber, d.DayKey)
	doc := dailyDoc{
		ID:          id,
		Email:       d.Email,
		MonthNumber: d.MonthNumber,
		DayKey:      d.DayKey,
		Date:        d.Date,
		TotalHours:  d.TotalHours,
		Totals:      toTotalsDoc(d.Totals),
		Version:     d.Version + 1,
	}
	if err := casWrite(ctx, r.coll, "saving daily rollup", id, d.Version, doc); err != nil {
		return err
	}
	d.Version++
	return nil
}

func (r *MongoDailyRollupRepo) DeleteMonth(ctx context.Context, email string, month int) (int64, error) {
	return deleteMany(ctx, r.coll, "deleting daily rollups", bson.M{"email": email, "monthNumber": month})
}

func (d dailyDoc) domain() *domain.DailyRollup {
	return &domain.DailyRollup{
		Email:       d.Email,
		Date:        d.Date.UTC(),
		DayKey:      d.DayKey,
		MonthNumber: d.MonthNumber,
		TotalHours:  d.TotalHours,
		Totals:      d.Totals.domain(),
		Version:     d.Version,
	}
}

// MongoWeeklyRollupRepo implements WeeklyRollupRepo over the weekly collection.
type MongoWeeklyRollupRepo struct {
	coll *mongo.Collection
}

func (r *MongoWeeklyRollupRepo) Get(ctx context.Context, email string, week int) (*domain.WeeklyRollup, error) {
	var doc weeklyDoc
	if err := findOne(ctx, r.coll, fmt.Sprintf("weekly rollup %d", week), bson.M{"_id": weeklyID(email, week)}, &doc); err != nil {
		return nil, err
	}
	return &domain.WeeklyRollup{
		Email:        doc.Email,
		WeekNumber:   doc.WeekNumber,
		StartDate:    doc.StartDate.UTC(),
		EndDate:      doc.EndDate.UTC(),
		StartWeekday: time.Weekday(doc.StartWeekday),
		Totals:       doc.Totals.domain(),
		Version:      doc.Version,
	}, nil
}

func (r *MongoWeeklyRollupRepo) Save(ctx context.Context, w *domain.WeeklyRollup) error {
	id := weeklyID(w.Email, w.WeekNumber)
	doc := weeklyDoc{
		ID:           id,
		Email:        w.Email,
		WeekNumber:   w.WeekNumber,
		StartDate:    w.StartDate,
		EndDate:      w.EndDate,
		StartWeekday: int(w.StartWeekday),
		Totals:       toTotalsDoc(w.Totals),
		Version:      w.Version + 1,
	}
	if err := casWrite(ctx, r.coll, "saving weekly rollup", id, w.Version, doc); err != nil {
		return err
	}
	w.Version++
	return nil
}

func (r *MongoWeeklyRollupRepo) Delete(ctx context.Context, email string, week int) (int64, error) {
	return deleteMany(ctx, r.coll, "deleting weekly rollup", bson.M{"_id": weeklyID(email, week)})
}

// MongoMonthlyRollupRepo implements MonthlyRollupRepo over the monthly collection.
type MongoMonthlyRollupRepo struct {
	coll *mongo.Collection
}

func (r *MongoMonthlyRollupRepo) Get(ctx context.Context, email string, month int) (*domain.MonthlyRollup, error) {
	var doc monthlyDoc
	if err := findOne(ctx, r.coll, fmt.Sprintf("monthly rollup %d", month), bson.M{"_id": monthlyID(email, month)}, &doc); err != nil {
		return nil, err
	}
	return &domain.MonthlyRollup{
		Email:       doc.Email,
		MonthNumber: doc.MonthNumber,
		Year:        doc.Year,
		Totals:      doc.Totals.domain(),
		Version:     doc.Version,
	}, nil
}

func (r *MongoMonthlyRollupRepo) Save(ctx context.Context, m *domain.MonthlyRollup) error {
	id := monthlyID(m.Email, m.MonthNumber)
	doc := monthlyDoc{
		ID:          id,
		Email:       m.Email,
		MonthNumber: m.MonthNumber,
		Year:        m.Year,
		Totals:      toTotalsDoc(m.Totals),
		Version:     m.Version + 1,
	}
	if err := casWrite(ctx, r.coll, "saving monthly rollup", id, m.Version, doc); err != nil {
		return err
	}
	m.Version++
	return nil
}

func (r *MongoMonthlyRollupRepo) Delete(ctx context.Context, email string, month int) (int64, error) {
	return deleteMany(ctx, r.coll, "deleting monthly rollup", bson.M{"_id": monthlyID(email, month)})
}

// MongoYearlyRollupRepo implements YearlyRollupRepo over the yearly collection.
type MongoYearlyRollupRepo struct {
	coll *mongo.Collection
}

func (r *MongoYearlyRollupRepo) Get(ctx context.Context, email string, year int) (*domain.YearlyRollup, error) {
	var doc yearlyDoc
	if err := findOne(ctx, r.coll, fmt.Sprintf("yearly rollup %d", year), bson.M{"_id": yearlyID(email, year)}, &doc); err != nil {
		return nil, err
	}
	return &domain.YearlyRollup{
		Email:   doc.Email,
		Year:    doc.Year,
		Totals:  doc.Totals.domain(),
		Version: doc.Version,
	}, nil
}

func (r *MongoYearlyRollupRepo) Save(ctx context.Context, y *domain.YearlyRollup) error {
	id := yearlyID(y.Email, y.Year)
	doc := yearlyDoc{
		ID:      id,
		Email:   y.Email,
		Year:    y.Year,
		Totals:  toTotalsDoc(y.Totals),
		Version: y.Version + 1,
	}
	if err := casWrite(ctx, r.coll, "saving yearly rollup", id, y.Version, doc); err != nil {
		return err
	}
	y.Version++
	return nil
}

func (r *MongoYearlyRollupRepo) Delete(ctx context.Context, email string, year int) (int64, error) {
	return deleteMany(ctx, r.coll, "deleting yearly rollup", bson.M{"_id": yearlyID(email, year)})
}
