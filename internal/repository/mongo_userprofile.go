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

// MongoUserProfileRepo implements UserProfileRepo over the users collection.
type MongoUserProfileRepo struct {
	coll *mongo.Collection
}

func (r *MongoUserProfileRepo) Create(ctx context.Context, p *domain.UserProfile) error {
	now := time.Now().UTC()
	doc := profileDoc{
		Email:                 p.Email,
		LegalRate:             p.LegalRate,
		CashRate:              p.CashRate,
		WeeklyLegalHoursLimit: p.WeeklyLegalHoursLimit,
		StartDate:             toTimestampDoc(p.StartDate),
		WeekNumber:            p.WeekNumber,
		Version:               1,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := casWrite(ctx, r.coll, "inserting user profile", p.Email, 0, doc); err != nil {
		return err
	}
	p.Version, p.CreatedAt, p.UpdatedAt = 1, now, now
	return nil
}

func (r *MongoUserProfileRepo) Get(ctx context.Context, email string) (*domain.UserProfile, error) {
	var doc profileDoc
	if err := findOne(ctx, r.coll, "user profile", bson.M{"_id": email}, &doc); err != nil {
		return nil, err
	}
	return doc.domain(), nil
}

// Update writes rates, limit and the cached week number under a version
// check. The start date is written only while the stored one is unset, so an
// anchor never moves.
func (r *MongoUserProfileRepo) Update(ctx context.Context, p *domain.UserProfile) error {
	now := time.Now().UTC()
	set := bson.D{
		{Key: "legalRate", Value: p.LegalRate},
		{Key: "cashRate", Value: p.CashRate},
		{Key: "weeklyLegalHoursLimit", Value: p.WeeklyLegalHoursLimit},
		{Key: "weekNumber", Value: p.WeekNumber},
		{Key: "version", Value: p.Version + 1},
		{Key: "updatedAt", Value: now},
	}
	if p.StartDate != nil {
		set = append(set, bson.E{Key: "startDate", Value: bson.M{"$ifNull": bson.A{"$startDate", toTimestampDoc(p.StartDate)}}})
	}
	filter := bson.M{"_id": p.Email, "version": p.Version}
	res, err := r.coll.UpdateOne(ctx, filter, mongo.Pipeline{{{Key: "$set", Value: set}}})
	if err != nil {
		return mongoErr("updating user profile", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("updating user profile: %w", ErrConflict)
	}
	p.Version++
	p.UpdatedAt = now
	return nil
}

func (r *MongoUserProfileRepo) List(ctx context.Context) ([]*domain.UserProfile, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, mongoErr("listing user profiles", err)
	}
	var docs []profileDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, mongoErr("decoding user profiles", err)
	}
	out := make([]*domain.UserProfile, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.domain())
	}
	return out, nil
}

func (d profileDoc) domain() *domain.UserProfile {
	return &domain.UserProfile{
		Email:                 d.Email,
		LegalRate:             d.LegalRate,
		CashRate:              d.CashRate,
		WeeklyLegalHoursLimit: d.WeeklyLegalHoursLimit,
		StartDate:             d.StartDate.instant(),
		WeekNumber:            d.WeekNumber,
		Version:               d.Version,
		CreatedAt:             d.CreatedAt,
		UpdatedAt:             d.UpdatedAt,
	}
}
