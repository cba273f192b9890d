package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/shiftledger/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names. Each holds one document per rollup key.
const (
	collProfiles = "users"
	collDaily    = "daily"
	collWeekly   = "weekly"
	collMonthly  = "monthly"
	collYearly   = "yearly"
	collEntries  = "entries"
)

// Server error codes the store reacts to.
const (
	mongoCodeWriteConflict   = 112
	mongoCodeNamespaceExists = 48

	transientTxnLabel = "TransientTransactionError"
)

// MongoStore is a Store over a MongoDB database. Transactions require a
// replica set or sharded cluster.
type MongoStore struct {
	mongoLedger
	client *mongo.Client
}

// NewMongoStore connects, verifies the server is reachable, and prepares
// collections and indexes.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, mongoErr("connecting to mongodb", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, mongoErr("pinging mongodb", err)
	}

	s := &MongoStore{mongoLedger: mongoLedger{db: client.Database(database)}, client: client}
	if err := s.ensureSchema(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return mongoErr("pinging mongodb", err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// ensureSchema creates collections up front, since older servers refuse to
// create them inside a transaction, and adds the secondary indexes.
func (s *MongoStore) ensureSchema(ctx context.Context) error {
	for _, name := range []string{collProfiles, collDaily, collWeekly, collMonthly, collYearly, collEntries} {
		err := s.db.CreateCollection(ctx, name)
		var se mongo.ServerError
		if err != nil && !(errors.As(err, &se) && se.HasErrorCode(mongoCodeNamespaceExists)) {
			return mongoErr("creating collection "+name, err)
		}
	}

	indexes := map[string]mongo.IndexModel{
		collDaily:   {Keys: bson.D{{Key: "email", Value: 1}, {Key: "monthNumber", Value: 1}, {Key: "dayKey", Value: 1}}},
		collEntries: {Keys: bson.D{{Key: "email", Value: 1}, {Key: "date", Value: 1}}},
	}
	for coll, model := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateOne(ctx, model); err != nil {
			return mongoErr("creating index on "+coll, err)
		}
	}
	return nil
}

// WithinTx runs fn in a multi-document transaction. The transaction is not
// retried on transient errors; they surface as domain.ErrWriteConflict.
func (s *MongoStore) WithinTx(ctx context.Context, fn func(ctx context.Context, l Ledger) error) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return mongoErr("starting session", err)
	}
	defer sess.EndSession(context.Background())

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return mongoErr("starting transaction", err)
		}

		defer func() {
			if p := recover(); p != nil {
				_ = sc.AbortTransaction(context.Background())
				panic(p)
			}
		}()

		if err := fn(sc, s.mongoLedger); err != nil {
			_ = sc.AbortTransaction(context.Background())
			return err
		}
		if err := sc.CommitTransaction(sc); err != nil {
			return mongoErr("committing transaction", err)
		}
		return nil
	})
}

// mongoLedger builds repositories over one database. Calls made with a
// session context join that session's transaction.
type mongoLedger struct {
	db *mongo.Database
}

func (l mongoLedger) Profiles() UserProfileRepo {
	return &MongoUserProfileRepo{coll: l.db.Collection(collProfiles)}
}
func (l mongoLedger) Days() DailyRollupRepo {
	return &MongoDailyRollupRepo{coll: l.db.Collection(collDaily)}
}
func (l mongoLedger) Weeks() WeeklyRollupRepo {
	return &MongoWeeklyRollupRepo{coll: l.db.Collection(collWeekly)}
}
func (l mongoLedger) Months() MonthlyRollupRepo {
	return &MongoMonthlyRollupRepo{coll: l.db.Collection(collMonthly)}
}
func (l mongoLedger) Years() YearlyRollupRepo {
	return &MongoYearlyRollupRepo{coll: l.db.Collection(collYearly)}
}
func (l mongoLedger) Entries() AppliedEntryRepo {
	return &MongoAppliedEntryRepo{coll: l.db.Collection(collEntries)}
}

var (
	_ Store  = (*MongoStore)(nil)
	_ Ledger = mongoLedger{}
)

// mongoErr maps driver failures to the ledger taxonomy.
func mongoErr(op string, err error) error {
	var se mongo.ServerError
	switch {
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", op, ErrConflict)
	case errors.As(err, &se) && (se.HasErrorLabel(transientTxnLabel) || se.HasErrorCode(mongoCodeWriteConflict)):
		return fmt.Errorf("%s: %w: %w", op, domain.ErrWriteConflict, err)
	case mongo.IsNetworkError(err), mongo.IsTimeout(err), errors.Is(err, mongo.ErrClientDisconnected):
		return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// casWrite inserts doc when version is 0; otherwise it replaces the stored
// document only while its version still equals version. doc must already
// carry the next version number.
func casWrite(ctx context.Context, coll *mongo.Collection, op, id string, version int64, doc any) error {
	if version == 0 {
		if _, err := coll.InsertOne(ctx, doc); err != nil {
			return mongoErr(op, err)
		}
		return nil
	}
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id, "version": version}, doc)
	if err != nil {
		return mongoErr(op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, ErrConflict)
	}
	return nil
}

func findOne(ctx context.Context, coll *mongo.Collection, op string, filter any, out any) error {
	err := coll.FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return mongoErr(op, err)
	}
	return nil
}

func deleteMany(ctx context.Context, coll *mongo.Collection, op string, filter any) (int64, error) {
	res, err := coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, mongoErr(op, err)
	}
	return res.DeletedCount, nil
}
