package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coinbot/domain/entities"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// accountDocument is the stored shape of an account
type accountDocument struct {
	ID        int64        `bson:"id"`
	Balance   int64        `bson:"balance"`
	Inventory []string     `bson:"inventory"`
	Last      lastDocument `bson:"last"`
}

type lastDocument struct {
	Hourly  int64 `bson:"hourly"`
	Daily   int64 `bson:"daily"`
	Monthly int64 `bson:"monthly"`
}

func (d accountDocument) toEntity() *entities.Account {
	account := entities.NewAccount(d.ID)
	account.Balance = d.Balance
	if d.Inventory != nil {
		account.Inventory = d.Inventory
	}
	account.Last = entities.LastClaims{
		Hourly:  d.Last.Hourly,
		Daily:   d.Last.Daily,
		Monthly: d.Last.Monthly,
	}
	return account
}

// Store is a LedgerStore backed by a MongoDB collection keyed on "id"
type Store struct {
	collection *mongo.Collection
}

// Connect opens a client and verifies it with a ping
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

// New returns a store over db.collection and ensures the unique id index
func New(ctx context.Context, client *mongo.Client, database, collection string) (*Store, error) {
	coll := client.Database(database).Collection(collection)

	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("id_unique"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create account index: %w", err)
	}

	log.WithFields(log.Fields{
		"database":   database,
		"collection": collection,
	}).Info("Mongo ledger store ready")

	return &Store{collection: coll}, nil
}

// insertDefaults are the fields a fresh document gets besides id and whatever
// the update itself sets
func insertDefaults(skip ...string) bson.M {
	defaults := bson.M{
		"balance":   int64(0),
		"inventory": bson.A{},
		"last":      bson.M{"hourly": int64(0), "daily": int64(0), "monthly": int64(0)},
	}
	for _, field := range skip {
		delete(defaults, field)
	}
	return defaults
}

func (s *Store) GetOrCreateAccount(ctx context.Context, id int64) (*entities.Account, bool, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.Before)
	update := bson.M{"$setOnInsert": insertDefaults()}

	var doc accountDocument
	err := s.collection.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&doc)
	if mongo.IsDuplicateKeyError(err) {
		// A concurrent upsert won the insert; the record now exists
		err = s.collection.FindOne(ctx, bson.M{"id": id}).Decode(&doc)
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Nothing existed before the upsert, so this call created it
		return entities.NewAccount(id), true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get account %d: %w", id, err)
	}
	return doc.toEntity(), false, nil
}

func (s *Store) SetBalance(ctx context.Context, id int64, value int64) error {
	update := bson.M{
		"$set":         bson.M{"balance": value},
		"$setOnInsert": insertDefaults("balance"),
	}
	if err := s.upsert(ctx, id, update); err != nil {
		return fmt.Errorf("failed to set balance for account %d: %w", id, err)
	}
	return nil
}

func (s *Store) ChangeBalance(ctx context.Context, id int64, delta int64) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After).
		SetProjection(bson.M{"balance": 1})
	update := bson.M{
		"$inc":         bson.M{"balance": delta},
		"$setOnInsert": insertDefaults("balance"),
	}

	var doc accountDocument
	err := s.collection.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&doc)
	if mongo.IsDuplicateKeyError(err) {
		err = s.collection.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&doc)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to change balance for account %d: %w", id, err)
	}
	return doc.Balance, nil
}

func (s *Store) GetLastClaim(ctx context.Context, id int64, bucket entities.ClaimBucket) (int64, error) {
	if !bucket.IsValid() {
		return 0, fmt.Errorf("unknown claim bucket %q", bucket)
	}

	opts := options.FindOne().SetProjection(bson.M{"last": 1})

	var doc accountDocument
	err := s.collection.FindOne(ctx, bson.M{"id": id}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get %s claim for account %d: %w", bucket, id, err)
	}
	return doc.toEntity().Last.Get(bucket), nil
}

func (s *Store) SetLastClaim(ctx context.Context, id int64, bucket entities.ClaimBucket, unix int64) error {
	if !bucket.IsValid() {
		return fmt.Errorf("unknown claim bucket %q", bucket)
	}

	// "last" as a whole cannot be in $setOnInsert while one of its fields is in $set
	update := bson.M{
		"$set":         bson.M{"last." + bucket.String(): unix},
		"$setOnInsert": insertDefaults("last"),
	}
	if err := s.upsert(ctx, id, update); err != nil {
		return fmt.Errorf("failed to set %s claim for account %d: %w", bucket, id, err)
	}
	return nil
}

func (s *Store) upsert(ctx context.Context, id int64, update bson.M) error {
	opts := options.Update().SetUpsert(true)
	_, err := s.collection.UpdateOne(ctx, bson.M{"id": id}, update, opts)
	if mongo.IsDuplicateKeyError(err) {
		_, err = s.collection.UpdateOne(ctx, bson.M{"id": id}, update, opts)
	}
	return err
}
