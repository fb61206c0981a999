// Package mongo provides the document store behind the layout service:
// a layouts collection holding one document per user and a users
// collection holding accounts.
package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/maajidpp/linkza/pkg/errors"
)

const connectTimeout = 10 * time.Second

// DB bundles the typed repositories over one client.
type DB struct {
	client  *mongo.Client
	Layouts *LayoutRepo
	Users   *UserRepo
}

// Connect dials the cluster and pings it, then prepares indexes.
func Connect(ctx context.Context, uri, database string) (*DB, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongodb")
	}

	db := client.Database(database)
	d := &DB{
		client:  client,
		Layouts: &LayoutRepo{coll: db.Collection("layouts")},
		Users:   &UserRepo{coll: db.Collection("users")},
	}
	if err := d.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return d, nil
}

func (d *DB) ensureIndexes(ctx context.Context) error {
	if err := d.Layouts.ensureIndexes(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create layout indexes")
	}
	if err := d.Users.ensureIndexes(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create user indexes")
	}
	return nil
}

// Close disconnects the client.
func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}
