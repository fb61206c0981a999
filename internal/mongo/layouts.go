package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/maajidpp/linkza/pkg/errors"
	"github.com/maajidpp/linkza/pkg/layout"
	"github.com/maajidpp/linkza/pkg/tile"
)

// LayoutRepo stores one layout document per user.
type LayoutRepo struct {
	coll *mongo.Collection
}

func (r *LayoutRepo) ensureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// GetByUserID loads a user's layout. A user without a saved layout gets
// LAYOUT_NOT_FOUND; the handler translates that into an empty tile set.
func (r *LayoutRepo) GetByUserID(ctx context.Context, userID string) (*layout.Layout, error) {
	var lay layout.Layout
	err := r.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&lay)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeLayoutNotFound, "no layout for user %s", userID)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load layout")
	}
	return &lay, nil
}

// Upsert writes the user's layout if revision matches the stored document.
// The first save for a user must carry revision 0. On success the stored
// layout, including the incremented revision, is returned; a mismatched
// revision yields STALE_REVISION.
func (r *LayoutRepo) Upsert(ctx context.Context, userID string, tiles []*tile.Tile, revision int64) (*layout.Layout, error) {
	if tiles == nil {
		tiles = []*tile.Tile{}
	}
	now := time.Now().UTC()

	// The revision guard rides in the filter: the update only matches a
	// document still at the caller's revision. Upsert stays safe because
	// a filter with revision > 0 can never insert (the unique userId
	// index would reject a duplicate anyway).
	filter := bson.M{"userId": userID, "revision": revision}
	update := bson.M{
		"$set": bson.M{
			"tiles":     tiles,
			"updatedAt": now,
		},
		"$inc": bson.M{"revision": 1},
		"$setOnInsert": bson.M{
			"name":      layout.DefaultName,
			"userId":    userID,
			"isPublic":  true,
			"createdAt": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(revision == 0).
		SetReturnDocument(options.After)

	var lay layout.Layout
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&lay)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeStaleRevision,
			"layout for user %s is no longer at revision %d", userID, revision)
	}
	if mongo.IsDuplicateKeyError(err) {
		// Concurrent first save; the other writer advanced the revision.
		return nil, errors.New(errors.ErrCodeStaleRevision,
			"layout for user %s was created concurrently", userID)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "save layout")
	}
	return &lay, nil
}

// Delete removes a user's layout. Used when the account is deleted.
func (r *LayoutRepo) Delete(ctx context.Context, userID string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"userId": userID})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete layout")
	}
	return nil
}

// TileCount returns how many tiles a user's layout holds, zero when no
// layout exists. The admin listing uses it.
func (r *LayoutRepo) TileCount(ctx context.Context, userID string) (int, error) {
	lay, err := r.GetByUserID(ctx, userID)
	if errors.Is(err, errors.ErrCodeLayoutNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return len(lay.Tiles), nil
}
