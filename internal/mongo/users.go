package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/maajidpp/linkza/internal/auth"
	"github.com/maajidpp/linkza/pkg/errors"
)

// UserRepo stores accounts.
type UserRepo struct {
	coll *mongo.Collection
}

func (r *UserRepo) ensureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "username", Value: 1}},
			// Sparse so accounts without a chosen username coexist.
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	})
	return err
}

// userDoc is the stored shape; the _id is a mongo ObjectID while the rest
// of the service works with its hex string.
type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Username     string             `bson:"username,omitempty"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"passwordHash,omitempty"`
	Role         string             `bson:"role"`
	Status       string             `bson:"status"`
	LastLogin    time.Time          `bson:"lastLogin,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

func (d *userDoc) toUser() *auth.User {
	return &auth.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         d.Role,
		Status:       d.Status,
		LastLogin:    d.LastLogin,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// Create inserts a new account and returns it with its assigned ID.
func (r *UserRepo) Create(ctx context.Context, u *auth.User) (*auth.User, error) {
	now := time.Now().UTC()
	doc := userDoc{
		Name:         u.Name,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Status:       u.Status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if doc.Role == "" {
		doc.Role = auth.RoleUser
	}
	if doc.Status == "" {
		doc.Status = auth.StatusActive
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "email or username already in use")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create user")
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toUser(), nil
}

func (r *UserRepo) findOne(ctx context.Context, filter bson.M) (*auth.User, error) {
	var doc userDoc
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeUserNotFound, "user not found")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load user")
	}
	return doc.toUser(), nil
}

// GetByID loads an account by its hex ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*auth.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.New(errors.ErrCodeUserNotFound, "user not found")
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// GetByEmail loads an account by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// GetByUsername loads an account by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// UsernameTaken reports whether a username is already claimed.
func (r *UserRepo) UsernameTaken(ctx context.Context, username string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"username": username})
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeInternal, err, "check username")
	}
	return n > 0, nil
}

// List returns all accounts, newest first.
func (r *UserRepo) List(ctx context.Context) ([]*auth.User, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list users")
	}
	defer cur.Close(ctx)

	var users []*auth.User
	for cur.Next(ctx) {
		var doc userDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode user")
		}
		users = append(users, doc.toUser())
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "iterate users")
	}
	return users, nil
}

func (r *UserRepo) updateByID(ctx context.Context, id string, set bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New(errors.ErrCodeUserNotFound, "user not found")
	}
	set["updatedAt"] = time.Now().UTC()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "update user")
	}
	if res.MatchedCount == 0 {
		return errors.New(errors.ErrCodeUserNotFound, "user not found")
	}
	return nil
}

// SetStatus activates or suspends an account.
func (r *UserRepo) SetStatus(ctx context.Context, id, status string) error {
	if status != auth.StatusActive && status != auth.StatusSuspended {
		return errors.New(errors.ErrCodeInvalidInput, "unknown status %q", status)
	}
	return r.updateByID(ctx, id, bson.M{"status": status})
}

// SetRole changes an account's role.
func (r *UserRepo) SetRole(ctx context.Context, id, role string) error {
	if role != auth.RoleUser && role != auth.RoleAdmin {
		return errors.New(errors.ErrCodeInvalidInput, "unknown role %q", role)
	}
	return r.updateByID(ctx, id, bson.M{"role": role})
}

// TouchLogin records a successful login.
func (r *UserRepo) TouchLogin(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.M{"lastLogin": time.Now().UTC()})
}

// Delete removes an account. The caller cascades to the layout and the
// user's sessions.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New(errors.ErrCodeUserNotFound, "user not found")
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete user")
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeUserNotFound, "user not found")
	}
	return nil
}
