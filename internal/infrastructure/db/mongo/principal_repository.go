package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/finance/bff-web/internal/core/domain"
)

const collectionPrincipals = "principals"

// PrincipalRepository is a PrincipalStore backed by the principals collection.
type PrincipalRepository struct {
	col *mongo.Collection
}

func NewPrincipalRepository(db *mongo.Database) *PrincipalRepository {
	return &PrincipalRepository{col: db.Collection(collectionPrincipals)}
}

type principalDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	PasswordHash string             `bson:"password_hash"`
	Role         string             `bson:"role"`
	UpdatedAt    int64              `bson:"updated_at"`
}

// Verify checks password against the stored bcrypt hash.
func (r *PrincipalRepository) Verify(ctx context.Context, username, password string) (*domain.Principal, error) {
	doc, err := r.find(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(doc.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return &domain.Principal{Username: doc.Username, Role: doc.Role}, nil
}

func (r *PrincipalRepository) Lookup(ctx context.Context, username string) (*domain.Principal, error) {
	doc, err := r.find(ctx, username)
	if err != nil {
		return nil, err
	}
	return &domain.Principal{Username: doc.Username, Role: doc.Role}, nil
}

// Seed upserts a principal so that a fresh database accepts the configured
// login. The password is stored as a bcrypt hash.
func (r *PrincipalRepository) Seed(ctx context.Context, username, password, role string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed principal: hash password: %w", err)
	}

	filter := bson.M{"username": username}
	update := bson.M{"$set": bson.M{
		"password_hash": string(hash),
		"role":          role,
		"updated_at":    time.Now().UTC().Unix(),
	}}
	if _, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("seed principal: %w", err)
	}
	return nil
}

// EnsureIndexes creates the unique username index.
func (r *PrincipalRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *PrincipalRepository) find(ctx context.Context, username string) (*principalDoc, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc principalDoc
	if err := r.col.FindOne(ctx, bson.M{"username": username}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("find principal: %w", err)
	}
	return &doc, nil
}
