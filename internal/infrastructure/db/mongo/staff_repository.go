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

	"github.com/louagetn/station-client/internal/core/domain"
	"github.com/louagetn/station-client/internal/core/ports"
)

const staffCollection = "staff"

type StaffRepository struct {
	coll *mongo.Collection
}

var _ ports.StaffRepository = (*StaffRepository)(nil)

func NewStaffRepository(db *mongo.Database) *StaffRepository {
	return &StaffRepository{coll: db.Collection(staffCollection)}
}

// EnsureIndexes makes cin unique so Create can report duplicates.
func (r *StaffRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "cin", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create staff cin index: %w", err)
	}
	return nil
}

type mongoStaff struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	CIN          string             `bson:"cin"`
	FirstName    string             `bson:"first_name"`
	LastName     string             `bson:"last_name"`
	Role         string             `bson:"role"`
	PhoneNumber  string             `bson:"phone_number,omitempty"`
	PasswordHash string             `bson:"password_hash"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

func (r *StaffRepository) Create(ctx context.Context, account *domain.StaffAccount) (*domain.StaffAccount, error) {
	doc := mongoStaff{
		CIN:          account.CIN,
		FirstName:    account.FirstName,
		LastName:     account.LastName,
		Role:         string(account.Role),
		PhoneNumber:  account.PhoneNumber,
		PasswordHash: account.PasswordHash,
		CreatedAt:    account.CreatedAt.Unix(),
		UpdatedAt:    account.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrStaffExists
		}
		return nil, fmt.Errorf("insert staff: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return toAccount(doc), nil
}

func (r *StaffRepository) FindByCIN(ctx context.Context, cin string) (*domain.StaffAccount, error) {
	return r.findOne(ctx, bson.M{"cin": cin})
}

func (r *StaffRepository) FindByID(ctx context.Context, id string) (*domain.StaffAccount, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrStaffNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *StaffRepository) findOne(ctx context.Context, filter bson.M) (*domain.StaffAccount, error) {
	var doc mongoStaff
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrStaffNotFound
		}
		return nil, fmt.Errorf("find staff: %w", err)
	}
	return toAccount(doc), nil
}

func toAccount(doc mongoStaff) *domain.StaffAccount {
	return &domain.StaffAccount{
		Identity: domain.Identity{
			ID:          doc.ID.Hex(),
			CIN:         doc.CIN,
			FirstName:   doc.FirstName,
			LastName:    doc.LastName,
			Role:        domain.Role(doc.Role),
			PhoneNumber: doc.PhoneNumber,
		},
		PasswordHash: doc.PasswordHash,
		CreatedAt:    unixToTime(doc.CreatedAt),
		UpdatedAt:    unixToTime(doc.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
