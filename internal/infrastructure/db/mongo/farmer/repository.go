package farmer

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domain "agri-registry-api/internal/domain/farmer"
)

const CollectionName = "farmers"

var _ domain.Repository = (*Repository)(nil)

// ptCollation compares names ignoring case and accents.
var ptCollation = &options.Collation{Locale: "pt", Strength: 1}

type (
	Repository struct {
		coll    *mongo.Collection
		nowFunc func() time.Time
	}
	Option = func(*Repository)
)

// WithNowFunc overrides the clock used for timestamps.
func WithNowFunc(nowFunc func() time.Time) Option {
	return func(r *Repository) {
		r.nowFunc = nowFunc
	}
}

func NewRepository(coll *mongo.Collection, opts ...Option) *Repository {
	r := &Repository{
		coll: coll,
		nowFunc: func() time.Time {
			// mongo keeps millisecond precision
			return time.Now().UTC().Truncate(time.Millisecond)
		},
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// EnsureIndexes creates the unique cpf index and the name index used for listing.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "cpf", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("farmers_cpf_key"),
		},
		{
			Keys:    bson.D{{Key: "fullName", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetCollation(ptCollation).SetName("farmers_full_name_idx"),
		},
	})

	return err
}

func (r *Repository) CreateFarmer(ctx context.Context, p domain.Profile) (*domain.Farmer, error) {
	now := r.nowFunc()
	m := &farmerDB{
		ID:        primitive.NewObjectID(),
		FullName:  p.FullName,
		CPF:       p.CPF.String(),
		BirthDate: p.BirthDate,
		Phone:     domain.NormalizePhone(p.Phone),
		Active:    p.Active,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.coll.InsertOne(ctx, m); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateCPF
		}
		return nil, err
	}

	return fromDBModel(m)
}

func (r *Repository) FetchFarmerByID(ctx context.Context, id domain.ID) (*domain.Farmer, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *Repository) FetchFarmerByCPF(ctx context.Context, cpf domain.CPF) (*domain.Farmer, error) {
	return r.findOne(ctx, bson.M{"cpf": cpf.String()})
}

func (r *Repository) findOne(ctx context.Context, filter bson.M) (*domain.Farmer, error) {
	m := new(farmerDB)
	if err := r.coll.FindOne(ctx, filter).Decode(m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(m)
}

func (r *Repository) UpdateFarmer(ctx context.Context, id domain.ID, p domain.Patch) (*domain.Farmer, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	m := new(farmerDB)
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, buildUpdate(p, r.nowFunc()), opts).Decode(m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(m)
}

func (r *Repository) DeleteFarmer(ctx context.Context, id domain.ID) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}

	_, err = r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

func (r *Repository) FetchFarmers(ctx context.Context, filter domain.Filter) (domain.Farmers, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "fullName", Value: 1}, {Key: "_id", Value: 1}}).
		SetCollation(ptCollation).
		SetLimit(domain.MaxListResults)

	cursor, err := r.coll.Find(ctx, buildFilter(filter), opts)
	if err != nil {
		return nil, err
	}

	var ms []*farmerDB
	if err = cursor.All(ctx, &ms); err != nil {
		return nil, err
	}

	return fromDBModels(ms)
}

func buildFilter(filter domain.Filter) bson.M {
	q := bson.M{}
	if filter.Name != "" {
		q["fullName"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Name), Options: "i"}
	}
	if filter.CPF != "" {
		if len(filter.CPF) >= 11 {
			q["cpf"] = filter.CPF
		} else {
			q["cpf"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(filter.CPF)}
		}
	}
	if filter.Active != nil {
		q["active"] = *filter.Active
	}

	return q
}

func buildUpdate(p domain.Patch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	unset := bson.M{}

	if p.FullName != nil {
		set["fullName"] = *p.FullName
	}
	if p.BirthDate != nil {
		set["birthDate"] = *p.BirthDate
	}
	if p.Phone != nil {
		if phone := domain.NormalizePhone(p.Phone); phone != nil {
			set["phone"] = *phone
		} else {
			unset["phone"] = ""
		}
	}
	if p.Active != nil {
		set["active"] = *p.Active
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	return update
}
