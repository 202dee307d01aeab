package farmer

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domain "agri-registry-api/internal/domain/farmer"
)

var dummyTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestBuildFilter(t *testing.T) {
	yes := true

	tests := []struct {
		name   string
		filter domain.Filter
		want   bson.M
	}{
		{
			name:   "empty",
			filter: domain.Filter{},
			want:   bson.M{},
		},
		{
			name:   "name is quoted and case-insensitive",
			filter: domain.Filter{Name: "a.b*"},
			want:   bson.M{"fullName": primitive.Regex{Pattern: `a\.b\*`, Options: "i"}},
		},
		{
			name:   "partial cpf is anchored prefix",
			filter: domain.Filter{CPF: "123"},
			want:   bson.M{"cpf": primitive.Regex{Pattern: "^123"}},
		},
		{
			name:   "full cpf is exact",
			filter: domain.Filter{CPF: "52998224725", Active: &yes},
			want:   bson.M{"cpf": "52998224725", "active": true},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildFilter(tt.filter))
		})
	}
}

func TestBuildUpdate(t *testing.T) {
	name := "Maria Souza"
	empty := "  "
	phone := " 123 "
	inactive := false

	got := buildUpdate(domain.Patch{FullName: &name, Phone: &empty, Active: &inactive}, dummyTime)
	assert.Equal(t, bson.M{
		"$set":   bson.M{"updatedAt": dummyTime, "fullName": name, "active": false},
		"$unset": bson.M{"phone": ""},
	}, got)

	got = buildUpdate(domain.Patch{Phone: &phone}, dummyTime)
	assert.Equal(t, bson.M{"$set": bson.M{"updatedAt": dummyTime, "phone": "123"}}, got)
}

type RepositoryTestSuite struct {
	suite.Suite
	client *mongo.Client
	coll   *mongo.Collection
	repo   *Repository
}

func TestRepositoryTestSuite(t *testing.T) {
	if os.Getenv("MONGODB_URL") == "" {
		t.Skip("MONGODB_URL not set")
	}
	suite.Run(t, new(RepositoryTestSuite))
}

func (s *RepositoryTestSuite) SetupSuite() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(os.Getenv("MONGODB_URL")))
	s.Require().NoError(err)
	s.Require().NoError(client.Ping(ctx, nil))

	s.client = client
	s.coll = client.Database("agriregistry_test").Collection(CollectionName)
	s.repo = NewRepository(s.coll, WithNowFunc(func() time.Time { return dummyTime }))
}

func (s *RepositoryTestSuite) SetupTest() {
	ctx := context.Background()
	_, err := s.coll.DeleteMany(ctx, bson.D{})
	s.Require().NoError(err)
	s.Require().NoError(s.repo.EnsureIndexes(ctx))
}

func (s *RepositoryTestSuite) TearDownSuite() {
	s.Require().NoError(s.client.Disconnect(context.Background()))
}

func (s *RepositoryTestSuite) create(name, cpf string, active bool) *domain.Farmer {
	c, err := domain.NewCPF(cpf)
	s.Require().NoError(err)

	f, err := s.repo.CreateFarmer(context.Background(), domain.Profile{FullName: name, CPF: c, Active: active})
	s.Require().NoError(err)
	return f
}

func (s *RepositoryTestSuite) TestCreateAndFetch() {
	ctx := context.Background()
	f := s.create("Maria da Silva", "52998224725", true)
	s.Equal(dummyTime, f.CreatedAt)

	got, err := s.repo.FetchFarmerByID(ctx, f.ID)
	s.Require().NoError(err)
	s.Equal(f, got)

	c, _ := domain.NewCPF("529.982.247-25")
	got, err = s.repo.FetchFarmerByCPF(ctx, c)
	s.Require().NoError(err)
	s.Equal(f.ID, got.ID)

	got, err = s.repo.FetchFarmerByID(ctx, "zzz")
	s.Require().NoError(err)
	s.Nil(got)

	got, err = s.repo.FetchFarmerByID(ctx, primitive.NewObjectID().Hex())
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *RepositoryTestSuite) TestDuplicateCPF() {
	s.create("Maria", "52998224725", true)

	c, _ := domain.NewCPF("52998224725")
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.repo.CreateFarmer(context.Background(), domain.Profile{FullName: "Outra", CPF: c, Active: true})
			if err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			} else {
				s.ErrorIs(err, domain.ErrDuplicateCPF)
			}
		}()
	}
	wg.Wait()
	s.Zero(created)
}

func (s *RepositoryTestSuite) TestUpdateAndDelete() {
	ctx := context.Background()
	f := s.create("Maria", "52998224725", true)

	phone := "123"
	inactive := false
	got, err := s.repo.UpdateFarmer(ctx, f.ID, domain.Patch{Phone: &phone, Active: &inactive})
	s.Require().NoError(err)
	s.Equal("123", *got.Phone)
	s.False(got.Active)

	empty := ""
	got, err = s.repo.UpdateFarmer(ctx, f.ID, domain.Patch{Phone: &empty})
	s.Require().NoError(err)
	s.Nil(got.Phone)

	s.Require().NoError(s.repo.DeleteFarmer(ctx, f.ID))
	got, err = s.repo.FetchFarmerByID(ctx, f.ID)
	s.Require().NoError(err)
	s.Nil(got)

	got, err = s.repo.UpdateFarmer(ctx, f.ID, domain.Patch{Active: &inactive})
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *RepositoryTestSuite) TestFetchFarmers() {
	s.create("Mariana Costa", "12345678909", true)
	s.create("ana Paula", "12300000113", false)
	s.create("Bruno Lima", "12399999843", true)
	s.create("Álvaro Dias", "52998224725", true)

	fs, err := s.repo.FetchFarmers(context.Background(), domain.Filter{})
	s.Require().NoError(err)

	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.FullName
	}
	s.Equal([]string{"Álvaro Dias", "ana Paula", "Bruno Lima", "Mariana Costa"}, names)

	fs, err = s.repo.FetchFarmers(context.Background(), domain.Filter{CPF: "123", Name: "ANA"})
	s.Require().NoError(err)
	require.Len(s.T(), fs, 2)
}
