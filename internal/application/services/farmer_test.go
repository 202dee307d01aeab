package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"agri-registry-api/internal/application/ports"
	domain "agri-registry-api/internal/domain/farmer"
	"agri-registry-api/internal/domain/farmer/mocks"
	"agri-registry-api/internal/infrastructure/cache"
	memfarmer "agri-registry-api/internal/infrastructure/db/memory/farmer"
	"agri-registry-api/internal/infrastructure/mq"
)

const farmerID = "3f1c2f0e-8a8e-4f7b-9c55-6d1f0a2b7c11"

type FakePublisher struct {
	mu     sync.Mutex
	Events []mq.Event
	Full   bool
}

func (p *FakePublisher) Publish(e mq.Event) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Full {
		return false
	}
	p.Events = append(p.Events, e)
	return true
}

func (p *FakePublisher) Actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.Events))
	for i, e := range p.Events {
		out[i] = e.Action
	}
	return out
}

func newCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_counters"}, []string{"result"})
}

func mustCPF(t *testing.T, raw string) domain.CPF {
	t.Helper()
	c, err := domain.NewCPF(raw)
	require.NoError(t, err)
	return c
}

func storedFarmer(t *testing.T, active bool) *domain.Farmer {
	t.Helper()
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Farmer{
		ID:        farmerID,
		FullName:  "Maria da Silva",
		CPF:       mustCPF(t, "52998224725"),
		Active:    active,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

func TestFarmerService_CreateFarmer(t *testing.T) {
	phone := "  +55 11 99999-0000 "
	birth := time.Date(1986, 5, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		in      ports.CreateFarmerInput
		setup   func(repo *mocks.MockRepository)
		wantErr error
	}{
		{
			name:    "blank name",
			in:      ports.CreateFarmerInput{FullName: "   ", CPF: "52998224725"},
			setup:   func(*mocks.MockRepository) {},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "invalid cpf",
			in:      ports.CreateFarmerInput{FullName: "Maria", CPF: "111.111.111-11"},
			setup:   func(*mocks.MockRepository) {},
			wantErr: domain.ErrInvalidCPF,
		},
		{
			name: "cpf already registered",
			in:   ports.CreateFarmerInput{FullName: "Maria", CPF: "529.982.247-25"},
			setup: func(repo *mocks.MockRepository) {
				repo.EXPECT().FetchFarmerByCPF(gomock.Any(), mustCPF(t, "52998224725")).Return(storedFarmer(t, true), nil)
			},
			wantErr: domain.ErrDuplicateCPF,
		},
		{
			name: "store reports duplicate",
			in:   ports.CreateFarmerInput{FullName: "Maria", CPF: "52998224725"},
			setup: func(repo *mocks.MockRepository) {
				repo.EXPECT().FetchFarmerByCPF(gomock.Any(), gomock.Any()).Return(nil, nil)
				repo.EXPECT().CreateFarmer(gomock.Any(), gomock.Any()).Return(nil, domain.ErrDuplicateCPF)
			},
			wantErr: domain.ErrDuplicateCPF,
		},
		{
			name: "created active with normalized input",
			in: ports.CreateFarmerInput{
				FullName:  "  Maria da Silva ",
				CPF:       "529.982.247-25",
				BirthDate: &birth,
				Phone:     &phone,
			},
			setup: func(repo *mocks.MockRepository) {
				repo.EXPECT().FetchFarmerByCPF(gomock.Any(), gomock.Any()).Return(nil, nil)
				repo.EXPECT().CreateFarmer(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p domain.Profile) (*domain.Farmer, error) {
						assert.Equal(t, "Maria da Silva", p.FullName)
						assert.Equal(t, "52998224725", p.CPF.String())
						assert.True(t, p.Active)
						require.NotNil(t, p.Phone)
						assert.Equal(t, "+55 11 99999-0000", *p.Phone)
						assert.Equal(t, &birth, p.BirthDate)

						f := storedFarmer(t, true)
						f.Phone = p.Phone
						f.BirthDate = p.BirthDate
						return f, nil
					})
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockRepository(ctrl)
			tt.setup(repo)
			pub := &FakePublisher{}

			svc := NewFarmerService(repo, pub, newCounter())
			f, err := svc.CreateFarmer(context.Background(), tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, f)
				assert.Empty(t, pub.Events)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, farmerID, f.ID)
			assert.Equal(t, []string{mq.ActionFarmerCreated}, pub.Actions())
			assert.Equal(t, farmerID, pub.Events[0].FarmerID)
		})
	}
}

func TestFarmerService_FindFarmer(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	svc := NewFarmerService(repo, nil, newCounter())
	ctx := context.Background()

	repo.EXPECT().FetchFarmerByID(ctx, "missing").Return(nil, nil)
	_, err := svc.FindFarmerByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	boom := errors.New("connection reset")
	repo.EXPECT().FetchFarmerByID(ctx, "broken").Return(nil, boom)
	_, err = svc.FindFarmerByID(ctx, "broken")
	assert.ErrorIs(t, err, boom)

	_, err = svc.FindFarmerByCPF(ctx, "123")
	assert.ErrorIs(t, err, domain.ErrInvalidCPF)

	repo.EXPECT().FetchFarmerByCPF(ctx, mustCPF(t, "52998224725")).Return(nil, nil)
	_, err = svc.FindFarmerByCPF(ctx, "529.982.247-25")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFarmerService_FindFarmersNormalizesFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	svc := NewFarmerService(repo, nil, newCounter())
	active := true

	repo.EXPECT().FetchFarmers(gomock.Any(), domain.Filter{Name: "Maria", CPF: "529982", Active: &active}).
		Return(domain.Farmers{storedFarmer(t, true)}, nil)

	fs, err := svc.FindFarmers(context.Background(), ports.ListFarmersInput{Name: " Maria ", CPF: "529.982", Active: &active})
	require.NoError(t, err)
	assert.Len(t, fs, 1)
}

func TestFarmerService_UpdateFarmer(t *testing.T) {
	ctx := context.Background()

	t.Run("empty name rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := NewFarmerService(mocks.NewMockRepository(ctrl), nil, newCounter())

		blank := "  "
		_, err := svc.UpdateFarmer(ctx, farmerID, ports.UpdateFarmerInput{FullName: &blank})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("empty patch reads current record", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockRepository(ctrl)
		pub := &FakePublisher{}
		svc := NewFarmerService(repo, pub, newCounter())

		repo.EXPECT().FetchFarmerByID(ctx, farmerID).Return(storedFarmer(t, true), nil)

		f, err := svc.UpdateFarmer(ctx, farmerID, ports.UpdateFarmerInput{})
		require.NoError(t, err)
		assert.Equal(t, farmerID, f.ID)
		assert.Empty(t, pub.Events)
	})

	t.Run("blank phone clears", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockRepository(ctrl)
		pub := &FakePublisher{}
		svc := NewFarmerService(repo, pub, newCounter())

		blank := "   "
		empty := ""
		repo.EXPECT().UpdateFarmer(ctx, farmerID, domain.Patch{Phone: &empty}).Return(storedFarmer(t, true), nil)

		_, err := svc.UpdateFarmer(ctx, farmerID, ports.UpdateFarmerInput{Phone: &blank})
		require.NoError(t, err)
		assert.Equal(t, []string{mq.ActionFarmerUpdated}, pub.Actions())
	})

	t.Run("missing farmer", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockRepository(ctrl)
		svc := NewFarmerService(repo, nil, newCounter())
		inactive := false

		repo.EXPECT().UpdateFarmer(ctx, "missing", gomock.Any()).Return(nil, nil)

		_, err := svc.UpdateFarmer(ctx, "missing", ports.UpdateFarmerInput{Active: &inactive})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestFarmerService_DeleteFarmer(t *testing.T) {
	ctx := context.Background()

	t.Run("active farmer cannot be removed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockRepository(ctrl)
		svc := NewFarmerService(repo, nil, newCounter())

		repo.EXPECT().FetchFarmerByID(ctx, farmerID).Return(storedFarmer(t, true), nil)
		repo.EXPECT().DeleteFarmer(gomock.Any(), gomock.Any()).Times(0)

		assert.ErrorIs(t, svc.DeleteFarmer(ctx, farmerID), domain.ErrDeletionNotAllowed)
	})

	t.Run("inactive farmer is removed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockRepository(ctrl)
		pub := &FakePublisher{}
		svc := NewFarmerService(repo, pub, newCounter())

		repo.EXPECT().FetchFarmerByID(ctx, farmerID).Return(storedFarmer(t, false), nil)
		repo.EXPECT().DeleteFarmer(ctx, farmerID).Return(nil)

		require.NoError(t, svc.DeleteFarmer(ctx, farmerID))
		assert.Equal(t, []string{mq.ActionFarmerDeleted}, pub.Actions())
	})

	t.Run("missing farmer", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockRepository(ctrl)
		svc := NewFarmerService(repo, nil, newCounter())

		repo.EXPECT().FetchFarmerByID(ctx, "missing").Return(nil, nil)

		assert.ErrorIs(t, svc.DeleteFarmer(ctx, "missing"), domain.ErrNotFound)
	})
}

func TestFarmerService_ValidateCPF(t *testing.T) {
	svc := NewFarmerService(nil, nil, newCounter())

	assert.Equal(t, ports.CPFValidation{CPF: "52998224725", Valid: true}, svc.ValidateCPF("529.982.247-25"))
	assert.Equal(t, ports.CPFValidation{CPF: "11111111111", Valid: false}, svc.ValidateCPF("111.111.111-11"))
	assert.Equal(t, ports.CPFValidation{CPF: "", Valid: false}, svc.ValidateCPF("abc"))
}

func TestFarmerService_DroppedEventDoesNotFailRequest(t *testing.T) {
	svc := NewFarmerService(memfarmer.NewRepository(), &FakePublisher{Full: true}, newCounter())

	f, err := svc.CreateFarmer(context.Background(), ports.CreateFarmerInput{FullName: "Maria", CPF: "52998224725"})
	require.NoError(t, err)
	assert.NotEmpty(t, f.ID)
}

func TestFarmerService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	pub := &FakePublisher{}
	svc := NewFarmerService(memfarmer.NewRepository(), pub, newCounter())

	f, err := svc.CreateFarmer(ctx, ports.CreateFarmerInput{FullName: "Maria da Silva", CPF: "529.982.247-25"})
	require.NoError(t, err)
	assert.Equal(t, "52998224725", f.CPF.String())
	assert.True(t, f.Active)

	for _, dup := range []string{"52998224725", "529.982.247-25", " 529 982 247 25 "} {
		_, err = svc.CreateFarmer(ctx, ports.CreateFarmerInput{FullName: "Outra", CPF: dup})
		assert.ErrorIs(t, err, domain.ErrDuplicateCPF, dup)
	}

	assert.ErrorIs(t, svc.DeleteFarmer(ctx, f.ID), domain.ErrDeletionNotAllowed)

	deactivated, err := svc.DeactivateFarmer(ctx, f.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.Active)

	byCPF, err := svc.FindFarmerByCPF(ctx, "529.982.247-25")
	require.NoError(t, err)
	assert.Equal(t, f.ID, byCPF.ID)

	require.NoError(t, svc.DeleteFarmer(ctx, f.ID))

	_, err = svc.FindFarmerByID(ctx, f.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	again, err := svc.CreateFarmer(ctx, ports.CreateFarmerInput{FullName: "Maria da Silva", CPF: "52998224725"})
	require.NoError(t, err, "cpf is free again after removal")
	assert.NotEqual(t, f.ID, again.ID)

	assert.Equal(t, []string{
		mq.ActionFarmerCreated,
		mq.ActionFarmerUpdated,
		mq.ActionFarmerDeleted,
		mq.ActionFarmerCreated,
	}, pub.Actions())
}

func TestFarmerService_UpdateKeepsCPF(t *testing.T) {
	ctx := context.Background()
	svc := NewFarmerService(memfarmer.NewRepository(), nil, newCounter())

	f, err := svc.CreateFarmer(ctx, ports.CreateFarmerInput{FullName: "Maria", CPF: "52998224725"})
	require.NoError(t, err)

	name := "Maria Souza"
	phone := "123"
	updated, err := svc.UpdateFarmer(ctx, f.ID, ports.UpdateFarmerInput{FullName: &name, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Maria Souza", updated.FullName)
	assert.Equal(t, "123", *updated.Phone)
	assert.Equal(t, f.CPF, updated.CPF)

	reactivated, err := svc.ActivateFarmer(ctx, f.ID)
	require.NoError(t, err)
	assert.True(t, reactivated.Active)

	_, err = svc.ActivateFarmer(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFarmerService_ListOrdering(t *testing.T) {
	ctx := context.Background()
	svc := NewFarmerService(memfarmer.NewRepository(), nil, newCounter())

	for _, in := range []ports.CreateFarmerInput{
		{FullName: "Bruno Lima", CPF: "12345678909"},
		{FullName: "ana Paula", CPF: "11144477735"},
		{FullName: "Álvaro Dias", CPF: "52998224725"},
	} {
		_, err := svc.CreateFarmer(ctx, in)
		require.NoError(t, err)
	}

	fs, err := svc.FindFarmers(ctx, ports.ListFarmersInput{})
	require.NoError(t, err)
	require.Len(t, fs, 3)
	assert.Equal(t, "Álvaro Dias", fs[0].FullName)
	assert.Equal(t, "ana Paula", fs[1].FullName)
	assert.Equal(t, "Bruno Lima", fs[2].FullName)

	fs, err = svc.FindFarmers(ctx, ports.ListFarmersInput{CPF: "111.444.777-35"})
	require.NoError(t, err)
	require.Len(t, fs, 1)
	assert.Equal(t, "ana Paula", fs[0].FullName)
}

func TestFarmerService_DeleteGateIgnoresStaleCache(t *testing.T) {
	ctx := context.Background()
	shared := memfarmer.NewRepository()
	cached := func() ports.FarmerService {
		repo := cache.NewFarmerRepository(shared, cache.NewLocal(time.Minute), time.Minute, zap.NewNop(), newCounter())
		return NewFarmerService(repo, nil, newCounter())
	}
	replicaA, replicaB := cached(), cached()

	f, err := replicaA.CreateFarmer(ctx, ports.CreateFarmerInput{FullName: "Maria da Silva", CPF: "52998224725"})
	require.NoError(t, err)
	_, err = replicaA.DeactivateFarmer(ctx, f.ID)
	require.NoError(t, err)

	// replica A now holds active=false in its local cache
	seen, err := replicaA.FindFarmerByID(ctx, f.ID)
	require.NoError(t, err)
	require.False(t, seen.Active)

	_, err = replicaB.ActivateFarmer(ctx, f.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, replicaA.DeleteFarmer(ctx, f.ID), domain.ErrDeletionNotAllowed)

	stored, err := shared.FetchFarmerByID(ctx, f.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.Active)

	_, err = replicaB.DeactivateFarmer(ctx, f.ID)
	require.NoError(t, err)
	require.NoError(t, replicaA.DeleteFarmer(ctx, f.ID))

	_, err = replicaA.FindFarmerByID(ctx, f.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "delete drops replica A's cached entry")
}
