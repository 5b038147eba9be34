package commands_test

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/stretchr/testify/mock"

	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/chat"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/partner"
	"dispatch/internal/core/domain/model/pending"
	"dispatch/internal/core/domain/model/view"
	"dispatch/internal/core/ports"
)

var now = time.Date(2026, time.October, 14, 9, 30, 0, 0, time.UTC)

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

// stallingStore blocks every Set whose path contains stallOn until the
// context is done.
type stallingStore struct {
	*memory.DocumentStore
	stallOn string
}

func (s *stallingStore) Set(ctx context.Context, ref view.Ref, doc view.Document, merge bool) error {
	if strings.Contains(ref.Path(), s.stallOn) {
		<-ctx.Done()
		return ctx.Err()
	}
	return s.DocumentStore.Set(ctx, ref, doc, merge)
}

// plainCipher treats every value as already decrypted. "garbled" fails.
type plainCipher struct{}

func (plainCipher) Encrypt(plain string) (string, error) { return plain, nil }

func (plainCipher) Decrypt(encoded string) (string, error) {
	if encoded == "garbled" {
		return "", errors.New("bad padding")
	}
	return encoded, nil
}

type MockPendingOrderRepository struct{ mock.Mock }

func (m *MockPendingOrderRepository) Upsert(ctx context.Context, p *pending.PendingOrder) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPendingOrderRepository) Update(ctx context.Context, p *pending.PendingOrder) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPendingOrderRepository) Get(ctx context.Context, id order.ID) (*pending.PendingOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pending.PendingOrder), args.Error(1)
}

func (m *MockPendingOrderRepository) ListPending(ctx context.Context, t order.Type) ([]*pending.PendingOrder, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*pending.PendingOrder), args.Error(1)
}

func (m *MockPendingOrderRepository) MarkAssigned(ctx context.Context, ids []order.ID) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *MockPendingOrderRepository) DeleteMany(ctx context.Context, ids []order.ID) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

type MockChatRegistrationRepository struct{ mock.Mock }

func (m *MockChatRegistrationRepository) Upsert(ctx context.Context, reg *chat.Registration) error {
	args := m.Called(ctx, reg)
	return args.Error(0)
}

func (m *MockChatRegistrationRepository) Get(ctx context.Context, id order.ID) (*chat.Registration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chat.Registration), args.Error(1)
}

func (m *MockChatRegistrationRepository) Delete(ctx context.Context, id order.ID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockChatRegistrationRepository) ResetAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockOrderMapRepository struct{ mock.Mock }

func (m *MockOrderMapRepository) Upsert(ctx context.Context, id order.ID, customerID string) error {
	args := m.Called(ctx, id, customerID)
	return args.Error(0)
}

func (m *MockOrderMapRepository) GetCustomer(ctx context.Context, id order.ID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockOrderMapRepository) Delete(ctx context.Context, id order.ID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) PendingOrderRepository() ports.PendingOrderRepository {
	args := m.Called()
	return args.Get(0).(ports.PendingOrderRepository)
}

func (m *MockUoW) ChatRegistrationRepository() ports.ChatRegistrationRepository {
	args := m.Called()
	return args.Get(0).(ports.ChatRegistrationRepository)
}

func (m *MockUoW) OrderMapRepository() ports.OrderMapRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderMapRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockPendingUoW struct{ mock.Mock }

func (m *MockPendingUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPendingUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPendingUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPendingUoW) PendingOrderRepository() ports.PendingOrderRepository {
	args := m.Called()
	return args.Get(0).(ports.PendingOrderRepository)
}

type MockPendingUoWFactory struct{ mock.Mock }

func (m *MockPendingUoWFactory) Create() commands.PendingUoW {
	args := m.Called()
	return args.Get(0).(commands.PendingUoW)
}

type MockChatUoW struct{ mock.Mock }

func (m *MockChatUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockChatUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockChatUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockChatUoW) ChatRegistrationRepository() ports.ChatRegistrationRepository {
	args := m.Called()
	return args.Get(0).(ports.ChatRegistrationRepository)
}

type MockChatUoWFactory struct{ mock.Mock }

func (m *MockChatUoWFactory) Create() commands.ChatUoW {
	args := m.Called()
	return args.Get(0).(commands.ChatUoW)
}

type MockAddressBook struct{ mock.Mock }

func (m *MockAddressBook) GetAddress(ctx context.Context, userID string, phone string) (ports.Address, error) {
	args := m.Called(ctx, userID, phone)
	return args.Get(0).(ports.Address), args.Error(1)
}

type MockShopDirectory struct{ mock.Mock }

func (m *MockShopDirectory) GetShop(ctx context.Context, shopID string, state string, district string) (order.Shop, error) {
	args := m.Called(ctx, shopID, state, district)
	return args.Get(0).(order.Shop), args.Error(1)
}

func (m *MockShopDirectory) ListShops(ctx context.Context, state string, district string) ([]order.Shop, error) {
	args := m.Called(ctx, state, district)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Shop), args.Error(1)
}

type MockPartnerProfiles struct{ mock.Mock }

func (m *MockPartnerProfiles) GetProfile(ctx context.Context, partnerID string) (ports.PartnerProfile, error) {
	args := m.Called(ctx, partnerID)
	return args.Get(0).(ports.PartnerProfile), args.Error(1)
}

func (m *MockPartnerProfiles) UpdateArea(ctx context.Context, partnerID string, state string, district string) error {
	args := m.Called(ctx, partnerID, state, district)
	return args.Error(0)
}

type MockOrderPlacer struct{ mock.Mock }

func (m *MockOrderPlacer) Handle(ctx context.Context, cmd commands.PlaceOrderCommand) (commands.PlacementResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.PlacementResult), args.Error(1)
}

type MockPartnerDirectory struct{ mock.Mock }

func (m *MockPartnerDirectory) FindOnDutyPartners(ctx context.Context, bucket partner.DutyBucket) ([]partner.Candidate, error) {
	args := m.Called(ctx, bucket)
	if candidates, ok := args.Get(0).([]partner.Candidate); ok {
		return candidates, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPartnerDirectory) UpdatePartnerTimestamp(
	ctx context.Context,
	bucket partner.DutyBucket,
	partnerID string,
	expectedMillis int64,
	nextMillis int64,
) (bool, error) {
	args := m.Called(ctx, bucket, partnerID, expectedMillis, nextMillis)
	return args.Bool(0), args.Error(1)
}

func (m *MockPartnerDirectory) SetPartnerDutyMode(ctx context.Context, bucket partner.DutyBucket, p *partner.Partner) error {
	args := m.Called(ctx, bucket, p)
	return args.Error(0)
}

func (m *MockPartnerDirectory) GetPartnerDuty(ctx context.Context, bucket partner.DutyBucket, partnerID string) (*partner.Partner, error) {
	args := m.Called(ctx, bucket, partnerID)
	if p, ok := args.Get(0).(*partner.Partner); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPartnerDirectory) RemovePartnerDuty(ctx context.Context, bucket partner.DutyBucket, partnerID string) error {
	args := m.Called(ctx, bucket, partnerID)
	return args.Error(0)
}
