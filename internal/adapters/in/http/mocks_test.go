package http_test

import (
	"context"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"

	"github.com/stretchr/testify/mock"
)

type MockPlaceOrderHandler struct{ mock.Mock }

func (m *MockPlaceOrderHandler) Handle(ctx context.Context, cmd commands.PlaceOrderCommand) (commands.PlacementResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.PlacementResult), args.Error(1)
}

type MockOrderActionHandler struct{ mock.Mock }

func (m *MockOrderActionHandler) Handle(ctx context.Context, cmd commands.OrderActionCommand) (commands.TransitionResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.TransitionResult), args.Error(1)
}

type MockStartDutyHandler struct{ mock.Mock }

func (m *MockStartDutyHandler) Handle(ctx context.Context, cmd commands.StartDutyCommand) (commands.DutyResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.DutyResult), args.Error(1)
}

type MockEndDutyHandler struct{ mock.Mock }

func (m *MockEndDutyHandler) Handle(ctx context.Context, cmd commands.EndDutyCommand) (commands.DutyResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.DutyResult), args.Error(1)
}

type MockUpdateDutyAreaHandler struct{ mock.Mock }

func (m *MockUpdateDutyAreaHandler) Handle(ctx context.Context, cmd commands.UpdateDutyAreaCommand) (commands.DutyResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.DutyResult), args.Error(1)
}

type MockChatConnectionHandler struct{ mock.Mock }

func (m *MockChatConnectionHandler) Handle(ctx context.Context, cmd commands.ChatConnectionCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockChatMessageHandler struct{ mock.Mock }

func (m *MockChatMessageHandler) Handle(ctx context.Context, cmd commands.RouteChatMessageCommand) (commands.MessageDelivery, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.MessageDelivery), args.Error(1)
}

type MockOrderStatusHandler struct{ mock.Mock }

func (m *MockOrderStatusHandler) Handle(ctx context.Context, query queries.GetOrderStatusQuery) (queries.GetOrderStatusQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.GetOrderStatusQueryResponse), args.Error(1)
}

type MockDutyStatusHandler struct{ mock.Mock }

func (m *MockDutyStatusHandler) Handle(ctx context.Context, query queries.GetDutyStatusQuery) (queries.GetDutyStatusQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.GetDutyStatusQueryResponse), args.Error(1)
}

type MockPendingOrdersHandler struct{ mock.Mock }

func (m *MockPendingOrdersHandler) Handle(ctx context.Context, query queries.GetPendingOrdersQuery) ([]queries.GetPendingOrdersQueryResponse, error) {
	args := m.Called(ctx, query)
	orders, _ := args.Get(0).([]queries.GetPendingOrdersQueryResponse)
	return orders, args.Error(1)
}
