//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"shop-api/internal/domain/cart"
	"shop-api/internal/domain/order"
	"shop-api/internal/handler/api"
	resdto "shop-api/internal/handler/dto/response"
	"shop-api/internal/usecase"
	"shop-api/tests/common/builder"
	"shop-api/tests/common/httptest"
	usecasemock "shop-api/tests/mock/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type OrderHandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	mockCtrl *gomock.Controller
	mockUC   *usecasemock.MockOrderUseCase
	handler  *api.OrderHandler
	userID   uuid.UUID
}

func (s *OrderHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockUC = usecasemock.NewMockOrderUseCase(s.mockCtrl)
	s.handler = api.NewOrderHandler(s.mockUC)
	s.userID = uuid.New()

	// Stand-in for the auth middleware
	authed := func(c *gin.Context) {
		c.Set("user_id", s.userID)
	}

	s.router.POST("/orders/checkout", authed, s.handler.Checkout)
	s.router.POST("/orders/confirm", authed, s.handler.ConfirmOrder)
	s.router.GET("/orders", authed, s.handler.GetOrderHistory)
	s.router.PATCH("/orders/:id/status", authed, s.handler.UpdateOrderStatus)
}

func (s *OrderHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestOrderHandlerSuite(t *testing.T) {
	suite.Run(t, new(OrderHandlerTestSuite))
}

func (s *OrderHandlerTestSuite) buildSnapshot() order.Snapshot {
	p := builder.NewProductBuilder()
	lines := []cart.Line{p.BuildCartLine(uuid.New(), 2)}
	return order.NewSnapshot(s.userID, lines, cart.Total(lines), time.Now())
}

func (s *OrderHandlerTestSuite) TestCheckout() {
	url := "/orders/checkout"

	s.Run("success: returns staged order with totals", func() {
		snapshot := s.buildSnapshot()
		s.mockUC.EXPECT().Checkout(gomock.Any(), s.userID).Return(&snapshot, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")

		var response resdto.CheckoutResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(snapshot.ID, response.ID)
		s.Equal(s.userID, response.UserID)
		s.Equal("Pending", response.Status)
		s.True(snapshot.TotalPrice.Equal(response.TotalPrice))
	})

	s.Run("error: 404 when cart is empty", func() {
		s.mockUC.EXPECT().Checkout(gomock.Any(), s.userID).
			Return(nil, usecase.ErrCartEmpty).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "No items in the cart")
	})
}

func (s *OrderHandlerTestSuite) TestConfirmOrder() {
	url := "/orders/confirm"
	body := map[string]any{"shippingAddress": "221B Baker Street"}

	s.Run("success: returns 201 with the created order", func() {
		created := &order.Order{
			ID:              uuid.New(),
			UserID:          s.userID,
			Status:          order.StatusPending,
			TotalPrice:      decimal.NewFromFloat(99.98),
			ShippingAddress: "221B Baker Street",
		}
		s.mockUC.EXPECT().Confirm(gomock.Any(), s.userID, "221B Baker Street").
			Return(created, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")

		var response resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(created.ID, response.ID)
		s.True(created.TotalPrice.Equal(response.TotalPrice))
	})

	s.Run("error: 400 when shipping address is missing", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{}, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("error: 404 when the checkout session expired", func() {
		s.mockUC.EXPECT().Confirm(gomock.Any(), s.userID, "221B Baker Street").
			Return(nil, usecase.ErrCheckoutSessionExpired).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Checkout session expired")
	})

	s.Run("error: 409 when stock ran out since checkout", func() {
		s.mockUC.EXPECT().Confirm(gomock.Any(), s.userID, "221B Baker Street").
			Return(nil, usecase.ErrInsufficientStock).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "insufficient stock")
	})

	s.Run("error: 404 when a product vanished since checkout", func() {
		s.mockUC.EXPECT().Confirm(gomock.Any(), s.userID, "221B Baker Street").
			Return(nil, usecase.ErrProductNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "product not found")
	})

	s.Run("error: 504 when the confirm transaction timed out", func() {
		s.mockUC.EXPECT().Confirm(gomock.Any(), s.userID, "221B Baker Street").
			Return(nil, usecase.ErrConfirmTimeout).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusGatewayTimeout, "timed out")
	})
}

func (s *OrderHandlerTestSuite) TestGetOrderHistory() {
	s.Run("success: returns the user's orders", func() {
		orders := []order.Order{
			{ID: uuid.New(), UserID: s.userID, Status: order.StatusPending, TotalPrice: decimal.NewFromFloat(10)},
			{ID: uuid.New(), UserID: s.userID, Status: order.StatusShipped, TotalPrice: decimal.NewFromFloat(25.50)},
		}
		s.mockUC.EXPECT().GetOrderHistory(gomock.Any(), s.userID).Return(orders, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/orders", nil, "")

		var response []resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 2)
	})
}

func (s *OrderHandlerTestSuite) TestUpdateOrderStatus() {
	orderID := uuid.New()
	url := "/orders/" + orderID.String() + "/status"

	s.Run("success: returns the updated order", func() {
		updated := &order.Order{ID: orderID, UserID: s.userID, Status: order.StatusShipped}
		s.mockUC.EXPECT().UpdateOrderStatus(gomock.Any(), orderID, "Shipped").
			Return(updated, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"status": "Shipped"}, "")

		var response resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("Shipped", response.Status)
	})

	s.Run("error: 400 on an unknown status", func() {
		s.mockUC.EXPECT().UpdateOrderStatus(gomock.Any(), orderID, "Teleported").
			Return(nil, order.ErrInvalidStatus).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"status": "Teleported"}, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid order status")
	})

	s.Run("error: 404 when the order does not exist", func() {
		s.mockUC.EXPECT().UpdateOrderStatus(gomock.Any(), orderID, "Shipped").
			Return(nil, usecase.ErrOrderNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"status": "Shipped"}, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Order not found")
	})
}
