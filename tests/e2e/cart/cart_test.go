//go:build e2e

package cart_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cedros-pay/internal/handler/dto/response"
	"cedros-pay/tests/common/dbtest"
	"cedros-pay/tests/e2e"

	"github.com/stretchr/testify/suite"
)

const (
	cartURL         = "/api/cart"
	cartItemsURL    = "/api/cart/items"
	cartMergeURL    = "/api/cart/merge"
	requirementsURL = "/api/cart/requirements"
	holdsURL        = "/api/cart/holds"
	verifyURL       = "/api/checkout/verify"
	loginURL        = "/api/auth/login"
)

type cartSuite struct {
	e2e.SharedSuite
}

func TestCartSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(cartSuite))
}

func (s *cartSuite) request(method, path, sessionID, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func (s *cartSuite) decodeCart(w *httptest.ResponseRecorder) response.CartResponse {
	var resp response.CartResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (s *cartSuite) addItem(sessionID, token, productID string, qty float64) *httptest.ResponseRecorder {
	return s.request(http.MethodPost, cartItemsURL, sessionID, token, map[string]any{
		"productId": productID,
		"qty":       qty,
		"unitPrice": 14,
		"currency":  "USD",
	})
}

func (s *cartSuite) login(email string) string {
	w := s.request(http.MethodPost, loginURL, "", "", map[string]any{
		"email":    email,
		"password": dbtest.TestPassword,
	})
	s.Require().Equal(http.StatusOK, w.Code, "login failed: %s", w.Body.String())

	var resp response.LoginResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

func (s *cartSuite) TestGuestCartLifecycle() {
	s.Run("add, read and clear a guest cart", func() {
		w := s.addItem("sess-guest", "", "prod-mug", 2)
		s.Equal(http.StatusOK, w.Code)
		s.Equal(2, s.decodeCart(w).Count)

		w = s.request(http.MethodGet, cartURL, "sess-guest", "", nil)
		s.Equal(http.StatusOK, w.Code)
		cart := s.decodeCart(w)
		s.Require().Len(cart.Items, 1)
		s.Equal("prod-mug", cart.Items[0].ProductID)

		// A different session sees its own empty cart.
		w = s.request(http.MethodGet, cartURL, "sess-other", "", nil)
		s.Equal(http.StatusOK, w.Code)
		s.Zero(s.decodeCart(w).Count)

		w = s.request(http.MethodDelete, cartURL, "sess-guest", "", nil)
		s.Equal(http.StatusOK, w.Code)
		s.Empty(s.decodeCart(w).Items)
	})

	s.Run("no token and no session header is rejected", func() {
		w := s.request(http.MethodGet, cartURL, "", "", nil)
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *cartSuite) TestRequirementsAndVerify() {
	s.Run("physical cart requires shipping and verifies clean", func() {
		s.addItem("sess-req", "", "prod-mug", 1)

		w := s.request(http.MethodGet, requirementsURL, "sess-req", "", nil)
		s.Equal(http.StatusOK, w.Code)

		var req response.RequirementsResponse
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &req))
		s.Equal("required", req.Email)
		s.True(req.ShippingAddress)

		w = s.request(http.MethodPost, verifyURL, "sess-req", "", nil)
		s.Equal(http.StatusOK, w.Code)

		var verify response.VerifyCartResponse
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &verify))
		s.True(verify.OK)
		s.Empty(verify.Issues)
	})
}

func (s *cartSuite) TestHoldFlow() {
	s.Run("attach a hold and see it in the hold status", func() {
		s.addItem("sess-hold", "", "prod-poster", 1)

		w := s.request(http.MethodPost, cartItemsURL+"/prod-poster/hold", "sess-hold", "", nil)
		s.Equal(http.StatusOK, w.Code)
		cart := s.decodeCart(w)
		s.Require().Len(cart.Items, 1)
		s.True(cart.Items[0].HasHold())

		// The test hold TTL sits inside the expiring-soon window.
		w = s.request(http.MethodGet, holdsURL, "sess-hold", "", nil)
		s.Equal(http.StatusOK, w.Code)

		var status response.HoldStatusResponse
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &status))
		s.Len(status.ExpiringSoon, 1)
		s.Empty(status.Expired)
	})
}

func (s *cartSuite) TestMergeOnSignIn() {
	s.Run("guest cart folds into the customer cart once", func() {
		dbtest.CreateTestCustomer(s.T(), s.DB, "shopper@example.com")
		token := s.login("shopper@example.com")

		w := s.addItem("sess-merge", "", "prod-mug", 3)
		s.Equal(http.StatusOK, w.Code)

		w = s.request(http.MethodPost, cartMergeURL, "sess-merge", token, nil)
		s.Equal(http.StatusOK, w.Code)
		merged := s.decodeCart(w)
		s.Require().Len(merged.Items, 1)
		s.Equal(3, merged.Items[0].Qty)

		// The guest snapshot is gone.
		w = s.request(http.MethodGet, cartURL, "sess-merge", "", nil)
		s.Equal(http.StatusOK, w.Code)
		s.Zero(s.decodeCart(w).Count)

		// The merged cart lives under the customer scope now.
		w = s.request(http.MethodGet, cartURL, "", token, nil)
		s.Equal(http.StatusOK, w.Code)
		s.Equal(3, s.decodeCart(w).Count)
	})

	s.Run("merge without a token is unauthorized", func() {
		w := s.request(http.MethodPost, cartMergeURL, "sess-merge", "", nil)
		s.Equal(http.StatusUnauthorized, w.Code)
	})
}
