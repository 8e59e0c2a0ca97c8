package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/response"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/testutil"
)

func setupTransactionHandler(t *testing.T) (*TransactionHandler, *sql.DB, *testutil.MockGateway) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	gw := testutil.NewMockGateway().WithQuote("AAPL", 120, 115)
	ts := testutil.NewTestTransactionService(t, db, gw)
	return NewTransactionHandler(ts), db, gw
}

func TestTransactionHandler_History(t *testing.T) {
	t.Run("returns empty array when no transactions exist", func(t *testing.T) {
		handler, _, _ := setupTransactionHandler(t)

		req := testutil.NewUserRequest(http.MethodGet, "/api/transaction", "user-1", "")
		w := httptest.NewRecorder()

		handler.History(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []model.Transaction
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response == nil {
			t.Error("Expected non-nil array, got nil")
		}
		if len(response) != 0 {
			t.Errorf("Expected empty array, got %d transactions", len(response))
		}
	})

	t.Run("returns only the user's rows newest first", func(t *testing.T) {
		handler, db, _ := setupTransactionHandler(t)

		older := testutil.CreateBuy(t, db, "user-1", "AAPL", 10, 100, testutil.Date(2024, 1, 2))
		newer := testutil.CreateSell(t, db, "user-1", "AAPL", 4, 130, testutil.Date(2024, 3, 4))
		testutil.CreateBuy(t, db, "user-2", "AAPL", 1, 100, testutil.Date(2024, 2, 1))

		req := testutil.NewUserRequest(http.MethodGet, "/api/transaction", "user-1", "")
		w := httptest.NewRecorder()

		handler.History(w, req)

		var response []model.Transaction
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(response) != 2 {
			t.Fatalf("Expected 2 transactions, got %d", len(response))
		}
		if response[0].ID != newer.ID || response[1].ID != older.ID {
			t.Errorf("Expected newest first, got %s then %s", response[0].ID, response[1].ID)
		}
	})
}

func TestTransactionHandler_Buy(t *testing.T) {
	t.Run("creates purchase", func(t *testing.T) {
		handler, db, _ := setupTransactionHandler(t)

		req := testutil.NewUserRequest(http.MethodPost, "/api/transaction/buy", "user-1",
			`{"symbol":"aapl","shares":"10","price":"100","date":"2024-05-01","assetType":"stock"}`)
		w := httptest.NewRecorder()

		handler.Buy(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var tx model.Transaction
		if err := json.NewDecoder(w.Body).Decode(&tx); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if tx.Symbol != "AAPL" || tx.Shares != 10 || tx.UserID != "user-1" {
			t.Errorf("Unexpected transaction: %+v", tx)
		}
		testutil.AssertRowCount(t, db, "transactions", 1)
	})

	t.Run("rejects invalid symbol", func(t *testing.T) {
		handler, db, _ := setupTransactionHandler(t)

		req := testutil.NewUserRequest(http.MethodPost, "/api/transaction/buy", "user-1",
			`{"symbol":"NOPE","shares":"10","price":"100","date":"2024-05-01","assetType":"stock"}`)
		w := httptest.NewRecorder()

		handler.Buy(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
		testutil.AssertRowCount(t, db, "transactions", 0)
	})

	t.Run("rejects future date with field details", func(t *testing.T) {
		handler, db, _ := setupTransactionHandler(t)

		req := testutil.NewUserRequest(http.MethodPost, "/api/transaction/buy", "user-1",
			`{"symbol":"AAPL","shares":"10","price":"100","date":"2099-01-01","assetType":"stock"}`)
		w := httptest.NewRecorder()

		handler.Buy(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}

		var body struct {
			Error   string            `json:"error"`
			Details map[string]string `json:"details"`
		}
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if body.Details["date"] != "date cannot be in the future" {
			t.Errorf("Expected future date message, got %v", body.Details)
		}
		testutil.AssertRowCount(t, db, "transactions", 0)
	})

	t.Run("rejects shares that overflow", func(t *testing.T) {
		handler, db, _ := setupTransactionHandler(t)

		req := testutil.NewUserRequest(http.MethodPost, "/api/transaction/buy", "user-1",
			`{"symbol":"AAPL","shares":"1e400","price":"100","date":"2024-05-01","assetType":"stock"}`)
		w := httptest.NewRecorder()

		handler.Buy(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
		testutil.AssertRowCount(t, db, "transactions", 0)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		handler, _, _ := setupTransactionHandler(t)

		req := testutil.NewUserRequest(http.MethodPost, "/api/transaction/buy", "user-1", `{"symbol":`)
		w := httptest.NewRecorder()

		handler.Buy(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}

func TestTransactionHandler_Sell(t *testing.T) {
	t.Run("reports realized profit", func(t *testing.T) {
		handler, db, _ := setupTransactionHandler(t)
		testutil.CreateBuy(t, db, "user-1", "AAPL", 10, 100, testutil.Date(2024, 1, 2))

		req := testutil.NewUserRequest(http.MethodPost, "/api/transaction/sell", "user-1",
			`{"symbol":"AAPL","shares":"4","price":"130","date":"2024-05-15"}`)
		w := httptest.NewRecorder()

		handler.Sell(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var result model.SaleResult
		if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if result.RealizedGainLoss != 120 {
			t.Errorf("Expected realized P&L 120, got %v", result.RealizedGainLoss)
		}
		if result.Message != "Sold successfully! Realized Profit: $120.00" {
			t.Errorf("Unexpected message: %q", result.Message)
		}
	})

	t.Run("rejects selling more than held", func(t *testing.T) {
		handler, db, _ := setupTransactionHandler(t)
		testutil.CreateBuy(t, db, "user-1", "AAPL", 10, 100, testutil.Date(2024, 1, 2))

		req := testutil.NewUserRequest(http.MethodPost, "/api/transaction/sell", "user-1",
			`{"symbol":"AAPL","shares":"15","price":"130","date":"2024-05-15"}`)
		w := httptest.NewRecorder()

		handler.Sell(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}

		var body response.ErrorResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&body)
		if body.Error != "not enough shares to sell" {
			t.Errorf("Unexpected error message: %q", body.Error)
		}
		testutil.AssertRowCount(t, db, "transactions", 1)
	})
}

func TestTransactionHandler_Delete(t *testing.T) {
	t.Run("deletes own transaction", func(t *testing.T) {
		handler, db, _ := setupTransactionHandler(t)
		tx := testutil.CreateBuy(t, db, "user-1", "AAPL", 10, 100, testutil.Date(2024, 1, 2))

		req := testutil.WithURLParams(
			testutil.NewUserRequest(http.MethodDelete, "/api/transaction/"+tx.ID, "user-1", ""),
			map[string]string{"uuid": tx.ID},
		)
		w := httptest.NewRecorder()

		handler.Delete(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("Expected 204, got %d: %s", w.Code, w.Body.String())
		}
		testutil.AssertRowCount(t, db, "transactions", 0)
	})

	t.Run("returns 404 for another user's transaction", func(t *testing.T) {
		handler, db, _ := setupTransactionHandler(t)
		tx := testutil.CreateBuy(t, db, "user-2", "AAPL", 10, 100, testutil.Date(2024, 1, 2))

		req := testutil.WithURLParams(
			testutil.NewUserRequest(http.MethodDelete, "/api/transaction/"+tx.ID, "user-1", ""),
			map[string]string{"uuid": tx.ID},
		)
		w := httptest.NewRecorder()

		handler.Delete(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
		testutil.AssertRowCount(t, db, "transactions", 1)
	})
}

func TestTransactionHandler_Reset(t *testing.T) {
	handler, db, _ := setupTransactionHandler(t)
	testutil.CreateBuy(t, db, "user-1", "AAPL", 10, 100, testutil.Date(2024, 1, 2))
	testutil.CreateBuy(t, db, "user-1", "AAPL", 5, 110, testutil.Date(2024, 2, 2))
	testutil.CreateBuy(t, db, "user-2", "AAPL", 1, 100, testutil.Date(2024, 2, 1))

	req := testutil.NewUserRequest(http.MethodPost, "/api/transaction/reset", "user-1", "")
	w := httptest.NewRecorder()

	handler.Reset(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body ResetResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body.Deleted != 2 {
		t.Errorf("Expected 2 deleted rows, got %d", body.Deleted)
	}
	testutil.AssertRowCount(t, db, "transactions", 1)
}
