package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"menage/internal/auth"
	"menage/internal/core"
	"menage/internal/services"
	"menage/internal/storage"

	"github.com/stretchr/testify/suite"
)

const testAPIKey = "test-api-key"

type ServerTestSuite struct {
	suite.Suite

	repo   *storage.Repository
	server *Server
	ts     *httptest.Server

	renaud core.User
	copine core.User
	cats   []core.Category
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) SetupTest() {
	repo, err := storage.Open(filepath.Join(s.T().TempDir(), "menage.db"))
	s.Require().NoError(err)
	s.repo = repo

	hash, err := auth.HashPassword("correct horse")
	s.Require().NoError(err)
	renaud, err := repo.CreateUser(context.Background(), "Renaud", "renaud@budget.app", hash)
	s.Require().NoError(err)
	copine, err := repo.CreateUser(context.Background(), "Copine", "copine@budget.app", hash)
	s.Require().NoError(err)
	s.renaud = *renaud
	s.copine = *copine

	s.cats, err = repo.ListCategories(context.Background())
	s.Require().NoError(err)
	s.Require().NotEmpty(s.cats)

	gate := auth.NewGate(repo, testAPIKey)
	expenses := services.NewExpenseService(repo, nil)
	s.server = NewServer(":0", repo, expenses, gate, Options{SessionTTL: 30 * 24 * time.Hour})
	s.ts = httptest.NewServer(s.server.Handler)
}

func (s *ServerTestSuite) TearDownTest() {
	s.ts.Close()
	s.repo.Close()
}

// request performs a request authenticated with the API key as Renaud.
func (s *ServerTestSuite) request(method, path string, body any) (*http.Response, []byte) {
	return s.requestAs(method, path, body, s.renaud.Email)
}

func (s *ServerTestSuite) requestAs(method, path string, body any, email string) (*http.Response, []byte) {
	s.T().Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, s.ts.URL+path, reader)
	s.Require().NoError(err)
	req.Header.Set("X-API-Key", testAPIKey)
	if email != "" {
		req.Header.Set("X-User-Email", email)
	}

	resp, err := s.ts.Client().Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp, data
}

func (s *ServerTestSuite) createExpense(amount float64, categoryID string) core.Expense {
	s.T().Helper()
	resp, body := s.request(http.MethodPost, "/expenses", map[string]any{
		"amount":     amount,
		"categoryId": categoryID,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))
	var e core.Expense
	s.Require().NoError(json.Unmarshal(body, &e))
	return e
}

// --- auth ---

func (s *ServerTestSuite) TestUnauthenticatedIsRejected() {
	resp, err := s.ts.Client().Get(s.ts.URL + "/expenses")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	var e errorBody
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&e))
	s.NotEmpty(e.Error)
}

func (s *ServerTestSuite) TestAPIKeyWithoutEmailIsBadRequest() {
	resp, _ := s.requestAs(http.MethodGet, "/expenses", nil, "")
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *ServerTestSuite) TestAPIKeyWithUnknownEmailIsNotFound() {
	resp, _ := s.requestAs(http.MethodGet, "/expenses", nil, "nobody@budget.app")
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *ServerTestSuite) TestWrongAPIKeyIsUnauthorized() {
	req, err := http.NewRequest(http.MethodGet, s.ts.URL+"/expenses", nil)
	s.Require().NoError(err)
	req.Header.Set("X-API-Key", "not-the-key")
	req.Header.Set("X-User-Email", s.renaud.Email)
	resp, err := s.ts.Client().Do(req)
	s.Require().NoError(err)
	resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *ServerTestSuite) TestLoginSetsCookieAndGrantsAccess() {
	payload, _ := json.Marshal(map[string]string{
		"email":    s.renaud.Email,
		"password": "correct horse",
	})
	resp, err := s.ts.Client().Post(s.ts.URL+"/login", "application/json", bytes.NewReader(payload))
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var logged core.User
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&logged))
	s.Equal(s.renaud.ID, logged.ID)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookieName {
			cookie = c
		}
	}
	s.Require().NotNil(cookie, "login must set the session cookie")
	s.True(cookie.HttpOnly)

	req, err := http.NewRequest(http.MethodGet, s.ts.URL+"/categories", nil)
	s.Require().NoError(err)
	req.AddCookie(cookie)
	catResp, err := s.ts.Client().Do(req)
	s.Require().NoError(err)
	catResp.Body.Close()
	s.Equal(http.StatusOK, catResp.StatusCode)
}

func (s *ServerTestSuite) TestLoginWrongPassword() {
	payload, _ := json.Marshal(map[string]string{
		"email":    s.renaud.Email,
		"password": "wrong",
	})
	resp, err := s.ts.Client().Post(s.ts.URL+"/login", "application/json", bytes.NewReader(payload))
	s.Require().NoError(err)
	resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *ServerTestSuite) TestLogoutInvalidatesSession() {
	payload, _ := json.Marshal(map[string]string{
		"email":    s.renaud.Email,
		"password": "correct horse",
	})
	resp, err := s.ts.Client().Post(s.ts.URL+"/login", "application/json", bytes.NewReader(payload))
	s.Require().NoError(err)
	resp.Body.Close()
	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookieName {
			cookie = c
		}
	}
	s.Require().NotNil(cookie)

	req, _ := http.NewRequest(http.MethodPost, s.ts.URL+"/logout", nil)
	req.AddCookie(cookie)
	outResp, err := s.ts.Client().Do(req)
	s.Require().NoError(err)
	outResp.Body.Close()
	s.Equal(http.StatusOK, outResp.StatusCode)

	req, _ = http.NewRequest(http.MethodGet, s.ts.URL+"/categories", nil)
	req.AddCookie(cookie)
	afterResp, err := s.ts.Client().Do(req)
	s.Require().NoError(err)
	afterResp.Body.Close()
	s.Equal(http.StatusUnauthorized, afterResp.StatusCode)
}

// --- health ---

func (s *ServerTestSuite) TestHealthEndpointsArePublic() {
	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := s.ts.Client().Get(s.ts.URL + path)
		s.Require().NoError(err)
		resp.Body.Close()
		s.Equal(http.StatusOK, resp.StatusCode, path)
	}
}

// --- expenses ---

func (s *ServerTestSuite) TestCreateExpenseDefaults() {
	e := s.createExpense(45.5, s.cats[0].ID)
	s.Equal("Expense", e.Description)
	s.EqualValues(4550, e.Amount.Cents)
	s.Equal(s.renaud.ID, e.UserID)
	s.Require().NotNil(e.Category)
	s.Equal(s.cats[0].Name, e.Category.Name)
}

func (s *ServerTestSuite) TestCreateExpenseValidation() {
	resp, _ := s.request(http.MethodPost, "/expenses", map[string]any{"amount": 10.0})
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.request(http.MethodPost, "/expenses", map[string]any{"categoryId": s.cats[0].ID})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *ServerTestSuite) TestPatchExpense() {
	e := s.createExpense(10, s.cats[0].ID)

	resp, body := s.request(http.MethodPatch, "/expenses/"+e.ID, map[string]any{
		"description": "Boulangerie",
		"shared":      true,
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	var updated core.Expense
	s.Require().NoError(json.Unmarshal(body, &updated))
	s.Equal("Boulangerie", updated.Description)
	s.True(updated.Shared)
	s.EqualValues(1000, updated.Amount.Cents, "omitted fields stay untouched")
}

func (s *ServerTestSuite) TestPatchMissingExpenseIsNotFound() {
	resp, _ := s.request(http.MethodPatch, "/expenses/no-such-id", map[string]any{
		"description": "ghost",
	})
	s.Equal(http.StatusNotFound, resp.StatusCode)

	resp, body := s.request(http.MethodGet, "/expenses", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var listed []core.Expense
	s.Require().NoError(json.Unmarshal(body, &listed))
	s.Empty(listed, "failed patch must not create rows")
}

func (s *ServerTestSuite) TestDeleteExpense() {
	e := s.createExpense(10, s.cats[0].ID)

	resp, _ := s.request(http.MethodDelete, "/expenses/"+e.ID, nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	resp, _ = s.request(http.MethodDelete, "/expenses/"+e.ID, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode, "double delete reports not found")
}

func (s *ServerTestSuite) TestListExpensesFiltersByCategory() {
	s.createExpense(10, s.cats[0].ID)
	s.createExpense(20, s.cats[1].ID)

	resp, body := s.request(http.MethodGet, "/expenses?categoryId="+s.cats[1].ID, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var listed []core.Expense
	s.Require().NoError(json.Unmarshal(body, &listed))
	s.Require().Len(listed, 1)
	s.EqualValues(2000, listed[0].Amount.Cents)
}

// --- budgets ---

func (s *ServerTestSuite) TestBudgetUpsertOverwrites() {
	body := map[string]any{
		"amount":     300.0,
		"month":      8,
		"year":       2026,
		"categoryId": s.cats[0].ID,
	}
	resp, _ := s.request(http.MethodPost, "/budgets", body)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	body["amount"] = 250.0
	resp, _ = s.request(http.MethodPost, "/budgets", body)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	listResp, listBody := s.request(http.MethodGet, "/budgets?month=8&year=2026", nil)
	s.Require().Equal(http.StatusOK, listResp.StatusCode)
	var budgets []core.Budget
	s.Require().NoError(json.Unmarshal(listBody, &budgets))
	s.Require().Len(budgets, 1, "repeat upsert must not add rows")
	s.EqualValues(25000, budgets[0].Amount.Cents)
}

func (s *ServerTestSuite) TestBudgetZeroAllowedMissingAmountNot() {
	resp, _ := s.request(http.MethodPost, "/budgets", map[string]any{
		"amount":     0.0,
		"month":      8,
		"year":       2026,
		"categoryId": s.cats[0].ID,
	})
	s.Equal(http.StatusOK, resp.StatusCode, "zero is a legitimate ceiling")

	resp, _ = s.request(http.MethodPost, "/budgets", map[string]any{
		"month":      8,
		"year":       2026,
		"categoryId": s.cats[0].ID,
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *ServerTestSuite) TestBudgetRequiresYear() {
	resp, _ := s.request(http.MethodPost, "/budgets", map[string]any{
		"amount":     100.0,
		"month":      8,
		"categoryId": s.cats[0].ID,
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	listResp, listBody := s.request(http.MethodGet, "/budgets?month=8&year=0", nil)
	s.Require().Equal(http.StatusOK, listResp.StatusCode)
	var budgets []core.Budget
	s.Require().NoError(json.Unmarshal(listBody, &budgets))
	s.Empty(budgets, "rejected upsert must not persist a year-0 row")
}

// --- recurring ---

func (s *ServerTestSuite) TestRecurringMonthlyTotal() {
	for _, body := range []map[string]any{
		{"amount": 10.0, "description": "Netflix", "frequency": "monthly", "categoryId": s.cats[0].ID},
		{"amount": 10.0, "description": "Pressing", "frequency": "weekly", "categoryId": s.cats[0].ID},
		{"amount": 120.0, "description": "Assurance", "frequency": "yearly", "categoryId": s.cats[0].ID},
	} {
		resp, respBody := s.request(http.MethodPost, "/recurring", body)
		s.Require().Equal(http.StatusCreated, resp.StatusCode, string(respBody))
	}

	resp, body := s.request(http.MethodGet, "/recurring", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var listed recurringListResponse
	s.Require().NoError(json.Unmarshal(body, &listed))
	s.Require().Len(listed.Items, 3)
	// 10 + 10*4.33 + 120/12 = 63.30
	s.EqualValues(6330, listed.MonthlyTotal.Cents)
}

func (s *ServerTestSuite) TestRecurringInactiveExcludedFromTotal() {
	resp, body := s.request(http.MethodPost, "/recurring", map[string]any{
		"amount": 15.0, "description": "Spotify", "frequency": "monthly", "categoryId": s.cats[0].ID,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var created core.RecurringExpense
	s.Require().NoError(json.Unmarshal(body, &created))
	s.True(created.Active, "recurring charges default to active")

	resp, _ = s.request(http.MethodPatch, "/recurring/"+created.ID, map[string]any{"active": false})
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	resp, listBody := s.request(http.MethodGet, "/recurring", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var listed recurringListResponse
	s.Require().NoError(json.Unmarshal(listBody, &listed))
	s.Require().Len(listed.Items, 1, "inactive rows stay in the listing")
	s.EqualValues(0, listed.MonthlyTotal.Cents)
}

func (s *ServerTestSuite) TestRecurringRejectsUnknownFrequency() {
	resp, _ := s.request(http.MethodPost, "/recurring", map[string]any{
		"amount": 10.0, "description": "X", "frequency": "daily", "categoryId": s.cats[0].ID,
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

// --- wishlist ---

func (s *ServerTestSuite) TestWishlistPurchaseToggle() {
	resp, body := s.request(http.MethodPost, "/wishlist", map[string]any{
		"name":  "Machine à café",
		"price": 199.99,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))
	var item core.WishlistItem
	s.Require().NoError(json.Unmarshal(body, &item))
	s.Equal(3, item.Priority, "priority defaults to 3")
	s.Require().NotNil(item.Price)
	s.EqualValues(19999, item.Price.Cents)
	s.Nil(item.PurchasedAt)

	resp, body = s.request(http.MethodPatch, "/wishlist/"+item.ID, map[string]any{"purchased": true})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Require().NoError(json.Unmarshal(body, &item))
	s.True(item.Purchased)
	s.Require().NotNil(item.PurchasedAt, "purchasing stamps purchasedAt")

	resp, body = s.request(http.MethodPatch, "/wishlist/"+item.ID, map[string]any{"purchased": false})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Require().NoError(json.Unmarshal(body, &item))
	s.False(item.Purchased)
	s.Nil(item.PurchasedAt, "unpurchasing clears purchasedAt")
}

func (s *ServerTestSuite) TestWishlistRequiresName() {
	resp, _ := s.request(http.MethodPost, "/wishlist", map[string]any{"price": 10.0})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

// --- stats ---

func (s *ServerTestSuite) fetchStats(query string) core.MonthSummary {
	s.T().Helper()
	resp, body := s.request(http.MethodGet, "/stats"+query, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	var summary core.MonthSummary
	s.Require().NoError(json.Unmarshal(body, &summary))
	return summary
}

func (s *ServerTestSuite) TestStatsReflectsNewExpense() {
	before := s.fetchStats("")
	s.EqualValues(0, before.TotalSpent.Cents)
	s.Len(before.ByCategory, len(s.cats), "every category reported even when empty")

	s.createExpense(45.5, s.cats[0].ID)

	after := s.fetchStats("")
	s.EqualValues(4550, after.TotalSpent.Cents)
	s.EqualValues(4550, after.ByCategory[0].Spent.Cents)
	s.Require().Len(after.RecentExpenses, 1)
}

func (s *ServerTestSuite) TestStatsSpansBothUsers() {
	s.createExpense(10, s.cats[0].ID)
	resp, body := s.requestAs(http.MethodPost, "/expenses", map[string]any{
		"amount":     20.0,
		"categoryId": s.cats[0].ID,
	}, s.copine.Email)
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))

	summary := s.fetchStats("")
	s.EqualValues(3000, summary.TotalSpent.Cents, "totals cover both household users")
}

func (s *ServerTestSuite) TestStatsRejectsInvalidMonth() {
	resp, _ := s.request(http.MethodGet, "/stats?month=13&year=2026", nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *ServerTestSuite) TestStatsByCategorySumsMatchTotal() {
	s.createExpense(12.34, s.cats[0].ID)
	s.createExpense(56.78, s.cats[2].ID)

	summary := s.fetchStats("")
	var sum int64
	for _, c := range summary.ByCategory {
		sum += c.Spent.Cents
	}
	s.Equal(summary.TotalSpent.Cents, sum)
}

func (s *ServerTestSuite) TestStatsForEmptyMonth() {
	s.createExpense(10, s.cats[0].ID)

	summary := s.fetchStats(fmt.Sprintf("?month=1&year=%d", time.Now().Year()-1))
	s.EqualValues(0, summary.TotalSpent.Cents)
	s.Empty(summary.RecentExpenses)
	s.Len(summary.ByCategory, len(s.cats))
}
