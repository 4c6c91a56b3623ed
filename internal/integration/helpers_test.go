package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/shopspring/decimal"
	"github.com/skillforge/course-marketplace/internal/domain"
	"github.com/skillforge/course-marketplace/internal/repository"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "Pass123!@#"

func (s *BaseSuite) doJSON(client *http.Client, method, path string, body any) *http.Response {
	var reader io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.server.URL+path, reader)
	s.Require().NoError(err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := client.Do(req)
	s.Require().NoError(err)

	return res
}

func (s *BaseSuite) decode(res *http.Response, dst any) {
	defer res.Body.Close()
	s.Require().NoError(json.NewDecoder(res.Body).Decode(dst))
}

// registerAndLogin creates a user through the public API and returns a client
// holding its session cookie.
func (s *BaseSuite) registerAndLogin(email string) *http.Client {
	client := s.newClient()

	res := s.doJSON(client, http.MethodPost, "/auth/register", map[string]string{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     email,
		"password":  testPassword,
	})
	res.Body.Close()
	s.Require().Equal(http.StatusCreated, res.StatusCode)

	res = s.doJSON(client, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": testPassword,
	})
	res.Body.Close()
	s.Require().Equal(http.StatusNoContent, res.StatusCode)

	return client
}

func (s *BaseSuite) seedUser(email string) int {
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), 12)
	s.Require().NoError(err)

	var id int
	err = s.app.DB.QueryRow(context.Background(), `
		INSERT INTO users (first_name, last_name, email, password_hash)
		VALUES ('Ada', 'Lovelace', $1, $2)
		RETURNING id
	`, email, hash).Scan(&id)
	s.Require().NoError(err)

	return id
}

func (s *BaseSuite) seedCourse(title, slug string, price string, published bool) int {
	var id int

	err := s.app.DB.QueryRow(context.Background(), `
		INSERT INTO courses (title, slug, description, price, published)
		VALUES ($1, $2, '', $3, $4)
		RETURNING id
	`, title, slug, price, published).Scan(&id)
	s.Require().NoError(err)

	return id
}

func (s *BaseSuite) seedPromo(code, promoType, value string, maxUses *int) int {
	var id int

	err := s.app.DB.QueryRow(context.Background(), `
		INSERT INTO promos (code, promo_type, value, max_uses, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id
	`, code, promoType, value, maxUses).Scan(&id)
	s.Require().NoError(err)

	return id
}

func (s *BaseSuite) deliverWebhook(eventType, paymentID, signature string) *http.Response {
	payload, err := json.Marshal(map[string]string{
		"type":       eventType,
		"payment_id": paymentID,
	})
	s.Require().NoError(err)

	req, err := http.NewRequest(http.MethodPost, s.server.URL+"/webhooks/stripe", bytes.NewReader(payload))
	s.Require().NoError(err)

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Stripe-Signature", signature)

	res, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)

	return res
}

// deliverWebhooksConcurrently fires one delivery per payment id at the same
// moment and returns the response status codes. Passing the same id twice
// simulates a duplicated delivery of one event.
func (s *BaseSuite) deliverWebhooksConcurrently(eventType string, paymentIDs ...string) []int {
	payloads := make([][]byte, len(paymentIDs))

	for i, paymentID := range paymentIDs {
		payload, err := json.Marshal(map[string]string{
			"type":       eventType,
			"payment_id": paymentID,
		})
		s.Require().NoError(err)

		payloads[i] = payload
	}

	start := make(chan struct{})
	codes := make(chan int, len(payloads))
	errs := make(chan error, len(payloads))

	var wg sync.WaitGroup

	for _, payload := range payloads {
		wg.Add(1)

		go func(payload []byte) {
			defer wg.Done()
			<-start

			req, err := http.NewRequest(http.MethodPost, s.server.URL+"/webhooks/stripe", bytes.NewReader(payload))
			if err != nil {
				errs <- err
				return
			}

			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Stripe-Signature", "test-signature")

			res, err := http.DefaultClient.Do(req)
			if err != nil {
				errs <- err
				return
			}
			res.Body.Close()

			codes <- res.StatusCode
		}(payload)
	}

	close(start)
	wg.Wait()
	close(codes)
	close(errs)

	for err := range errs {
		s.Require().NoError(err)
	}

	statusCodes := make([]int, 0, len(payloads))
	for code := range codes {
		statusCodes = append(statusCodes, code)
	}

	return statusCodes
}

func (s *BaseSuite) journalEntries(orderID int) []domain.JournalEntry {
	var journal domain.JournalRepository = repository.NewPostgresJournalRepository(s.app.DB)

	entries, err := journal.GetByOrderId(context.Background(), orderID)
	s.Require().NoError(err)

	return entries
}

func (s *BaseSuite) orderState(orderID int) (status string, total, discount decimal.Decimal) {
	err := s.app.DB.QueryRow(context.Background(), `
		SELECT status, total_amount, discount_amount FROM orders WHERE id = $1
	`, orderID).Scan(&status, &total, &discount)
	s.Require().NoError(err)

	return status, total, discount
}

func (s *BaseSuite) countRows(query string, args ...any) int {
	var count int

	err := s.app.DB.QueryRow(context.Background(), query, args...).Scan(&count)
	s.Require().NoError(err)

	return count
}

// eventually polls for a condition produced by a background goroutine, such
// as the receipt mail.
func (s *BaseSuite) eventually(cond func() bool, msg string) {
	deadline := time.Now().Add(3 * time.Second)

	for time.Now().Before(deadline) {
		if cond() {
			return
		}

		time.Sleep(50 * time.Millisecond)
	}

	s.Fail(msg)
}

func compareResponse(t *testing.T, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore nondeterministic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		return k == "timestamp" || k == "requestId" || k == "createdAt" || k == "addedAt" || k == "purchasedAt"
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func intPtr(v int) *int {
	return &v
}
