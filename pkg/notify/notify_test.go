package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sareeloom/storefront/pkg/domain"
	notifmock "github.com/sareeloom/storefront/pkg/domain/notification/db/mock"
	"github.com/sareeloom/storefront/pkg/notify"
)

func TestBackoff(t *testing.T) {
	for attempts, expected := range map[int]time.Duration{
		-1: time.Minute,
		0:  time.Minute,
		1:  2 * time.Minute,
		3:  8 * time.Minute,
		10: 1024 * time.Minute,
		11: 24 * time.Hour,
		64: 24 * time.Hour,
	} {
		if actual := notify.Backoff(attempts); actual != expected {
			t.Errorf("Backoff(%d): expected %s, but got %s", attempts, expected, actual)
		}
	}
}

func mustParse(t *testing.T, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestWebhooks_Deliver(t *testing.T) {
	notification := domain.Notification{
		Id: "n-1", Kind: domain.OrderConfirmation, Recipient: "meera@example.com",
		Payload: json.RawMessage(`{"number":"SL-1"}`), Attempts: 2,
	}

	type Resp struct {
		StatusCode  int
		ContentType string
		Content     string
	}

	for name, testcase := range map[string]struct {
		resp1, resp2 Resp
		wantErr      bool
	}{
		"all succeeded": {
			resp1: Resp{StatusCode: http.StatusOK},
			resp2: Resp{StatusCode: http.StatusNoContent},
		},
		"one failed": {
			resp1:   Resp{StatusCode: http.StatusOK},
			resp2:   Resp{StatusCode: http.StatusServiceUnavailable, ContentType: "text/plain", Content: "busy"},
			wantErr: true,
		},
		"failed with binary body": {
			resp1:   Resp{StatusCode: http.StatusBadGateway, ContentType: "application/octet-stream"},
			resp2:   Resp{StatusCode: http.StatusOK},
			wantErr: true,
		},
	} {
		t.Run(name, func(t *testing.T) {
			mu := sync.Mutex{}
			received := []notify.Message{}
			server := func(resp Resp) *httptest.Server {
				return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					if r.Method != http.MethodPost {
						t.Errorf("unexpected method: %s", r.Method)
					}
					if ct := r.Header.Get("Content-Type"); ct != "application/json" {
						t.Errorf("unexpected Content-Type: %s", ct)
					}
					body, _ := io.ReadAll(r.Body)
					m := notify.Message{}
					if err := json.Unmarshal(body, &m); err != nil {
						t.Errorf("unexpected body: %s", body)
					}
					mu.Lock()
					received = append(received, m)
					mu.Unlock()

					if resp.ContentType != "" {
						w.Header().Set("Content-Type", resp.ContentType)
					}
					w.WriteHeader(resp.StatusCode)
					w.Write([]byte(resp.Content))
				}))
			}
			s1 := server(testcase.resp1)
			defer s1.Close()
			s2 := server(testcase.resp2)
			defer s2.Close()

			testee := notify.Webhooks{URLs: []*url.URL{mustParse(t, s1.URL), mustParse(t, s2.URL)}}
			err := testee.Deliver(context.Background(), notification)
			if testcase.wantErr {
				if !errors.Is(err, notify.ErrDeliveryFailed) {
					t.Errorf("expected ErrDeliveryFailed, but got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}

			expected := notify.Message{
				Id: "n-1", Kind: "order_confirmation", Recipient: "meera@example.com",
				Payload: json.RawMessage(`{"number":"SL-1"}`), Attempt: 3,
			}
			if diff := cmp.Diff([]notify.Message{expected, expected}, received); diff != "" {
				t.Errorf("received (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("unreachable", func(t *testing.T) {
		testee := notify.Webhooks{URLs: []*url.URL{mustParse(t, "http://somewhere.invalid")}}
		if err := testee.Deliver(context.Background(), notification); !errors.Is(err, notify.ErrDeliveryFailed) {
			t.Errorf("expected ErrDeliveryFailed, but got %v", err)
		}
	})

	t.Run("no hooks", func(t *testing.T) {
		if err := (notify.Webhooks{}).Deliver(context.Background(), notification); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

type senderFunc func(context.Context, domain.Notification) error

func (f senderFunc) Deliver(ctx context.Context, n domain.Notification) error {
	return f(ctx, n)
}

func TestDispatcher_Dispatch(t *testing.T) {
	now := time.Date(2024, 10, 20, 12, 0, 0, 0, time.UTC)

	outbox := notifmock.NewNotificationInterface()
	outbox.Impl.PickPending = func(ctx context.Context, limit int, lease time.Duration) ([]domain.Notification, error) {
		return []domain.Notification{
			{Id: "ok", Attempts: 0},
			{Id: "flaky", Attempts: 2},
			{Id: "hopeless", Attempts: 4},
		}, nil
	}
	outbox.Impl.MarkSent = func(ctx context.Context, id string) error { return nil }
	outbox.Impl.MarkRetry = func(ctx context.Context, id string, nextAt time.Time) error { return nil }
	outbox.Impl.MarkFailed = func(ctx context.Context, id string) error { return nil }

	sender := senderFunc(func(ctx context.Context, n domain.Notification) error {
		if n.Id == "ok" {
			return nil
		}
		return notify.ErrDeliveryFailed
	})

	testee := notify.NewDispatcher(
		outbox, sender, 5, log.New(io.Discard, "", 0),
		notify.WithClock(func() time.Time { return now }),
		notify.WithLease(30*time.Second),
	)
	picked, err := testee.Dispatch(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if picked != 3 {
		t.Errorf("picked: %d", picked)
	}

	if c := outbox.Calls.PickPending; c.Times() != 1 || c[0].Limit != 10 || c[0].Lease != 30*time.Second {
		t.Errorf("PickPending: %+v", c)
	}
	if diff := cmp.Diff([]string{"ok"}, []string(outbox.Calls.MarkSent)); diff != "" {
		t.Errorf("MarkSent (-want +got):\n%s", diff)
	}
	if c := outbox.Calls.MarkRetry; c.Times() != 1 || c[0].Id != "flaky" || !c[0].NextAt.Equal(now.Add(4*time.Minute)) {
		t.Errorf("MarkRetry: %+v", c)
	}
	if diff := cmp.Diff([]string{"hopeless"}, []string(outbox.Calls.MarkFailed)); diff != "" {
		t.Errorf("MarkFailed (-want +got):\n%s", diff)
	}
}

func TestDispatcher_Dispatch_OutboxError(t *testing.T) {
	expectedErr := errors.New("db down")
	outbox := notifmock.NewNotificationInterface()
	outbox.Impl.PickPending = func(ctx context.Context, limit int, lease time.Duration) ([]domain.Notification, error) {
		return []domain.Notification{{Id: "n-1"}}, nil
	}
	outbox.Impl.MarkSent = func(ctx context.Context, id string) error { return expectedErr }

	testee := notify.NewDispatcher(
		outbox, senderFunc(func(context.Context, domain.Notification) error { return nil }),
		0, log.New(io.Discard, "", 0),
	)
	if _, err := testee.Dispatch(context.Background(), 10); !errors.Is(err, expectedErr) {
		t.Errorf("unexpected error: %v", err)
	}
}
