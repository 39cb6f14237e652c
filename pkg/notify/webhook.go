package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sareeloom/storefront/pkg/domain"
	"golang.org/x/sync/errgroup"
)

var ErrDeliveryFailed = errors.New("delivery failed")

// Message is the JSON payload posted to webhooks.
type Message struct {
	Id        string          `json:"id"`
	Kind      string          `json:"kind"`
	Recipient string          `json:"recipient"`
	Payload   json.RawMessage `json:"payload"`

	// 1 for the first attempt.
	Attempt int `json:"attempt"`
}

// Webhooks delivers notifications to every URL.
//
// A notification is delivered if and only if all of the URLs return a 2xx status code.
type Webhooks struct {
	URLs []*url.URL

	// nil means http.DefaultClient.
	Client *http.Client
}

func (w Webhooks) client() *http.Client {
	if w.Client == nil {
		return http.DefaultClient
	}
	return w.Client
}

func (w Webhooks) Deliver(ctx context.Context, n domain.Notification) error {
	payload := n.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}
	buf, err := json.Marshal(Message{
		Id:        n.Id,
		Kind:      string(n.Kind),
		Recipient: n.Recipient,
		Payload:   payload,
		Attempt:   n.Attempts + 1,
	})
	if err != nil {
		return err
	}

	eg, ctx := errgroup.WithContext(ctx)
	for _, u := range w.URLs {
		u := u
		eg.Go(func() error {
			return w.post(ctx, u.String(), buf)
		})
	}
	return eg.Wait()
}

func (w Webhooks) post(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errors.Join(err, ErrDeliveryFailed)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client().Do(req)
	if err != nil {
		return errors.Join(err, ErrDeliveryFailed)
	}
	defer resp.Body.Close()

	if 200 <= resp.StatusCode && resp.StatusCode < 300 {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	ctype := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(ctype, "text/") && !(strings.HasPrefix(ctype, "application/") && strings.Contains(ctype, "json")) {
		return fmt.Errorf(
			"%w (%s %d, Content-Type: %s)",
			ErrDeliveryFailed, url, resp.StatusCode, ctype,
		)
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf(
		"%w (%s %d, Content-Type: %s): %s",
		ErrDeliveryFailed, url, resp.StatusCode, ctype, string(msg),
	)
}
