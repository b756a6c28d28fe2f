package webhooks

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MetricsRecorder is an optional callback for recording delivery outcomes.
type MetricsRecorder func(success bool)

// subscriptionStore is the persistence interface consumed by Service.
// *Repository satisfies it.
type subscriptionStore interface {
	Create(ctx context.Context, sub *Subscription) error
	GetByID(ctx context.Context, id uuid.UUID) (*Subscription, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Subscription, error)
	ListByEvent(ctx context.Context, eventType string) ([]*Subscription, error)
	Delete(ctx context.Context, id uuid.UUID) error
	RecordDelivery(ctx context.Context, d *Delivery, payload []byte) error
}

var knownEvents = map[string]bool{
	EventUserCreated:             true,
	EventUserUpdated:             true,
	EventUserProfessionalChanged: true,
	EventUserDeleted:             true,
}

// ErrUnknownEvent is returned when a subscription names an event type
// that is not part of the account-event vocabulary.
var ErrUnknownEvent = errors.New("unrecognized event")

// Service manages webhook subscriptions and event dispatching.
type Service struct {
	store      subscriptionStore
	httpClient *http.Client
	delays     []time.Duration
	onMetrics  MetricsRecorder
	logger     *zap.Logger
}

// NewService creates a new webhook Service.
func NewService(store subscriptionStore, logger *zap.Logger) *Service {
	return &Service{
		store:      store,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		delays:     []time.Duration{0, 1 * time.Second, 5 * time.Second},
		logger:     logger,
	}
}

// SetMetricsRecorder configures the metrics callback.
func (s *Service) SetMetricsRecorder(fn MetricsRecorder) {
	s.onMetrics = fn
}

// Subscribe creates a new subscription with a generated HMAC secret.
// Every requested event type must be one of the recognized account
// events.
func (s *Service) Subscribe(ctx context.Context, ownerID uuid.UUID, req *CreateSubscriptionRequest) (*Subscription, error) {
	for _, ev := range req.Events {
		if !knownEvents[ev] {
			return nil, fmt.Errorf("%w %q: must be one of %s, %s, %s, %s",
				ErrUnknownEvent, ev, EventUserCreated, EventUserUpdated, EventUserProfessionalChanged, EventUserDeleted)
		}
	}

	secret, err := generateSecret()
	if err != nil {
		return nil, fmt.Errorf("generate secret: %w", err)
	}

	sub := &Subscription{
		OwnerID: ownerID,
		URL:     req.URL,
		Events:  req.Events,
		Secret:  secret,
	}
	if err := s.store.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}
	return sub, nil
}

// Unsubscribe deletes a subscription, checking ownership.
func (s *Service) Unsubscribe(ctx context.Context, ownerID, subID uuid.UUID) error {
	sub, err := s.store.GetByID(ctx, subID)
	if err != nil {
		return err
	}
	if sub.OwnerID != ownerID {
		return ErrNotOwner
	}
	return s.store.Delete(ctx, subID)
}

// ListByOwner returns all subscriptions created by one account.
func (s *Service) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Subscription, error) {
	return s.store.ListByOwner(ctx, ownerID)
}

// Dispatch fans out an account event to all matching subscriptions.
// Satisfies the users.Notifier interface. Deliveries run in the
// background and outlive the triggering request.
func (s *Service) Dispatch(ctx context.Context, eventType string, payload map[string]string) {
	subs, err := s.store.ListByEvent(ctx, eventType)
	if err != nil {
		s.logger.Error("webhook: list subscribers", zap.Error(err))
		return
	}

	event := Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}

	detached := context.WithoutCancel(ctx)
	for _, sub := range subs {
		go s.deliver(detached, sub, event)
	}
}

// deliver sends the event to a single subscription with retries.
func (s *Service) deliver(ctx context.Context, sub *Subscription, event Event) {
	body, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("webhook: marshal event", zap.Error(err))
		return
	}

	signature := signPayload(body, sub.Secret)

	for attempt := 1; attempt <= len(s.delays); attempt++ {
		if d := s.delays[attempt-1]; d > 0 {
			time.Sleep(d)
		}

		success, statusCode, errMsg := s.doDelivery(ctx, sub.URL, body, signature)

		delivery := &Delivery{
			SubscriptionID: sub.ID,
			EventType:      event.Type,
			StatusCode:     statusCode,
			Attempt:        attempt,
			Success:        success,
			ErrorMessage:   errMsg,
		}
		if recordErr := s.store.RecordDelivery(ctx, delivery, body); recordErr != nil {
			s.logger.Warn("webhook: record delivery", zap.Error(recordErr))
		}

		if s.onMetrics != nil {
			s.onMetrics(success)
		}

		if success {
			return
		}

		s.logger.Warn("webhook: delivery failed",
			zap.String("url", sub.URL),
			zap.Int("attempt", attempt),
			zap.String("error", errMsg),
		)
	}
}

// doDelivery performs a single HTTP POST delivery.
func (s *Service) doDelivery(ctx context.Context, url string, body []byte, signature string) (bool, int, string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return false, 0, err.Error()
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Roster-Signature", signature)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false, 0, err.Error()
	}
	defer resp.Body.Close()
	io.ReadAll(io.LimitReader(resp.Body, 1024)) //nolint:errcheck

	success := resp.StatusCode >= 200 && resp.StatusCode < 300
	errMsg := ""
	if !success {
		errMsg = fmt.Sprintf("HTTP %d", resp.StatusCode)
	}
	return success, resp.StatusCode, errMsg
}

// signPayload computes an HMAC-SHA256 signature over the request body.
func signPayload(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// generateSecret creates a random 32-byte hex-encoded secret.
func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
