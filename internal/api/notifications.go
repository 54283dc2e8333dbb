package api

import (
	"context"
	"net/http"

	"github.com/mamadbah2/farmdesk/internal/domain/models"
)

// NotificationsService wraps the notification feed endpoints. The push
// stream itself lives in the notify package; this service covers the polled
// side and read receipts.
type NotificationsService struct {
	client *Client
}

// NewNotificationsService builds the notifications endpoint wrapper.
func NewNotificationsService(client *Client) *NotificationsService {
	return &NotificationsService{client: client}
}

// List fetches the current notification feed, newest first.
func (s *NotificationsService) List(ctx context.Context) ([]models.Notification, error) {
	raw, err := s.client.call(ctx, http.MethodGet, "/notifications", nil, nil)
	if err != nil {
		return nil, err
	}
	return decode[[]models.Notification](raw)
}

// MarkRead flags one notification as read.
func (s *NotificationsService) MarkRead(ctx context.Context, id string) error {
	_, err := s.client.call(ctx, http.MethodPut, "/notifications/"+id+"/read", nil, nil)
	return err
}

// StreamURL returns the absolute push stream URL for the given user.
func (s *NotificationsService) StreamURL(userID string) string {
	return s.client.StreamURL("/notifications/stream/" + userID)
}
