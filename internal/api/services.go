package api

import "github.com/mamadbah2/farmdesk/internal/domain/models"

// Services bundles every endpoint wrapper over one shared Client.
type Services struct {
	Auth          *AuthService
	Supplies      *ResourceService[models.Supply]
	Sales         *ResourceService[models.Sale]
	Ponds         *ResourceService[models.FishPond]
	Hatches       *ResourceService[models.FishHatch]
	Livestock     *ResourceService[models.LivestockBatch]
	Notifications *NotificationsService
	Reports       *ReportsService
}

// NewServices wires all resource services onto the given client.
func NewServices(client *Client) *Services {
	return &Services{
		Auth:          NewAuthService(client),
		Supplies:      NewResourceService[models.Supply](client, "/supplies"),
		Sales:         NewResourceService[models.Sale](client, "/sales"),
		Ponds:         NewResourceService[models.FishPond](client, "/fish-ponds"),
		Hatches:       NewResourceService[models.FishHatch](client, "/fish-hatches"),
		Livestock:     NewResourceService[models.LivestockBatch](client, "/livestock"),
		Notifications: NewNotificationsService(client),
		Reports:       NewReportsService(client),
	}
}
