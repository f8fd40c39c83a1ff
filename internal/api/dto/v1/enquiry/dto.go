package enquiry

import "github.com/relentron/website/internal/models"

// ServiceOption is one entry of the service dropdown
type ServiceOption struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// ConfigResponse tells a form client how to mount the captcha widget
type ConfigResponse struct {
	SiteKey  string          `json:"siteKey"`
	Services []ServiceOption `json:"services"`
}

// NewConfigResponse lists every service in display order
func NewConfigResponse(siteKey string) ConfigResponse {
	services := models.Services()
	options := make([]ServiceOption, 0, len(services))
	for _, s := range services {
		options = append(options, ServiceOption{Code: string(s), Label: s.Label()})
	}
	return ConfigResponse{SiteKey: siteKey, Services: options}
}
