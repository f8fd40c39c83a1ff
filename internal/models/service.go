package models

// Service is one of the offerings a visitor can enquire about
type Service string

const (
	ServiceWebsite          Service = "Website"
	ServiceMobileApp        Service = "MobileApp"
	ServiceSoftware         Service = "Software"
	ServiceDigitalMarketing Service = "DigitalMarketing"
	ServiceOthers           Service = "Others"
)

var serviceLabels = map[Service]string{
	ServiceWebsite:          "Website Development",
	ServiceMobileApp:        "Mobile App Development",
	ServiceSoftware:         "Software Development",
	ServiceDigitalMarketing: "Digital Marketing",
	ServiceOthers:           "Others",
}

// Services lists every service in display order
func Services() []Service {
	return []Service{
		ServiceWebsite,
		ServiceMobileApp,
		ServiceSoftware,
		ServiceDigitalMarketing,
		ServiceOthers,
	}
}

// Valid reports whether s is a known service code
func (s Service) Valid() bool {
	_, ok := serviceLabels[s]
	return ok
}

// Label returns the display label, or the raw code for unknown services
func (s Service) Label() string {
	if label, ok := serviceLabels[s]; ok {
		return label
	}
	return string(s)
}
