package models

// ThemeColors holds the site palette as CSS colour strings.
type ThemeColors struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Text       string `json:"text"`
}

type VenueInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	MapsURL string `json:"mapsUrl"`
}

type WeddingDetails struct {
	GroomName   string `json:"groomName"`
	BrideName   string `json:"brideName"`
	WeddingDate string `json:"weddingDate"`
	Story       string `json:"story"`
}
