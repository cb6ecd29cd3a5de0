package entity

// IPAPIResponse is the subset of the ipapi.co /<ip>/json/ reply used for login tracking.
type IPAPIResponse struct {
	IP          string `json:"ip"`
	City        string `json:"city"`
	Region      string `json:"region"`
	CountryName string `json:"country_name"`
	CountryCode string `json:"country_code"`
	Error       bool   `json:"error"`
	Reason      string `json:"reason"`
}
