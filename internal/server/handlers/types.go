package handlers

// WeatherRequest represents the weather API request with comprehensive
// validation. The coordinates are pointers so that lat=0 / lon=0 (equator,
// prime meridian) pass the required check.
type WeatherRequest struct {
	Lat *float64 `form:"lat" json:"lat" validate:"required,latitude" binding:"required"`
	Lon *float64 `form:"lon" json:"lon" validate:"required,longitude" binding:"required"`
}

// AnalyzeRequest carries a base64 plant image for disease detection
type AnalyzeRequest struct {
	Image    string `json:"image" binding:"required"`
	MimeType string `json:"mime_type"`
}

// AskRequest is a chat question plus optional farm context
type AskRequest struct {
	Question string          `json:"question" binding:"required"`
	Context  *ContextPayload `json:"context,omitempty"`
}

// ContextPayload mirrors assistant.FarmContext on the wire
type ContextPayload struct {
	CropType string `json:"crop_type,omitempty"`
	Region   string `json:"region,omitempty"`
	Season   string `json:"season,omitempty"`
	SoilType string `json:"soil_type,omitempty"`
}

// TopicsRequest narrows the suggested conversation starters
type TopicsRequest struct {
	CropType string `form:"crop_type" json:"crop_type"`
	HasIssue bool   `form:"has_issue" json:"has_issue"`
}

// TipsRequest asks for seasonal growing tips
type TipsRequest struct {
	CropType string `json:"crop_type" binding:"required"`
	Season   string `json:"season" binding:"required"`
}

// PestAdviceRequest asks for pest-management advice
type PestAdviceRequest struct {
	PestName string `json:"pest_name" binding:"required"`
	CropType string `json:"crop_type" binding:"required"`
}

// IrrigationRequest asks for irrigation guidance
type IrrigationRequest struct {
	CropType string `json:"crop_type" binding:"required"`
	SoilType string `json:"soil_type" binding:"required"`
	Season   string `json:"season" binding:"required"`
}

// TopicsResponse wraps the topic list
type TopicsResponse struct {
	Topics []string `json:"topics"`
}

// TipsResponse wraps the seasonal tip list
type TipsResponse struct {
	Tips []string `json:"tips"`
}

// AdviceResponse wraps a free-text advice reply
type AdviceResponse struct {
	Advice string `json:"advice"`
}

// ErrorResponse represents an error response with validation
type ErrorResponse struct {
	Error   string `json:"error" validate:"required,min=1,max=500"`
	Code    string `json:"code,omitempty" validate:"omitempty,min=1,max=50"`
	Details string `json:"details,omitempty" validate:"omitempty,max=1000"`
}

// HealthResponse represents health check response with validation
type HealthResponse struct {
	Status    string `json:"status" validate:"required,oneof=ok degraded unavailable"`
	Uptime    string `json:"uptime" validate:"required"`
	Timestamp string `json:"timestamp,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}
