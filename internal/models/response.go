package models

// RequestEcho is the normalized request block echoed in every successful
// response. Instants are re-encoded to RFC3339 and the dataset field always
// carries the resolved dataset's hour-truncated timestamp, never "latest".
type RequestEcho struct {
	Version         int     `json:"version"`
	LaunchLatitude  float64 `json:"launch_latitude"`
	LaunchLongitude float64 `json:"launch_longitude"`
	LaunchDatetime  string  `json:"launch_datetime"`
	LaunchAltitude  float64 `json:"launch_altitude"`
	Format          string  `json:"format"`
	Profile         string  `json:"profile"`
	AscentRate      float64 `json:"ascent_rate,omitempty"`
	BurstAltitude   float64 `json:"burst_altitude,omitempty"`
	DescentRate     float64 `json:"descent_rate,omitempty"`
	FloatAltitude   float64 `json:"float_altitude,omitempty"`
	StopDatetime    string  `json:"stop_datetime,omitempty"`
	Dataset         string  `json:"dataset"`
}

// PathPoint is one trajectory sample in wire form.
type PathPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"`
	Datetime  string  `json:"datetime"`
}

// StagePrediction is one labeled motion stage of the predicted flight.
type StagePrediction struct {
	Stage      string      `json:"stage"`
	Trajectory []PathPoint `json:"trajectory"`
}

// Metadata carries request timing, included in success and error responses.
type Metadata struct {
	StartDatetime    string `json:"start_datetime"`
	CompleteDatetime string `json:"complete_datetime"`
}

// PredictionResponse is the full result returned for /api/v1/.
type PredictionResponse struct {
	Request        RequestEcho       `json:"request"`
	Prediction     []StagePrediction `json:"prediction"`
	LaunchEstimate *PathPoint        `json:"launch_estimate,omitempty"`
	Warnings       map[string]int    `json:"warnings"`
	Metadata       *Metadata         `json:"metadata,omitempty"`
}

// DatasetCheckEcho is the request block of a dataset check response.
type DatasetCheckEcho struct {
	Version int    `json:"version"`
	Dataset string `json:"dataset"`
}

// DatasetCheckResponse describes the most recent resolvable dataset.
type DatasetCheckResponse struct {
	Request  DatasetCheckEcho `json:"request"`
	Warnings map[string]int   `json:"warnings"`
	Metadata *Metadata        `json:"metadata,omitempty"`
}

// ErrorDetail is the structured error payload of a failure response.
type ErrorDetail struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// ErrorResponse is the body returned for any failed request. It carries the
// same timing metadata as a success response.
type ErrorResponse struct {
	Error    ErrorDetail `json:"error"`
	Metadata *Metadata   `json:"metadata,omitempty"`
}
