package requests

type Receipt struct {
	TransmissionID string `json:"transmission_id" validate:"required,uuid4"`
	Outcome        string `json:"outcome" validate:"required,oneof=positive warning negative"`
	Code           string `json:"code"`
	Message        string `json:"message"`
}
