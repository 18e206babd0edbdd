package models

// AutomationPayload is the body of every delayed lifecycle job.
type AutomationPayload struct {
	SessionID    string `json:"sessionId"`
	UserFullname string `json:"userFullname"`
}
