package mailer

// InvitationJob is the JSON payload put on the RabbitMQ queue when a user
// is invited to an event. The worker resolves it into an email.
type InvitationJob struct {
	To         string `json:"to"`
	EventID    string `json:"event_id"`
	EventTitle string `json:"event_title,omitempty"`
	FromUserID string `json:"from_user_id"`
	FromName   string `json:"from_name,omitempty"`
}
