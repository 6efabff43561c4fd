package mailer

// ActivationEmailJob is the JSON payload put on the RabbitMQ queue when an
// account is created. The worker resolves the account itself, so the job
// carries only the username and the locale of the signup request.
type ActivationEmailJob struct {
	Username string `json:"username"`
	Locale   string `json:"locale,omitempty"`
}
