package mail

type ConfirmationEmailData struct {
	Name      string
	Plan      string
	Amount    string
	Currency  string
	OrderID   string
	PaymentID string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}
