// Package mailer delivers verification codes. Real transmission is an
// external concern; the log mailer stands in for it during development.
package mailer

import "log"

// Log writes codes to the server log instead of sending mail.
type Log struct{}

func NewLog() *Log {
	return &Log{}
}

func (Log) SendCode(email, code string) error {
	log.Printf("📧 OTP for %s: %s", email, code)
	return nil
}
