package service

import "context"

type WelcomeMail struct {
	Name  string
	Email string
}

type Mailer interface {
	SendWelcome(ctx context.Context, mail WelcomeMail) error
}
