package cli

import (
	"context"
	"fmt"

	"shelftrack/internal/client/services"
)

func (a *App) Register(ctx context.Context) error {
	first, err := GetRequiredText(a.reader, "First name", a.out)
	if err != nil {
		return err
	}
	last, err := GetRequiredText(a.reader, "Last name", a.out)
	if err != nil {
		return err
	}
	email, err := GetRequiredText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	sess, err := a.auth.Register(ctx, services.RegisterInput{
		Email:     email,
		Password:  string(password),
		FirstName: first,
		LastName:  last,
	})
	if err != nil {
		fmt.Fprintln(a.out, describeError(err))
		return err
	}

	a.sess = sess
	fmt.Fprintln(a.out, "Account created. You are signed in.")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := GetRequiredText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	sess, err := a.auth.Login(ctx, email, string(password))
	if err != nil {
		fmt.Fprintln(a.out, describeError(err))
		return err
	}

	a.sess = sess
	fmt.Fprintf(a.out, "Signed in as %s.\n", email)
	return nil
}

// Logout asks for confirmation first; it is destructive for the local
// session state.
func (a *App) Logout(ctx context.Context) error {
	ok, err := GetConfirmation(a.reader, "Sign out?", a.out)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	err = a.auth.Logout(ctx)
	// Local session ends regardless of the remote outcome.
	a.sess = nil
	if err != nil {
		fmt.Fprintln(a.out, describeError(err))
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}
