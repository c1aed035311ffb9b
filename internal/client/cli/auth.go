package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/urchin/internal/common"
)

// getSimpleText and getPassword are swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and signs in against the current server.
// The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.authService.SignIn(ctx, userName, password)
	if err != nil {
		a.log.Warn(ctx, "login unsuccessful", "error", err)
		return err
	}

	a.log.Info(ctx, "login successful", "user_id", u.UserID)
	fmt.Fprintf(a.out, "Signed in as %s (%s)\n", u.Username, u.UserID)
	return nil
}

// WhoAmI prints the server, user and token claims of the current session.
func (a *App) WhoAmI(ctx context.Context) error {
	info, err := a.authService.SessionInfo(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Server:  %s (%s)\n", info.Server, info.BaseURL)
	if info.Token == "" {
		fmt.Fprintln(a.out, "Not signed in")
		return nil
	}
	if info.User != nil {
		fmt.Fprintf(a.out, "User:    %s (%s)\n", info.User.Username, info.User.UserID)
	} else {
		fmt.Fprintln(a.out, "User:    unknown")
	}
	if c := info.Claims; c != nil {
		if c.Subject != "" {
			fmt.Fprintf(a.out, "Subject: %s\n", c.Subject)
		}
		if !c.ExpiresAt.IsZero() {
			state := "valid"
			if c.Expired(time.Now()) {
				state = "expired"
			}
			fmt.Fprintf(a.out, "Expires: %s (%s)\n", c.ExpiresAt.Local().Format(time.RFC1123), state)
		}
	}
	return nil
}

// SetServer switches the endpoint for later requests. The session is kept;
// a token of another server will be rejected there.
func (a *App) SetServer(ctx context.Context, name string) error {
	if err := a.authService.SetServer(name); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Server set to %s\n", name)
	return nil
}
