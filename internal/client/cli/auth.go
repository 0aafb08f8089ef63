package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fittrack/internal/client/api"
	"github.com/dmitrijs2005/fittrack/internal/client/models"
	"github.com/dmitrijs2005/fittrack/internal/common"
)

// Register prompts for the account details and creates the account. On
// success the session is signed in with the returned token.
func (a *App) Register(ctx context.Context) error {
	name, err := a.promptRequired("Enter name")
	if err != nil {
		return err
	}
	email, err := a.promptRequired("Enter email")
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	req := models.RegisterRequest{Name: name, Email: email, Password: string(password)}

	if req.Age, err = a.promptOptionalInt("Enter age (optional)"); err != nil {
		return err
	}
	if req.Weight, err = a.promptFloat("Enter weight in kg (optional)", false); err != nil {
		return err
	}
	if req.Height, err = a.promptFloat("Enter height in cm (optional)", false); err != nil {
		return err
	}
	goal, err := a.prompt("Enter fitness goal (optional)")
	if err != nil {
		return err
	}
	req.Goal = optionalString(goal)

	user, err := a.auth.Register(ctx, req)
	if err != nil {
		return credentialError(err)
	}

	fmt.Fprintf(a.out, "Account created. Signed in as %s\n", user.Name)
	return nil
}

// Login prompts for email and password and signs the session in.
//
// The password is wiped before returning. A 401 is reported as invalid
// credentials; other API errors are returned unchanged. A failed login leaves
// the session signed out.
func (a *App) Login(ctx context.Context) error {
	email, err := a.promptRequired("Enter email")
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.auth.Login(ctx, email, string(password))
	if err != nil {
		a.log.Info(ctx, "login unsuccessful", "error", err)
		return credentialError(err)
	}

	a.log.Info(ctx, "login successful", "user", string(user.ID))
	fmt.Fprintf(a.out, "Signed in as %s\n", user.Name)
	return nil
}

// Logout signs out. Local cleanup failures are reported by the session
// manager and never keep the user signed in.
func (a *App) Logout(ctx context.Context) error {
	return a.auth.Logout(ctx)
}

// Profile refreshes the profile from the server and prints it.
func (a *App) Profile(ctx context.Context) error {
	user, err := a.auth.RefreshProfile(ctx)
	if user != nil {
		printUser(a.out, user)
	}
	return err
}

// EditProfile prompts for each field; empty answers leave the field as is.
func (a *App) EditProfile(ctx context.Context) error {
	var (
		upd models.ProfileUpdate
		err error
	)

	if upd.Name, err = a.prompt("New name (empty to keep)"); err != nil {
		return err
	}
	if upd.Age, err = a.promptOptionalInt("New age (empty to keep)"); err != nil {
		return err
	}
	if upd.Weight, err = a.promptFloat("New weight in kg (empty to keep)", false); err != nil {
		return err
	}
	if upd.Height, err = a.promptFloat("New height in cm (empty to keep)", false); err != nil {
		return err
	}
	goal, err := a.prompt("New fitness goal (empty to keep)")
	if err != nil {
		return err
	}
	upd.Goal = optionalString(goal)

	user, err := a.auth.UpdateProfile(ctx, upd)
	if user != nil {
		fmt.Fprintln(a.out, "Profile updated")
		printUser(a.out, user)
	}
	return err
}

func credentialError(err error) error {
	if errors.Is(err, api.ErrAuthenticationRejected) {
		return fmt.Errorf("%w: %w", errInvalidCredentials, err)
	}
	return err
}

func (a *App) promptOptionalInt(text string) (*int, error) {
	v, err := a.prompt(text)
	if err != nil {
		return nil, err
	}
	return parseOptionalInt(v)
}
