package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/food_storefront/internal/models"
	"github.com/Skotchmaster/food_storefront/internal/pages"
	"github.com/Skotchmaster/food_storefront/internal/session"
)

var errNotLoggedIn = errors.New("not logged in")

// storefront login
func newLoginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, bootOptions{}, func(ctx context.Context, rt *runtime) error {
				return runLogin(ctx, rt, email, password)
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func runLogin(ctx context.Context, rt *runtime, email, password string) error {
	p := rt.app.Login
	out, err := p.Mount(ctx)
	if err != nil {
		return err
	}
	if out.Redirect == pages.RouteProducts {
		fmt.Fprintln(rt.out, "Already logged in.")
		return nil
	}

	p.Set(models.LoginEmail, email)
	p.Set(models.LoginPassword, password)
	out, err = p.Submit(ctx)
	if err == nil {
		fmt.Fprintln(rt.out, "Logged in.")
	}
	return report(rt.out, p.Views(), out, err)
}

// storefront register
func newRegisterCmd() *cobra.Command {
	var d models.RegisterDraft
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, bootOptions{}, func(ctx context.Context, rt *runtime) error {
				return runRegister(ctx, rt, d)
			})
		},
	}
	cmd.Flags().StringVar(&d.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&d.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&d.Email, "email", "", "email")
	cmd.Flags().StringVar(&d.Password, "password", "", "password, at least 6 characters")
	cmd.Flags().StringVar(&d.BirthDate, "birth-date", "", "birth date as YYYY-MM-DD")
	return cmd
}

func runRegister(ctx context.Context, rt *runtime, d models.RegisterDraft) error {
	p := rt.app.Register
	p.Set(models.RegisterFirstName, d.FirstName)
	p.Set(models.RegisterLastName, d.LastName)
	p.Set(models.RegisterEmail, d.Email)
	p.Set(models.RegisterPassword, d.Password)
	p.Set(models.RegisterBirthDate, d.BirthDate)

	out, err := p.Submit(ctx)
	return report(rt.out, p.Views(), out, err)
}

// storefront logout
func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, bootOptions{}, runLogout)
		},
	}
}

func runLogout(ctx context.Context, rt *runtime) error {
	if _, _, err := rt.app.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(rt.out, "Logged out.")
	return nil
}

// storefront session
func newSessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Show the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, bootOptions{}, runSession)
		},
	}
}

func runSession(ctx context.Context, rt *runtime) error {
	s, err := rt.session.Get(ctx)
	if err != nil {
		return err
	}
	if !s.Present() {
		fmt.Fprintln(rt.out, "No session.")
		return nil
	}

	fmt.Fprintf(rt.out, "Logged in as %s\n", s.User)
	info, err := session.Describe(s.AccessToken, time.Now())
	if err != nil {
		fmt.Fprintln(rt.out, "token: opaque")
		return nil
	}
	fmt.Fprintf(rt.out, "token subject: %s\n", info.Subject)
	if !info.ExpiresAt.IsZero() {
		state := "valid"
		if info.Expired {
			state = "expired"
		}
		fmt.Fprintf(rt.out, "token expires: %s (%s)\n", info.ExpiresAt.UTC().Format(time.RFC3339), state)
	}
	return nil
}
