package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
)

func requireValue(name string) func(string) error {
	return func(s string) error {
		if s == "" {
			return errors.New(name + " is required")
		}
		return nil
	}
}

// promptPassword asks for the password of an already configured user.
func promptPassword(server, user string) (string, error) {
	var password string
	err := huh.NewInput().
		Title(fmt.Sprintf("Password for %s", user)).
		Description(server).
		EchoMode(huh.EchoModePassword).
		Value(&password).
		Validate(requireValue("password")).
		Run()
	if err != nil {
		return "", err
	}
	return password, nil
}

// promptLogin collects a user name (pre-filled with *user) and a password.
func promptLogin(server string, user, password *string) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("User").
				Description(fmt.Sprintf("Account on %s, e.g. DOMAIN\\name", server)).
				Value(user).
				Validate(requireValue("user")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(password).
				Validate(requireValue("password")),
		),
	)
	return form.Run()
}
