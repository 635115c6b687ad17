package commands

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

// errNoTerminal — пароль не передан, а спросить его негде.
var errNoTerminal = errors.New("password required: stdin is not a terminal")

// подмена для тестов
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// promptPassword спрашивает пароль без эха.
func promptPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		return "", errNoTerminal
	}
	fmt.Fprint(Out, prompt)
	b, err := readPassword(fd)
	fmt.Fprintln(Out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
