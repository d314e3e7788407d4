package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"starter_api/internal/app/service"
	"strings"

	"golang.org/x/term"
)

func (a *App) createUser(ctx context.Context, args []string) error {
	fs := a.flagSet("create-user")
	superuser := fs.Bool("superuser", false, "grant superuser rights")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: create-user [-superuser] NAME [PASSWORD]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 || fs.NArg() > 2 {
		fs.Usage()
		return errors.New("create-user: expected NAME and optional PASSWORD")
	}

	name := fs.Arg(0)
	password := fs.Arg(1)
	if password == "" {
		var err error
		if password, err = a.readPassword(); err != nil {
			return fmt.Errorf("create-user: %w", err)
		}
	}

	store, closeStore, err := a.openStore(ctx, true)
	if err != nil {
		return err
	}
	defer closeStore()

	_, err = service.NewUserService(store, nil, a.logger()).Create(ctx, service.CreateUserRequest{
		Username:  name,
		Password:  password,
		Superuser: *superuser,
	})
	if err != nil {
		return fmt.Errorf("create-user: %w", err)
	}
	fmt.Fprintf(a.out, "created %s user\n", name)
	return nil
}

// promptPassword reads a password without echo when stdin is a terminal and
// a plain line otherwise.
func promptPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(pw), nil
}
