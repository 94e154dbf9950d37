package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/authkeeper/internal/common"
)

// App drives the CLI commands. Commands are one-shot: tokens are printed so
// the caller can store them and pass them back via flags or the environment.
type App struct {
	api    *APIClient
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(serverURL string) *App {
	return &App{
		api:    NewAPIClient(serverURL),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

// usage lines printed on unknown or missing commands.
const usage = `usage: client [-a server-url] <command>

commands:
  register            create a new account (interactive)
  login               obtain an access/refresh token pair (interactive)
  me <access-token>   show the identity behind an access token
  refresh <token>     exchange a refresh token for a new pair
`

// Run dispatches the given command-line arguments to a command.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return errors.New("no command given")
	}

	switch args[0] {
	case "register":
		return a.register(ctx)
	case "login":
		return a.login(ctx)
	case "me":
		if len(args) < 2 {
			return errors.New("me: access token required")
		}
		return a.me(ctx, args[1])
	case "refresh":
		if len(args) < 2 {
			return errors.New("refresh: refresh token required")
		}
		return a.refresh(ctx, args[1])
	default:
		fmt.Fprint(a.out, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (a *App) register(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	contact, err := GetSimpleText(a.reader, "Enter contact (email or phone)", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res, err := a.api.Register(ctx, name, contact, string(password))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered: id=%s name=%s contact=%s\n", res.UserID, res.UserName, res.Contact)
	return nil
}

func (a *App) login(ctx context.Context) error {
	contact, err := GetSimpleText(a.reader, "Enter contact (email or phone)", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res, err := a.api.Login(ctx, contact, string(password))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s (%s)\n", res.User.Name, res.User.Contact)
	fmt.Fprintf(a.out, "access token:  %s\n", res.AccessToken)
	fmt.Fprintf(a.out, "refresh token: %s\n", res.RefreshToken)
	return nil
}

func (a *App) me(ctx context.Context, accessToken string) error {
	id, err := a.api.Me(ctx, accessToken)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "id=%s name=%s contact=%s\n", id.ID, id.Name, id.Contact)
	return nil
}

func (a *App) refresh(ctx context.Context, refreshToken string) error {
	res, err := a.api.Refresh(ctx, refreshToken)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "access token:  %s\n", res.AccessToken)
	fmt.Fprintf(a.out, "refresh token: %s\n", res.RefreshToken)
	return nil
}
