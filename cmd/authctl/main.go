package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/samvad-auth-client/internal/app"
	"github.com/samvad-hq/samvad-auth-client/internal/config"
	"github.com/samvad-hq/samvad-auth-client/internal/domain"
	"github.com/samvad-hq/samvad-auth-client/internal/logger"
)

const usage = `usage: authctl [-profile name] <command> [flags]

commands:
  register   -username -email -password   create an account
  login      -username -password          log in and store the token
  logout                                  forget the stored token
  me                                      show the current user
  test                                    call the protected test endpoint
  profile                                 show the extended user profile
  dashboard                               show dashboard stats
  inspect                                 decode the stored token
  watch                                   poll the dashboard until interrupted
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	global := flag.NewFlagSet("authctl", flag.ContinueOnError)
	profile := global.String("profile", "", "token profile to use (overrides PROFILE)")
	global.Usage = func() { fmt.Fprint(global.Output(), usage) }
	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		global.Usage()
		return errors.New("missing command")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *profile != "" {
		cfg.Profile = *profile
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	session, err := app.NewSession(ctx, cfg, log)
	if err != nil {
		log.ErrorObj("failed to initialize session", "error", err.Error())
		return err
	}
	defer session.Close()

	cmd, rest := global.Arg(0), global.Args()[1:]
	result, err := dispatch(ctx, session, cmd, rest)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	return printJSON(stdout, result)
}

func dispatch(ctx context.Context, s *app.Session, cmd string, args []string) (any, error) {
	switch cmd {
	case "register":
		creds, err := parseCredentials(cmd, args, true)
		if err != nil {
			return nil, err
		}
		return s.Register(ctx, creds)
	case "login":
		creds, err := parseCredentials(cmd, args, false)
		if err != nil {
			return nil, err
		}
		tok, err := s.Login(ctx, creds)
		if err != nil {
			return nil, err
		}
		return map[string]string{"status": "logged in", "token_type": tok.TokenType}, nil
	case "logout":
		if err := s.Logout(ctx); err != nil {
			return nil, err
		}
		return map[string]string{"status": "logged out"}, nil
	case "me":
		return s.Me(ctx)
	case "test":
		return s.ProtectedTest(ctx)
	case "profile":
		return s.UserProfile(ctx)
	case "dashboard":
		return s.Dashboard(ctx)
	case "inspect":
		return s.Inspect()
	case "watch":
		return nil, s.Watch(ctx)
	default:
		return nil, fmt.Errorf("unknown command %q", cmd)
	}
}

func parseCredentials(cmd string, args []string, withEmail bool) (domain.Credentials, error) {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	username := fs.String("username", "", "account username")
	password := fs.String("password", "", "account password")
	var email *string
	if withEmail {
		email = fs.String("email", "", "account email")
	}
	if err := fs.Parse(args); err != nil {
		return domain.Credentials{}, err
	}

	creds := domain.Credentials{Username: *username, Password: *password}
	if email != nil {
		creds.Email = *email
	}
	if creds.Username == "" || creds.Password == "" {
		return domain.Credentials{}, fmt.Errorf("%s requires -username and -password", cmd)
	}
	if withEmail && creds.Email == "" {
		return domain.Credentials{}, fmt.Errorf("%s requires -email", cmd)
	}
	return creds, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
