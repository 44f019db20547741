package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/customeros/reportmailer/config"
	mailerrors "github.com/customeros/reportmailer/internal/errors"
	"github.com/customeros/reportmailer/internal/utils"
	"github.com/customeros/reportmailer/server"
	"github.com/customeros/reportmailer/services/secrets"
)

func runAction(c *cli.Context) error {
	return withServer(c, func(ctx context.Context, s *server.Server) error {
		color.Blue("Report mailer started with %s", s.ConfigFile())
		return s.Run(ctx)
	})
}

func checkAction(c *cli.Context) error {
	return withServer(c, func(ctx context.Context, s *server.Server) error {
		params, err := s.Check(ctx)
		if err != nil {
			return err
		}
		color.Green("Configuration %s is valid", s.ConfigFile())
		fmt.Printf("  sender:     %s via %s\n", params.Sender.Username, params.Server.Address())
		fmt.Printf("  recipients: %s\n", utils.SliceToString(params.Recipients))
		fmt.Printf("  reports:    %s\n", utils.SliceToString(params.ReportPaths))
		fmt.Printf("  first run:  %s\n", utils.FormatScheduleTime(params.ScheduleAt))
		return nil
	})
}

func sendAction(c *cli.Context) error {
	return withServer(c, func(ctx context.Context, s *server.Server) error {
		outcomes, err := s.SendNow(ctx)
		if err != nil {
			return err
		}
		for _, outcome := range outcomes {
			if outcome.Succeeded() {
				color.Green("  sent    %s", outcome.Recipient)
			} else {
				color.Red("  failed  %s: %v", outcome.Recipient, outcome.Err)
			}
		}
		return nil
	})
}

func setPasswordAction(c *cli.Context) error {
	cfg, err := config.InitConfig()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	username := c.String("username")
	if username == "" {
		username = cfg.Sender.Username
	}
	if username == "" {
		return cli.Exit("username cannot be empty, pass --username or set EMAIL_USERNAME", 1)
	}

	password, err := readPassword()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if password == "" {
		return cli.Exit("password cannot be empty", 1)
	}

	if err = secrets.SavePassword(cfg.Sender.KeyringService, username, password); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	color.Green("Password for %s stored in keyring service %s", username, cfg.Sender.KeyringService)
	return nil
}

// withServer builds the server from the environment and turns failures into
// the short notice shown to the user. Details stay in the log file.
func withServer(c *cli.Context, fn func(ctx context.Context, s *server.Server) error) error {
	cfg, err := config.InitConfig()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if c.IsSet("config") {
		cfg.AppConfig.ReportConfigFile = c.String("config")
	}

	s, err := server.NewServer(cfg)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer s.Close()

	if err = fn(c.Context, s); err != nil {
		return cli.Exit(color.RedString(userNotice(err, s.ConfigFile(), s.LogFile())), 1)
	}
	return nil
}

func userNotice(err error, configFile, logFile string) string {
	switch {
	case errors.Is(err, mailerrors.ErrAuthenticationFailure):
		return fmt.Sprintf("Authentication issues detected in %s. See %s for details.", configFile, logFile)
	case mailerrors.IsConfigurationError(err):
		return fmt.Sprintf("Configuration issues detected in %s. See %s for details.", configFile, logFile)
	default:
		return fmt.Sprintf("Report mailer stopped: %v. See %s for details.", err, logFile)
	}
}

func readPassword() (string, error) {
	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		// not a terminal
		password, readErr := readLine(os.Stdin)
		if readErr != nil {
			return "", errors.Wrap(readErr, "failed to read password")
		}
		passwordBytes = []byte(password)
	}
	fmt.Println()
	return string(passwordBytes), nil
}

// readLine returns the first line of r. A final line without a newline is
// accepted.
func readLine(r io.Reader) (string, error) {
	input, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		return "", err
	}
	return strings.TrimRight(input, "\r\n"), nil
}
