package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:           "reportmailer",
		Usage:          "Send report files by email on a recurring schedule",
		DefaultCommand: "run",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "report configuration file (overrides REPORT_CONFIG_FILE)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "validate the configuration, then send the report on schedule until stopped",
				Action: runAction,
			},
			{
				Name:   "check",
				Usage:  "validate the configuration and test the sender login",
				Action: checkAction,
			},
			{
				Name:   "send",
				Usage:  "send the report once, now",
				Action: sendAction,
			},
			{
				Name:  "set-password",
				Usage: "store the sender password in the OS keyring",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "username",
						Aliases: []string{"u"},
						Usage:   "sender address (defaults to EMAIL_USERNAME)",
					},
				},
				Action: setPasswordAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
