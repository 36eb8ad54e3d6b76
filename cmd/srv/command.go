package main

import "github.com/urfave/cli/v2"

var configFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "Path of the TOML config file, environment variables override its values",
	Value:   "config.toml",
	EnvVars: []string{"CONFIG_PATH"},
}

func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Action = cli.ShowAppHelp
	s.app.Name = "Dashboard"
	s.app.Usage = "Discord bot dashboard backend"
	s.app.Flags = []cli.Flag{configFlag}
	s.app.Commands = []*cli.Command{
		{
			Action:      server.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Flags:       []cli.Flag{configFlag},
			Category:    "Api",
			Description: `Used for start service api, it serves oauth2 login and guild management apis.`,
		},
		{
			Action:      server.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate database",
			Flags:       []cli.Flag{configFlag},
			Category:    "Database",
			Description: `Used to create or update tables of the relational database.`,
		},
		{
			Action:      server.startAuditSubscriber,
			Name:        "audit",
			Usage:       "Start audit subscriber",
			Flags:       []cli.Flag{configFlag},
			Category:    "Worker",
			Description: `Used to consume audit events of guild mutations and write them to the log.`,
		},
	}
}
