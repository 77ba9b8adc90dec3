// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text, markdown, csv or json",
			Value:   "text",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug logging",
		},
	}
}

// setupCommand handles setup operations for the session database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize the session database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write a config.toml populated with defaults",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// authCommand handles account and session operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "register",
				Usage: "Create an account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Username", Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Password", Required: true},
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Email address", Required: true},
					&cli.StringFlag{Name: "birthday", Aliases: []string{"b"}, Usage: "Birthday as YYYY-MM-DD"},
				},
				Action: r.AuthRegister,
			},
			{
				Name:  "login",
				Usage: "Log in and store the session token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Username", Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Password", Required: true},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Remove the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the logged in user and token expiry",
				Action: r.AuthStatus,
			},
		},
	}
}

// moviesCommand handles catalogue operations
func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "movies",
		Usage: "Browse the movie catalogue",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List one page of movies",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "page",
						Usage: "Page number, starting at 1",
						Value: 1,
					},
					&cli.IntFlag{
						Name:  "size",
						Usage: "Movies per page (defaults to ui.page_size)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.MoviesList,
			},
			{
				Name:  "show",
				Usage: "Show one movie",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "title"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the poster in the default browser",
					},
					&cli.StringFlag{
						Name:  "export",
						Usage: "Write README.md and the poster to this directory",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the rendered output to a file",
					},
				},
				Action: r.MoviesShow,
			},
		},
	}
}

func genresCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "genres",
		Usage: "Genre details",
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Show a genre description",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Action:    r.GenresShow,
			},
		},
	}
}

func directorsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "directors",
		Usage: "Director details",
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Show a director biography",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Action:    r.DirectorsShow,
			},
		},
	}
}

// favoritesCommand handles the logged in user's favorites
func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"favs", "favourites"},
		Usage:   "Manage favorite movies",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List favorite movie IDs",
				Action: r.FavoritesList,
			},
			{
				Name:      "add",
				Usage:     "Add a movie to favorites",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.FavoritesAdd,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove a movie from favorites",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.FavoritesRemove,
			},
		},
	}
}

// profileCommand handles the logged in user's account
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "View and edit your account",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the account",
				Action: r.ProfileShow,
			},
			{
				Name:  "update",
				Usage: "Change account fields; only the given flags are sent",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Usage: "New username"},
					&cli.StringFlag{Name: "email", Usage: "New email address"},
					&cli.StringFlag{Name: "password", Usage: "New password"},
					&cli.StringFlag{Name: "birthday", Usage: "New birthday as YYYY-MM-DD"},
				},
				Action: r.ProfileUpdate,
			},
			{
				Name:  "delete",
				Usage: "Delete the account",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Confirm the deletion",
					},
				},
				Action: r.ProfileDelete,
			},
		},
	}
}

func navigateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "navigate",
		Usage:     "Resolve a screen path through the route guard",
		Arguments: []cli.Argument{&cli.StringArg{Name: "path"}},
		Action:    r.Navigate,
	}
}

// apiCommand handles direct API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the movie service",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct authenticated GET, prints the response body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
					},
				},
				Action: r.APIGet,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive movie browser",
		Action:  r.TUI,
	}
}
