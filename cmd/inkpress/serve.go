package main

import (
	"github.com/inkpress/inkpress"
	"github.com/inkpress/inkpress/theme"
)

// runServe starts the engine with the built-in theme. Projects that want
// their own templates embed the library instead (see 'inkpress new').
func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.AdminPassword = inkpress.MustEnv("ADMIN_PASSWORD")
	cfg.SessionSecret = inkpress.MustEnv("ADMIN_SESSION_SECRET")

	app := inkpress.New(cfg, theme.Views(cfg))
	defer app.Close()
	return app.Start()
}
