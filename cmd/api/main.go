package main

import (
	"go.uber.org/fx"

	"github.com/clipdesk/clipdesk/internal/app"
)

func main() {
	fx.New(app.Module).Run()
}
