package main

import (
	"context"
	"time"

	"github.com/migorithm/authotp/internal/app"
)

const shutdownTimeout = 10 * time.Second

// @title           authotp API
// @version         1.0
// @description     authotp registers accounts and manages their TOTP second factor.
// @license.name    MIT
// @license.url     https://mit-license.org/
// @server          http://localhost:3000
func main() {
	a := app.New()
	<-a.Start()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.Stop(ctx)
}
