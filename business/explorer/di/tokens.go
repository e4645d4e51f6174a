// Package di contains dependency injection tokens for the explorer context.
package di

import (
	"github.com/fd1az/cosvm-explorer/business/explorer/app"
	"github.com/fd1az/cosvm-explorer/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Dashboard = di.NewToken[*app.Dashboard]("explorer.Dashboard")
)

func GetDashboard(c di.ServiceRegistry) *app.Dashboard {
	return di.GetToken(c, Dashboard)
}
