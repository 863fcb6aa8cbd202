package root

import (
	admincmd "github.com/swami-pg/backend/apps/cli/cmd/admin"
	tenantcmd "github.com/swami-pg/backend/apps/cli/cmd/tenant"
)

func init() {
	Root().AddCommand(admincmd.Command())
	Root().AddCommand(tenantcmd.Command())
}
