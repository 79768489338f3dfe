package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[SellMessage]           = (*SellCommand)(nil)
	_ gocmd.Commander[PublishMessage]        = (*PublishCommand)(nil)
	_ gocmd.Commander[EndMessage]            = (*EndCommand)(nil)
	_ gocmd.Commander[DeleteMessage]         = (*DeleteCommand)(nil)
	_ gocmd.Commander[WritePoliciesMessage]  = (*WritePoliciesCommand)(nil)
	_ gocmd.Commander[EnablePoliciesMessage] = (*EnablePoliciesCommand)(nil)
	_ gocmd.Commander[ImportCatalogMessage]  = (*ImportCatalogCommand)(nil)
	_ gocmd.Commander[UploadImagesMessage]   = (*UploadImagesCommand)(nil)
)
