package command_templates

import (
	"github.com/paularlott/cli"
)

var TemplateCmd = &cli.Command{
	Name:        "template",
	Usage:       "Manage template dormancy",
	Description: "View and update the dormancy settings of templates.",
	Commands: []*cli.Command{
		SetDormancyCmd,
		GetDormancyCmd,
		ListCmd,
	},
}
