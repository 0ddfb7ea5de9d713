package roles

import (
	"github.com/bwmarrin/discordgo"
)

// Feature manages role assignment for members
type Feature struct{}

// New creates a new roles feature instance
func New() *Feature {
	return &Feature{}
}

// Commands returns the slash commands served by this feature
func (f *Feature) Commands() []*discordgo.ApplicationCommand {
	manageRoles := int64(discordgo.PermissionManageRoles)
	roleOption := &discordgo.ApplicationCommandOption{
		Type: discordgo.ApplicationCommandOptionRole, Name: "role", Description: "Role", Required: true,
	}
	userOption := &discordgo.ApplicationCommandOption{
		Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Member", Required: true,
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:                     "role-add",
			Description:              "Add a role to a member",
			DefaultMemberPermissions: &manageRoles,
			Options:                  []*discordgo.ApplicationCommandOption{userOption, roleOption},
		},
		{
			Name:                     "role-remove",
			Description:              "Remove a role from a member",
			DefaultMemberPermissions: &manageRoles,
			Options:                  []*discordgo.ApplicationCommandOption{userOption, roleOption},
		},
		{
			Name:                     "role-all",
			Description:              "Add or remove a role for every human member",
			DefaultMemberPermissions: &manageRoles,
			Options: []*discordgo.ApplicationCommandOption{
				roleOption,
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "action",
					Description: "Add or remove",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Add", Value: actionAdd},
						{Name: "Remove", Value: actionRemove},
					},
				},
			},
		},
		{
			Name:        "role-info",
			Description: "Get information about a role",
			Options:     []*discordgo.ApplicationCommandOption{roleOption},
		},
		{Name: "role-list", Description: "List all roles in the server"},
	}
}

// HandleCommand routes role commands to their handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "role-add":
		f.handleRoleChange(s, i, true)
	case "role-remove":
		f.handleRoleChange(s, i, false)
	case "role-all":
		f.handleRoleAll(s, i)
	case "role-info":
		f.handleRoleInfo(s, i)
	case "role-list":
		f.handleRoleList(s, i)
	}
}
