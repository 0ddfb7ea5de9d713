package common

import "github.com/bwmarrin/discordgo"

// Options indexes the top-level options of a slash command by name
type Options map[string]*discordgo.ApplicationCommandInteractionDataOption

// CommandOptions collects the options of the invoked command
func CommandOptions(i *discordgo.InteractionCreate) Options {
	data := i.ApplicationCommandData()
	opts := make(Options, len(data.Options))
	for _, opt := range data.Options {
		opts[opt.Name] = opt
	}
	return opts
}

// Subcommand returns the invoked subcommand name and its options
func Subcommand(i *discordgo.InteractionCreate) (string, Options) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 || data.Options[0].Type != discordgo.ApplicationCommandOptionSubCommand {
		return "", Options{}
	}
	sub := data.Options[0]
	opts := make(Options, len(sub.Options))
	for _, opt := range sub.Options {
		opts[opt.Name] = opt
	}
	return sub.Name, opts
}

func (o Options) String(name, fallback string) string {
	if opt, ok := o[name]; ok {
		return opt.StringValue()
	}
	return fallback
}

func (o Options) Int(name string, fallback int64) int64 {
	if opt, ok := o[name]; ok {
		return opt.IntValue()
	}
	return fallback
}

func (o Options) Bool(name string, fallback bool) bool {
	if opt, ok := o[name]; ok {
		return opt.BoolValue()
	}
	return fallback
}

// User resolves a user option, or nil when it was not supplied
func (o Options) User(s *discordgo.Session, name string) *discordgo.User {
	if opt, ok := o[name]; ok {
		return opt.UserValue(s)
	}
	return nil
}

// Role resolves a role option, or nil when it was not supplied
func (o Options) Role(s *discordgo.Session, guildID, name string) *discordgo.Role {
	if opt, ok := o[name]; ok {
		return opt.RoleValue(s, guildID)
	}
	return nil
}

// Channel resolves a channel option, or nil when it was not supplied
func (o Options) Channel(s *discordgo.Session, name string) *discordgo.Channel {
	if opt, ok := o[name]; ok {
		return opt.ChannelValue(s)
	}
	return nil
}

// UserOrSelf returns the user option, falling back to the invoker
func (o Options) UserOrSelf(s *discordgo.Session, i *discordgo.InteractionCreate, name string) *discordgo.User {
	if user := o.User(s, name); user != nil {
		return user
	}
	return InteractionUser(i)
}

// Ptr returns a pointer to v, used for optional command fields
func Ptr[T any](v T) *T {
	return &v
}
