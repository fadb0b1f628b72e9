package cli

var registry = map[string]Command{}

// RegisterCommand makes cmd reachable from GetCommand under its Name.
func RegisterCommand(cmd Command) {
	registry[cmd.Name()] = cmd
}

// GetCommand looks up a registered command by name.
func GetCommand(name string) (Command, bool) {
	cmd, ok := registry[name]
	return cmd, ok
}

// AllCommands returns every registered command, for building help text.
func AllCommands() []Command {
	list := make([]Command, 0, len(registry))
	for _, cmd := range registry {
		list = append(list, cmd)
	}
	return list
}
