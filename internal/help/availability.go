package help

// CommandRule defines availability criteria for a command.
type CommandRule struct {
	// Available returns true if the command can be run in the given context.
	Available func(*Context) bool
	// Reason explains why the command is unavailable (shown in help).
	Reason string
}

// commandRules maps command names to their availability rules.
var commandRules = map[string]CommandRule{
	// Read-only commands work for any user
	"check":      {Available: always, Reason: ""},
	"doctor":     {Available: always, Reason: ""},
	"history":    {Available: always, Reason: ""},
	"backups":    {Available: always, Reason: ""},
	"config":     {Available: always, Reason: ""},
	"version":    {Available: always, Reason: ""},
	"selfupdate": {Available: always, Reason: ""},
	"completion": {Available: always, Reason: ""},
	"help":       {Available: always, Reason: ""},

	// Mutating commands need root, and something to act on
	"install":   {Available: needsRoot, Reason: "needs root"},
	"uninstall": {Available: needsInstall, Reason: "needs root and an existing install"},
	"restore":   {Available: needsBackups, Reason: "needs root and a backup"},
}

// Availability check functions

func always(_ *Context) bool {
	return true
}

func needsRoot(ctx *Context) bool {
	return ctx.Elevated
}

func needsInstall(ctx *Context) bool {
	return ctx.Elevated && ctx.Installed
}

func needsBackups(ctx *Context) bool {
	return ctx.Elevated && ctx.HasBackups
}

// IsAvailable checks if a command is available in the given context.
func IsAvailable(cmdName string, ctx *Context) bool {
	rule, ok := commandRules[cmdName]
	if !ok {
		// Unknown commands are always available
		return true
	}

	return rule.Available(ctx)
}

// GetReason returns the reason why a command is unavailable.
func GetReason(cmdName string) string {
	rule, ok := commandRules[cmdName]
	if !ok {
		return ""
	}

	return rule.Reason
}
