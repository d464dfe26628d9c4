package bot

import (
	"context"
	"sort"
	"strings"
	"sync"

	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/statusbot/internal/logger"
)

// Command represents a bot command with its handler, description, and metadata.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	AdminOnly   bool
	Hidden      bool
	Aliases     []string
}

// Registry holds bot commands and callback handlers.
type Registry struct {
	commands    map[string]Command
	callbacksMu sync.RWMutex
	callbacks   map[string]tele.HandlerFunc
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		commands:  make(map[string]Command),
		callbacks: make(map[string]tele.HandlerFunc),
	}
}

// RegisterCommand adds a new command.
func (r *Registry) RegisterCommand(name string, cmd Command) {
	if r == nil || name == "" || cmd.Handler == nil || cmd.Description == "" {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.command.skip",
			slog.String("payload", name),
		)
		return
	}
	if name[0] != '/' {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.command.skip",
			slog.String("payload", name),
		)
		return
	}
	if _, exists := r.commands[name]; exists {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.command.duplicate",
			slog.String("payload", name),
		)
		return
	}
	r.commands[name] = cmd
}

// RegisterCallback adds a callback handler mapped to its key.
func (r *Registry) RegisterCallback(key string, handler tele.HandlerFunc) {
	if r == nil || key == "" || handler == nil {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.callback.skip",
			slog.String("cb_key", key),
		)
		return
	}
	r.callbacksMu.Lock()
	defer r.callbacksMu.Unlock()
	if _, exists := r.callbacks[key]; exists {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.callback.duplicate",
			slog.String("cb_key", key),
		)
		return
	}
	r.callbacks[key] = handler
}

// GetCallback returns a callback handler for the given key.
func (r *Registry) GetCallback(key string) (tele.HandlerFunc, bool) {
	r.callbacksMu.RLock()
	defer r.callbacksMu.RUnlock()
	h, ok := r.callbacks[key]
	return h, ok
}

// Commands returns all registered commands.
func (r *Registry) Commands() map[string]Command {
	return r.commands
}

// LookupCommand searches for a command by name or alias and returns the
// canonical key with metadata.
func (r *Registry) LookupCommand(name string) (string, Command, bool) {
	if cmd, ok := r.commands[name]; ok {
		return name, cmd, true
	}
	lowered := strings.ToLower(strings.TrimSpace(name))
	for key, cmd := range r.commands {
		if key == lowered {
			return key, cmd, true
		}
		for _, alias := range cmd.Aliases {
			if alias == lowered {
				return key, cmd, true
			}
		}
	}
	return "", Command{}, false
}

// ListCommands returns tele.Command entries for the Telegram command menu,
// skipping hidden and admin-only commands.
func (r *Registry) ListCommands() []tele.Command {
	var list []tele.Command
	for name, meta := range r.commands {
		if meta.Hidden || meta.AdminOnly {
			continue
		}
		list = append(list, tele.Command{Text: strings.TrimPrefix(name, "/"), Description: meta.Description})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Text < list[j].Text })
	return list
}

// parseCallback splits callback data into a routing key and payload.
// Inline buttons built by telebot arrive as "\f<unique>|<payload>"; raw
// callback data is treated as a bare key.
func parseCallback(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	raw := strings.TrimPrefix(cb.Data, "\f")
	parts := strings.SplitN(raw, "|", 2)
	key := strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		return key, parts[1]
	}
	return key, ""
}
